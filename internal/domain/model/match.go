// Package model contains the domain records shared by the rule engine,
// its loaders and its presenters.
package model

// TeamID identifies a team as it appears in match records.
type TeamID string

// PlayerRef identifies the player (or role, e.g. "goalkeeper") behind an event.
type PlayerRef string

// EventKind names what happened in an event. Unknown kinds are valid and
// simply never match a rule that does not name them.
type EventKind string

// Known event kinds.
const (
	EventScore EventKind = "score"
	EventWin   EventKind = "win"
)

// Obs values with a meaning for conditions.
const (
	ObsOutsideBox = "afuera del area"
	ObsInsideBox  = "dentro del area"
)

// Teams holds the two sides of a fixture.
type Teams struct {
	Home TeamID `json:"home"`
	Away TeamID `json:"away"`
}

// Match is one played fixture. It is loaded once and never mutated.
type Match struct {
	// ID is the source name of the record (file name). Used for logging only.
	ID         string  `json:"-"`
	Teams      Teams   `json:"teams"`
	HomeEvents []Event `json:"home_events"`
	AwayEvents []Event `json:"away_events"`
}

// Event is a timestamped occurrence on one side of a match.
// Time is free-form, e.g. "37" or "90 +3".
type Event struct {
	Kind     EventKind  `json:"event"`
	Player   *PlayerRef `json:"player,omitempty"`
	Time     string     `json:"time"`
	Distance *float64   `json:"distance,omitempty"`
	Obs      *string    `json:"obs,omitempty"`
}
