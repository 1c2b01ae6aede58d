package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TeamStanding is a team's accumulated result for one aggregation run.
type TeamStanding struct {
	Points        int     `json:"points"`
	BonusPoints   int     `json:"bonusPoints"`
	MatchesPlayed int     `json:"matchesPlayed"`
	GoalsFor      int     `json:"goalsFor"`
	Events        []Event `json:"events,omitempty"`
}

// Add sums o into s. Events are appended in order.
func (s *TeamStanding) Add(o TeamStanding) {
	s.Points += o.Points
	s.BonusPoints += o.BonusPoints
	s.MatchesPlayed += o.MatchesPlayed
	s.GoalsFor += o.GoalsFor
	if len(o.Events) > 0 {
		s.Events = append(s.Events, o.Events...)
	}
}

// Table maps teams to standings and remembers the order in which teams
// were first seen. The zero value is not usable; call NewTable.
type Table struct {
	order []TeamID
	rows  map[TeamID]*TeamStanding
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[TeamID]*TeamStanding)}
}

// Ensure returns the team's standing, creating a zeroed one on first sight.
func (t *Table) Ensure(team TeamID) *TeamStanding {
	if s, ok := t.rows[team]; ok {
		return s
	}
	s := &TeamStanding{}
	t.rows[team] = s
	t.order = append(t.order, team)
	return s
}

// Set replaces the team's standing, keeping its position if already present.
func (t *Table) Set(team TeamID, s TeamStanding) {
	*t.Ensure(team) = s
}

// Get returns a copy of the team's standing.
func (t *Table) Get(team TeamID) (TeamStanding, bool) {
	s, ok := t.rows[team]
	if !ok {
		return TeamStanding{}, false
	}
	return *s, true
}

// Len returns the number of teams.
func (t *Table) Len() int { return len(t.order) }

// Teams returns the teams in first-seen order.
func (t *Table) Teams() []TeamID {
	out := make([]TeamID, len(t.order))
	copy(out, t.order)
	return out
}

// Each calls fn for every team in first-seen order.
func (t *Table) Each(fn func(team TeamID, s TeamStanding)) {
	for _, team := range t.order {
		fn(team, *t.rows[team])
	}
}

// Merge adds every standing of o into t. Teams new to t are appended in
// o's order, so merging per-match partials in match order reproduces the
// sequential first-seen order.
func (t *Table) Merge(o *Table) {
	if o == nil {
		return
	}
	for _, team := range o.order {
		t.Ensure(team).Add(*o.rows[team])
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{
		order: make([]TeamID, len(t.order)),
		rows:  make(map[TeamID]*TeamStanding, len(t.rows)),
	}
	copy(c.order, t.order)
	for team, s := range t.rows {
		cp := *s
		if s.Events != nil {
			cp.Events = append([]Event(nil), s.Events...)
		}
		c.rows[team] = &cp
	}
	return c
}

// MarshalJSON encodes the table as an object keyed by team, in first-seen order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, team := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(team))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(t.rows[team])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by team, keeping key order.
func (t *Table) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("standings table: expected object, got %v", tok)
	}
	fresh := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var s TeamStanding
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("standings table: team %q: %w", key, err)
		}
		fresh.Set(TeamID(key), s)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = *fresh
	return nil
}
