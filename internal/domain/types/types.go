// Package types contains common types used across the application
package types

import "github.com/okian/standings/internal/domain/model"

// Row represents one team of a standings table as served by the API.
// Rows keep the table's first-seen order; they are not ranked.
type Row struct {
	Team          string `json:"team"`
	Points        int    `json:"points"`
	BonusPoints   int    `json:"bonusPoints"`
	MatchesPlayed int    `json:"matchesPlayed"`
	GoalsFor      int    `json:"goalsFor"`
}

// NewRow builds a Row from a team's standing.
func NewRow(team model.TeamID, s model.TeamStanding) Row {
	return Row{
		Team:          string(team),
		Points:        s.Points,
		BonusPoints:   s.BonusPoints,
		MatchesPlayed: s.MatchesPlayed,
		GoalsFor:      s.GoalsFor,
	}
}

// Rows flattens t in first-seen order. A limit of zero or less means all rows.
func Rows(t *model.Table, limit int) []Row {
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Row, 0, n)
	t.Each(func(team model.TeamID, s model.TeamStanding) {
		if len(out) < n {
			out = append(out, NewRow(team, s))
		}
	})
	return out
}
