// Package presenter renders standings tables for people and pipes.
package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/standings/internal/domain/model"
)

// ErrUnknownFormat is returned for an output format other than json or text.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects an output rendering.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses "json" (default) or "text".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write renders t to w in format f.
func Write(w io.Writer, f Format, t *model.Table) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatText:
		return WriteText(w, t)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteJSON writes t as an object keyed by team in first-seen order,
// indented by two spaces and terminated by a newline.
func WriteJSON(w io.Writer, t *model.Table) error {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// WriteText writes t as an aligned table, one team per line.
func WriteText(w io.Writer, t *model.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TEAM\tPTS\tBONUS\tPLAYED\tGOALS\t")
	t.Each(func(team model.TeamID, s model.TeamStanding) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", team, s.Points, s.BonusPoints, s.MatchesPlayed, s.GoalsFor)
	})
	return tw.Flush()
}
