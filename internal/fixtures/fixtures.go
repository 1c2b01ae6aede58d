// Package fixtures writes synthetic match files for demos and load tests.
// The same Config always produces the same files.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
)

// Generation constants.
const (
	defaultMatches  = 20
	defaultTeams    = 8
	defaultMaxGoals = 5

	keeperGoalOdds  = 40 // one goal in N is scored by the goalkeeper
	addedTimeOdds   = 6  // one goal in N is scored in added time
	outsideBoxOdds  = 3  // one goal in N is a shot from outside the box
	maxAddedMinutes = 6
	minDistance     = 4.0
	maxDistance     = 38.0
)

// ErrInvalidConfig is returned for a Config that cannot produce fixtures.
var ErrInvalidConfig = errors.New("invalid fixtures config")

var clubs = []string{
	"Boca", "River", "Racing", "Independiente", "San Lorenzo", "Huracan",
	"Velez", "Estudiantes", "Gimnasia", "Lanus", "Banfield", "Rosario Central",
	"Newells", "Talleres", "Belgrano", "Colon", "Union", "Tigre",
	"Argentinos", "Platense",
}

var players = []string{"forward", "striker", "winger", "midfielder", "defender"}

// Config controls what Generate writes.
type Config struct {
	Dir      string
	Matches  int
	Teams    int
	MaxGoals int
	Seed     uint64
}

// Summary reports what Generate wrote.
type Summary struct {
	Files []string
	Goals int
	Teams []model.TeamID
}

func (c *Config) withDefaults() (Config, error) {
	out := *c
	if out.Dir == "" {
		return out, fmt.Errorf("%w: dir is required", ErrInvalidConfig)
	}
	if out.Matches <= 0 {
		out.Matches = defaultMatches
	}
	if out.Teams <= 0 {
		out.Teams = defaultTeams
	}
	if out.MaxGoals <= 0 {
		out.MaxGoals = defaultMaxGoals
	}
	if out.Teams < 2 || out.Teams > len(clubs) {
		return out, fmt.Errorf("%w: teams must be between 2 and %d", ErrInvalidConfig, len(clubs))
	}
	return out, nil
}

// Generate writes cfg.Matches match files named 001.json, 002.json, ...
// into cfg.Dir, creating it if needed.
func Generate(ctx context.Context, cfg Config) (Summary, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create %s: %w", c.Dir, err)
	}

	rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	teams := make([]model.TeamID, c.Teams)
	for i := range teams {
		teams[i] = model.TeamID(clubs[i])
	}

	sum := Summary{Teams: teams}
	width := len(strconv.Itoa(c.Matches))
	if width < 3 {
		width = 3
	}
	for i := 0; i < c.Matches; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		m := randomMatch(rng, teams, c.MaxGoals)
		sum.Goals += countGoals(m.HomeEvents) + countGoals(m.AwayEvents)

		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return sum, fmt.Errorf("encode match %d: %w", i+1, err)
		}
		path := filepath.Join(c.Dir, fmt.Sprintf("%0*d.json", width, i+1))
		if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
			return sum, fmt.Errorf("write %s: %w", path, err)
		}
		sum.Files = append(sum.Files, path)
	}

	logger.Get().Info(ctx, "fixtures generated",
		logger.String("dir", c.Dir),
		logger.Int("matches", len(sum.Files)),
		logger.Int("goals", sum.Goals),
	)
	return sum, nil
}

func randomMatch(rng *rand.Rand, teams []model.TeamID, maxGoals int) model.Match {
	h := rng.IntN(len(teams))
	a := rng.IntN(len(teams) - 1)
	if a >= h {
		a++
	}
	m := model.Match{
		Teams:      model.Teams{Home: teams[h], Away: teams[a]},
		HomeEvents: goals(rng, rng.IntN(maxGoals+1)),
		AwayEvents: goals(rng, rng.IntN(maxGoals+1)),
	}
	// Win events follow the goals of the winning side.
	switch {
	case len(m.HomeEvents) > len(m.AwayEvents):
		m.HomeEvents = append(m.HomeEvents, model.Event{Kind: model.EventWin, Time: "90"})
	case len(m.AwayEvents) > len(m.HomeEvents):
		m.AwayEvents = append(m.AwayEvents, model.Event{Kind: model.EventWin, Time: "90"})
	}
	return m
}

func goals(rng *rand.Rand, n int) []model.Event {
	events := make([]model.Event, 0, n+1)
	step := max(90/(n+1), 1)
	minute := 0
	for i := 0; i < n; i++ {
		minute += 1 + rng.IntN(step)
		ev := model.Event{Kind: model.EventScore, Time: strconv.Itoa(minute)}

		player := model.PlayerRef(players[rng.IntN(len(players))])
		if rng.IntN(keeperGoalOdds) == 0 {
			player = "goalkeeper"
		}
		ev.Player = &player

		if rng.IntN(addedTimeOdds) == 0 {
			ev.Time = "90 +" + strconv.Itoa(rng.IntN(maxAddedMinutes))
		}

		obs := model.ObsInsideBox
		dist := minDistance + rng.Float64()*12
		if rng.IntN(outsideBoxOdds) == 0 {
			obs = model.ObsOutsideBox
			dist = 16.5 + rng.Float64()*(maxDistance-16.5)
		}
		dist = math.Round(dist*10) / 10
		ev.Distance = &dist
		ev.Obs = &obs

		events = append(events, ev)
	}
	return events
}

func countGoals(events []model.Event) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == model.EventScore {
			n++
		}
	}
	return n
}
