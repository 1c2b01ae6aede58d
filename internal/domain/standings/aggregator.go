// Package standings folds match events through scoring rules into a
// per-team standings table.
//
// Processing order is fixed: matches as supplied, home events before away
// events, events as supplied, and every rule as supplied (all matching
// rules apply, not the first one). A run has no state outside the table
// it returns.
package standings

import (
	"fmt"

	"github.com/okian/standings/internal/domain/condition"
	"github.com/okian/standings/internal/domain/model"
)

// Award records one rule paying out to one team.
type Award struct {
	MatchID     string
	Team        model.TeamID
	Rule        string
	Type        model.RuleType
	Points      int
	BonusPoints int
}

// Aggregator computes standings tables. It is safe for concurrent use;
// all run state lives in the call.
type Aggregator struct {
	gate     GateMode
	bonus    BonusMode
	numeric  NumericPolicy
	eventLog bool
	onAward  func(Award)
}

// New creates an Aggregator. The defaults reproduce the reference rule
// semantics: at_least gate, cumulative bonus, strict numeric fields.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		gate:    GateAtLeast,
		bonus:   BonusCumulative,
		numeric: NumericStrict,
		onAward: func(Award) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate runs the default Aggregator.
func Aggregate(matches []model.Match, rules []model.Rule) (*model.Table, error) {
	return New().Aggregate(matches, rules)
}

// Aggregate replays every match against rules. A ConfigurationError aborts
// the run and no table is returned.
func (a *Aggregator) Aggregate(matches []model.Match, rules []model.Rule) (*model.Table, error) {
	table := model.NewTable()
	for i := range matches {
		run, err := a.playMatch(table, &matches[i], rules)
		if err != nil {
			return nil, err
		}
		run.commit(table)
		a.emit(run.awards)
	}
	return table, nil
}

// Decomposable reports whether a run equals the merge of per-match runs.
// Cumulative bonus carries each team's running bonus across matches, so it
// is not.
func (a *Aggregator) Decomposable() bool {
	return a.bonus != BonusCumulative
}

func (a *Aggregator) emit(awards []Award) {
	for _, aw := range awards {
		a.onAward(aw)
	}
}

type countKey struct {
	team model.TeamID
	rule int
}

// matchRun stages one match on copies of its teams' standings.
type matchRun struct {
	match  *model.Match
	order  []model.TeamID
	staged map[model.TeamID]*model.TeamStanding
	counts map[countKey]int
	awards []Award
}

func (r *matchRun) stage(table *model.Table, team model.TeamID) *model.TeamStanding {
	if s, ok := r.staged[team]; ok {
		return s
	}
	s, _ := table.Get(team)
	if s.Events != nil {
		s.Events = append([]model.Event(nil), s.Events...)
	}
	r.staged[team] = &s
	r.order = append(r.order, team)
	return &s
}

func (r *matchRun) commit(table *model.Table) {
	for _, team := range r.order {
		table.Set(team, *r.staged[team])
	}
}

func (a *Aggregator) playMatch(table *model.Table, m *model.Match, rules []model.Rule) (*matchRun, error) {
	run := &matchRun{
		match:  m,
		staged: make(map[model.TeamID]*model.TeamStanding, 2),
		counts: make(map[countKey]int),
	}
	home := run.stage(table, m.Teams.Home)
	away := run.stage(table, m.Teams.Away)

	if err := a.playSide(run, m.Teams.Home, home, m.HomeEvents, rules); err != nil {
		return nil, err
	}
	if err := a.playSide(run, m.Teams.Away, away, m.AwayEvents, rules); err != nil {
		return nil, err
	}

	home.MatchesPlayed++
	away.MatchesPlayed++
	return run, nil
}

func (a *Aggregator) playSide(run *matchRun, team model.TeamID, st *model.TeamStanding, events []model.Event, rules []model.Rule) error {
	for _, ev := range events {
		if a.eventLog {
			st.Events = append(st.Events, ev)
		}
		if ev.Kind != model.EventScore {
			continue
		}
		st.GoalsFor++
		if err := a.applyRules(run, team, st, ev, rules); err != nil {
			return fmt.Errorf("match %s: %w", matchLabel(run.match), err)
		}
		if a.bonus == BonusCumulative {
			st.Points += st.BonusPoints
		}
	}
	return nil
}

func (a *Aggregator) applyRules(run *matchRun, team model.TeamID, st *model.TeamStanding, ev model.Event, rules []model.Rule) error {
	for i := range rules {
		r := &rules[i]
		if r.Event != ev.Kind {
			continue
		}
		if !a.passes(run, team, i, r, ev) {
			continue
		}
		aw, err := a.award(st, r)
		if err != nil {
			return err
		}
		aw.MatchID = run.match.ID
		aw.Team = team
		run.awards = append(run.awards, aw)
	}
	return nil
}

// passes is the condition gate.
func (a *Aggregator) passes(run *matchRun, team model.TeamID, idx int, r *model.Rule, ev model.Event) bool {
	c := r.Condition
	if c == nil {
		return true
	}
	matched := condition.Matches(c, ev)
	key := countKey{team: team, rule: idx}
	if matched {
		run.counts[key]++
	}
	atLeast := 0
	if c.AtLeast != nil {
		atLeast = *c.AtLeast
	}

	if a.gate == GateDispatch {
		if !matched {
			return false
		}
		if c.AtLeast == nil {
			return true
		}
		return condition.ReachesThreshold(run.counts[key], atLeast)
	}
	return condition.MatchesThreshold(run.counts[key], atLeast)
}

func (a *Aggregator) award(st *model.TeamStanding, r *model.Rule) (Award, error) {
	aw := Award{Rule: r.Name, Type: r.Type}
	switch {
	case r.Type == model.RuleMatch:
		pts, err := a.value(r, "points", r.Points)
		if err != nil {
			return Award{}, err
		}
		st.Points += pts
		aw.Points = pts
	case r.Type.AwardsBonus():
		bonus, err := a.value(r, "bonus_points", r.BonusPoints)
		if err != nil {
			return Award{}, err
		}
		st.BonusPoints += bonus
		aw.BonusPoints = bonus
		if a.bonus == BonusOnce {
			st.Points += bonus
		}
	default:
		return Award{}, model.NewConfigurationError(r.Name, "type",
			fmt.Errorf("%w: %s", model.ErrUnknownRuleType, r.Type))
	}
	return aw, nil
}

func (a *Aggregator) value(r *model.Rule, field string, v *int) (int, error) {
	if v != nil {
		return *v, nil
	}
	if a.numeric == NumericLenient {
		return 0, nil
	}
	return 0, model.NewConfigurationError(r.Name, field, model.ErrMissingField)
}

func matchLabel(m *model.Match) string {
	if m.ID != "" {
		return m.ID
	}
	return string(m.Teams.Home) + " vs " + string(m.Teams.Away)
}
