package standings_test

import (
	"errors"
	"testing"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T { return &v }

func score(time string) model.Event {
	return model.Event{Kind: model.EventScore, Time: time}
}

func match(home, away string, homeEvents, awayEvents []model.Event) model.Match {
	return model.Match{
		Teams:      model.Teams{Home: model.TeamID(home), Away: model.TeamID(away)},
		HomeEvents: homeEvents,
		AwayEvents: awayEvents,
	}
}

func standing(t *model.Table, team string) model.TeamStanding {
	s, ok := t.Get(model.TeamID(team))
	So(ok, ShouldBeTrue)
	return s
}

func thresholdRule() model.Rule {
	return model.Rule{
		Name:        "scoring",
		Type:        model.RuleSide,
		Event:       model.EventScore,
		Condition:   &model.Condition{AtLeast: ptr(3)},
		BonusPoints: ptr(1),
	}
}

func TestAggregate_Basics(t *testing.T) {
	Convey("Given no matches", t, func() {
		table, err := standings.Aggregate(nil, []model.Rule{thresholdRule()})

		Convey("Then the table is empty", func() {
			So(err, ShouldBeNil)
			So(table.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given one match with a single home goal and no rules", t, func() {
		inside := model.ObsInsideBox
		m := match("home", "away", []model.Event{{Kind: model.EventScore, Time: "10", Obs: &inside}}, nil)

		table, err := standings.Aggregate([]model.Match{m}, nil)

		Convey("Then only goals and matches played move", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home"), ShouldResemble, model.TeamStanding{Points: 0, BonusPoints: 0, MatchesPlayed: 1, GoalsFor: 1})
			So(standing(table, "away"), ShouldResemble, model.TeamStanding{MatchesPlayed: 1})
			So(table.Teams(), ShouldResemble, []model.TeamID{"home", "away"})
		})
	})

	Convey("Given several matches", t, func() {
		matches := []model.Match{
			match("a", "b", []model.Event{score("1"), score("2")}, []model.Event{score("3")}),
			match("c", "a", nil, []model.Event{score("50")}),
			match("b", "c", []model.Event{{Kind: "yellow_card", Time: "12"}}, nil),
		}

		table, err := standings.Aggregate(matches, nil)
		So(err, ShouldBeNil)

		Convey("Then every team appears once, in first-seen order", func() {
			So(table.Teams(), ShouldResemble, []model.TeamID{"a", "b", "c"})
		})

		Convey("And matches played counts every appearance", func() {
			So(standing(table, "a").MatchesPlayed, ShouldEqual, 2)
			So(standing(table, "b").MatchesPlayed, ShouldEqual, 2)
			So(standing(table, "c").MatchesPlayed, ShouldEqual, 2)
		})

		Convey("And goals count only score events of the scoring side", func() {
			So(standing(table, "a").GoalsFor, ShouldEqual, 3)
			So(standing(table, "b").GoalsFor, ShouldEqual, 1)
			So(standing(table, "c").GoalsFor, ShouldEqual, 0)
		})
	})

	Convey("Given identical inputs run twice", t, func() {
		matches := []model.Match{
			match("a", "b", []model.Event{score("1"), score("90 +0")}, []model.Event{score("3")}),
			match("b", "a", []model.Event{score("7")}, nil),
		}
		rules := []model.Rule{thresholdRule(), {Name: "per_goal", Type: model.RuleMatch, Event: model.EventScore, Points: ptr(1)}}

		first, err1 := standings.Aggregate(matches, rules)
		second, err2 := standings.Aggregate(matches, rules)

		Convey("Then the tables are identical", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}

func TestAggregate_LiteralGate(t *testing.T) {
	Convey("Given the threshold rule and a side scoring twice", t, func() {
		m := match("home", "away", []model.Event{score("10"), score("20")}, nil)

		Convey("When aggregated with the defaults", func() {
			table, err := standings.Aggregate([]model.Match{m}, []model.Rule{thresholdRule()})
			So(err, ShouldBeNil)
			home := standing(table, "home")

			Convey("Then the bonus is granted on every score, not once per three goals", func() {
				So(home.BonusPoints, ShouldEqual, 2)
			})

			Convey("And the running bonus is re-added into points after every score", func() {
				// after goal 1: bonus 1, points 1; after goal 2: bonus 2, points 1+2
				So(home.Points, ShouldEqual, 3)
			})
		})

		Convey("When aggregated with bonus added once", func() {
			agg := standings.New(standings.WithBonusMode(standings.BonusOnce))
			table, err := agg.Aggregate([]model.Match{m}, []model.Rule{thresholdRule()})
			So(err, ShouldBeNil)

			Convey("Then points equal the bonus granted", func() {
				home := standing(table, "home")
				So(home.BonusPoints, ShouldEqual, 2)
				So(home.Points, ShouldEqual, 2)
			})
		})
	})

	Convey("Given the late goals rule, which has no at_least", t, func() {
		rules := []model.Rule{{
			Name:        "late_goals",
			Type:        model.RuleSingle,
			Event:       model.EventScore,
			Condition:   &model.Condition{AfterTime: &model.AfterTime{Minute: 90, Marked: true, Added: true}},
			BonusPoints: ptr(1),
		}}
		m := match("home", "away", []model.Event{score("90 +0")}, nil)

		table, err := standings.Aggregate([]model.Match{m}, rules)

		Convey("Then the at_least gate rejects it and no bonus is granted", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home"), ShouldResemble, model.TeamStanding{MatchesPlayed: 1, GoalsFor: 1})
		})
	})

	Convey("Given a keeper rule with a player condition", t, func() {
		rules := []model.Rule{{
			Name:        "keeper_goal",
			Type:        model.RuleParticular,
			Event:       model.EventScore,
			Condition:   &model.Condition{Player: ptr(model.PlayerRef("goalkeeper"))},
			BonusPoints: ptr(2),
		}}
		m := match("home", "away", []model.Event{{Kind: model.EventScore, Time: "60", Player: ptr(model.PlayerRef("goalkeeper"))}}, nil)

		table, err := standings.Aggregate([]model.Match{m}, rules)

		Convey("Then the literal gate does not award even a matching keeper goal", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home").BonusPoints, ShouldEqual, 0)
		})
	})

	Convey("Given a rule without a condition", t, func() {
		rules := []model.Rule{{Name: "per_goal", Type: model.RuleMatch, Event: model.EventScore, Points: ptr(2)}}
		m := match("home", "away", []model.Event{score("5"), score("6")}, nil)

		table, err := standings.Aggregate([]model.Match{m}, rules)

		Convey("Then it awards on every score event", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home").Points, ShouldEqual, 4)
		})
	})

	Convey("Given a rule keyed on an event kind that never drives evaluation", t, func() {
		rules := []model.Rule{{Name: "two_points_on_win", Type: model.RuleMatch, Event: model.EventWin, Points: ptr(2)}}
		m := match("home", "away", []model.Event{score("5"), {Kind: model.EventWin, Time: "90"}}, nil)

		table, err := standings.Aggregate([]model.Match{m}, rules)

		Convey("Then it never awards", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home").Points, ShouldEqual, 0)
			So(standing(table, "home").GoalsFor, ShouldEqual, 1)
		})
	})

	Convey("Given two rules on the same event kind", t, func() {
		rules := []model.Rule{
			{Name: "per_goal", Type: model.RuleMatch, Event: model.EventScore, Points: ptr(1)},
			thresholdRule(),
		}
		m := match("home", "away", []model.Event{score("5")}, nil)

		table, err := standings.Aggregate([]model.Match{m}, rules)

		Convey("Then both apply", func() {
			So(err, ShouldBeNil)
			// 1 point from per_goal, then the running bonus of 1 is re-added
			So(standing(table, "home"), ShouldResemble, model.TeamStanding{Points: 2, BonusPoints: 1, MatchesPlayed: 1, GoalsFor: 1})
		})
	})

	Convey("Given a team scoring in consecutive matches under cumulative bonus", t, func() {
		matches := []model.Match{
			match("home", "x", []model.Event{score("10")}, nil),
			match("home", "y", []model.Event{score("10")}, nil),
		}

		table, err := standings.Aggregate(matches, []model.Rule{thresholdRule()})

		Convey("Then bonus from earlier matches is counted again", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home").BonusPoints, ShouldEqual, 2)
			So(standing(table, "home").Points, ShouldEqual, 3)
		})
	})
}

func TestAggregate_DispatchGate(t *testing.T) {
	agg := standings.New(
		standings.WithGateMode(standings.GateDispatch),
		standings.WithBonusMode(standings.BonusOnce),
	)

	Convey("Given the dispatch gate and a keeper rule", t, func() {
		rules := []model.Rule{{
			Name:        "keeper_goal",
			Type:        model.RuleParticular,
			Event:       model.EventScore,
			Condition:   &model.Condition{Player: ptr(model.PlayerRef("goalkeeper"))},
			BonusPoints: ptr(2),
		}}
		m := match("home", "away",
			[]model.Event{{Kind: model.EventScore, Time: "60", Player: ptr(model.PlayerRef("goalkeeper"))}},
			[]model.Event{{Kind: model.EventScore, Time: "61", Player: ptr(model.PlayerRef("striker"))}},
		)

		table, err := agg.Aggregate([]model.Match{m}, rules)

		Convey("Then only the keeper goal is rewarded", func() {
			So(err, ShouldBeNil)
			So(standing(table, "home").BonusPoints, ShouldEqual, 2)
			So(standing(table, "home").Points, ShouldEqual, 2)
			So(standing(table, "away").BonusPoints, ShouldEqual, 0)
		})
	})

	Convey("Given the dispatch gate and the late goals rule", t, func() {
		late := model.Rule{
			Name:        "late_goals",
			Type:        model.RuleSingle,
			Event:       model.EventScore,
			Condition:   &model.Condition{AfterTime: &model.AfterTime{Minute: 90, Marked: true, Added: true}},
			BonusPoints: ptr(1),
		}

		Convey("When the goal is at 90 +0", func() {
			m := match("home", "away", []model.Event{score("90 +0")}, nil)
			table, err := agg.Aggregate([]model.Match{m}, []model.Rule{late})

			Convey("Then the added-time window [90, 45] still rejects it", func() {
				So(err, ShouldBeNil)
				So(standing(table, "home").BonusPoints, ShouldEqual, 0)
			})
		})

		Convey("When the rule uses a marked minute that is not added time", func() {
			late.Condition = &model.Condition{AfterTime: &model.AfterTime{Minute: 85, Marked: true}}
			m := match("home", "away", []model.Event{score("84"), score("90 +2")}, nil)
			table, err := agg.Aggregate([]model.Match{m}, []model.Rule{late})

			Convey("Then only the late goal earns the bonus", func() {
				So(err, ShouldBeNil)
				So(standing(table, "home").BonusPoints, ShouldEqual, 1)
			})
		})
	})

	Convey("Given the dispatch gate and the threshold rule", t, func() {
		rules := []model.Rule{thresholdRule()}

		Convey("When a side scores four in one match", func() {
			m := match("home", "away", []model.Event{score("1"), score("2"), score("3"), score("4")}, nil)
			table, err := agg.Aggregate([]model.Match{m}, rules)

			Convey("Then the bonus fires once, when the third goal lands", func() {
				So(err, ShouldBeNil)
				So(standing(table, "home").BonusPoints, ShouldEqual, 1)
			})
		})

		Convey("When a side scores three across two matches", func() {
			matches := []model.Match{
				match("home", "x", []model.Event{score("1"), score("2")}, nil),
				match("home", "y", []model.Event{score("1")}, nil),
			}
			table, err := agg.Aggregate(matches, rules)

			Convey("Then counts do not carry across matches", func() {
				So(err, ShouldBeNil)
				So(standing(table, "home").BonusPoints, ShouldEqual, 0)
			})
		})
	})
}

func TestAggregate_Configuration(t *testing.T) {
	Convey("Given a match rule without points", t, func() {
		rules := []model.Rule{{Name: "broken", Type: model.RuleMatch, Event: model.EventScore}}
		good := match("a", "b", nil, nil)
		bad := match("a", "c", []model.Event{score("10")}, nil)
		bad.ID = "round-2.json"

		Convey("When strict", func() {
			table, err := standings.Aggregate([]model.Match{good, bad}, rules)

			Convey("Then the run aborts with an error naming the rule and match", func() {
				So(table, ShouldBeNil)
				var cfgErr *model.ConfigurationError
				So(errors.As(err, &cfgErr), ShouldBeTrue)
				So(cfgErr.Rule, ShouldEqual, "broken")
				So(cfgErr.Field, ShouldEqual, "points")
				So(err.Error(), ShouldContainSubstring, "round-2.json")
			})
		})

		Convey("When lenient", func() {
			agg := standings.New(standings.WithNumericPolicy(standings.NumericLenient))
			table, err := agg.Aggregate([]model.Match{good, bad}, rules)

			Convey("Then the missing value counts as zero", func() {
				So(err, ShouldBeNil)
				So(standing(table, "a"), ShouldResemble, model.TeamStanding{MatchesPlayed: 2, GoalsFor: 1})
			})
		})

		Convey("When no score event ever reaches the rule", func() {
			table, err := standings.Aggregate([]model.Match{good}, rules)

			Convey("Then the rule is never dereferenced", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a bonus rule whose gate rejects every event", t, func() {
		rules := []model.Rule{{Name: "dormant", Type: model.RuleSide, Event: model.EventScore, Condition: &model.Condition{}}}
		table, err := standings.Aggregate([]model.Match{match("a", "b", []model.Event{score("1")}, nil)}, rules)

		Convey("Then the missing bonus is never an error", func() {
			So(err, ShouldBeNil)
			So(standing(table, "a").BonusPoints, ShouldEqual, 0)
		})
	})

	Convey("Given a rule with an unset type", t, func() {
		rules := []model.Rule{{Name: "typeless", Event: model.EventScore, Points: ptr(1)}}
		_, err := standings.Aggregate([]model.Match{match("a", "b", []model.Event{score("1")}, nil)}, rules)

		Convey("Then it is a configuration error", func() {
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
			So(errors.Is(err, model.ErrUnknownRuleType), ShouldBeTrue)
		})
	})
}

func TestAggregate_Observability(t *testing.T) {
	Convey("Given an award hook and an event log", t, func() {
		var awards []standings.Award
		agg := standings.New(
			standings.WithAwardHook(func(a standings.Award) { awards = append(awards, a) }),
			standings.WithEventLog(true),
		)
		card := model.Event{Kind: "yellow_card", Time: "33"}
		m := match("home", "away", []model.Event{score("10"), card}, []model.Event{score("80")})
		m.ID = "week-1.json"

		table, err := agg.Aggregate([]model.Match{m}, []model.Rule{thresholdRule()})
		So(err, ShouldBeNil)

		Convey("Then every award is reported in processing order", func() {
			So(len(awards), ShouldEqual, 2)
			So(awards[0], ShouldResemble, standings.Award{MatchID: "week-1.json", Team: "home", Rule: "scoring", Type: model.RuleSide, BonusPoints: 1})
			So(awards[1].Team, ShouldEqual, model.TeamID("away"))
		})

		Convey("And each standing keeps its side's raw events", func() {
			So(standing(table, "home").Events, ShouldResemble, []model.Event{score("10"), card})
			So(standing(table, "away").Events, ShouldResemble, []model.Event{score("80")})
		})
	})

	Convey("Given a run that fails on its second match", t, func() {
		var awards []standings.Award
		agg := standings.New(standings.WithAwardHook(func(a standings.Award) { awards = append(awards, a) }))
		rules := []model.Rule{
			thresholdRule(),
			{Name: "broken", Type: model.RuleMatch, Event: model.EventScore, Condition: &model.Condition{AtLeast: ptr(1)}},
		}
		matches := []model.Match{
			match("a", "b", nil, nil),
			match("a", "c", []model.Event{score("1")}, nil),
		}

		_, err := agg.Aggregate(matches, rules)

		Convey("Then no award of the failing match escapes", func() {
			So(err, ShouldNotBeNil)
			So(awards, ShouldBeEmpty)
		})
	})
}

func TestModes(t *testing.T) {
	Convey("Given mode names", t, func() {
		g, err := standings.ParseGateMode("dispatch")
		So(err, ShouldBeNil)
		So(g, ShouldEqual, standings.GateDispatch)
		g, err = standings.ParseGateMode("")
		So(err, ShouldBeNil)
		So(g, ShouldEqual, standings.GateAtLeast)

		b, err := standings.ParseBonusMode("once")
		So(err, ShouldBeNil)
		So(b.String(), ShouldEqual, "once")

		p, err := standings.ParseNumericPolicy("lenient")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, standings.NumericLenient)

		_, err = standings.ParseGateMode("random")
		So(errors.Is(err, standings.ErrUnknownMode), ShouldBeTrue)
		_, err = standings.ParseBonusMode("twice")
		So(errors.Is(err, standings.ErrUnknownMode), ShouldBeTrue)
		_, err = standings.ParseNumericPolicy("loose")
		So(errors.Is(err, standings.ErrUnknownMode), ShouldBeTrue)
	})
}
