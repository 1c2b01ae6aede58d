package condition_test

import (
	"testing"

	"github.com/okian/standings/internal/domain/condition"
	"github.com/okian/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T { return &v }

func TestMatchesDistance(t *testing.T) {
	Convey("Given a long-shot bound of +25", t, func() {
		d := model.Distance{Bound: model.BoundAbove, Value: 25}

		Convey("When the shot is from outside the box in stoppage time and far enough", func() {
			ev := model.Event{Kind: model.EventScore, Time: "45 +0", Distance: ptr(30.0), Obs: ptr(model.ObsOutsideBox)}
			So(condition.MatchesDistance(ev, d), ShouldBeTrue)
		})

		Convey("When the distance equals the bound", func() {
			ev := model.Event{Time: "90 +0", Distance: ptr(25.0), Obs: ptr(model.ObsOutsideBox)}
			So(condition.MatchesDistance(ev, d), ShouldBeTrue)
		})

		Convey("When the shot is inside the box", func() {
			ev := model.Event{Time: "90 +0", Distance: ptr(30.0), Obs: ptr(model.ObsInsideBox)}
			So(condition.MatchesDistance(ev, d), ShouldBeFalse)
		})

		Convey("When the time is not stoppage time", func() {
			ev := model.Event{Time: "90 +3", Distance: ptr(30.0), Obs: ptr(model.ObsOutsideBox)}
			So(condition.MatchesDistance(ev, d), ShouldBeFalse)
		})

		Convey("When the event has no distance or obs", func() {
			So(condition.MatchesDistance(model.Event{Time: "90 +0", Obs: ptr(model.ObsOutsideBox)}, d), ShouldBeFalse)
			So(condition.MatchesDistance(model.Event{Time: "90 +0", Distance: ptr(30.0)}, d), ShouldBeFalse)
		})
	})

	Convey("Given a close-range bound of -6", t, func() {
		d := model.Distance{Bound: model.BoundBelow, Value: 6}

		So(condition.MatchesDistance(model.Event{Time: "3", Distance: ptr(5.5)}, d), ShouldBeTrue)
		So(condition.MatchesDistance(model.Event{Time: "3", Distance: ptr(6.0)}, d), ShouldBeTrue)
		So(condition.MatchesDistance(model.Event{Time: "3", Distance: ptr(6.1)}, d), ShouldBeFalse)
		So(condition.MatchesDistance(model.Event{Time: "3"}, d), ShouldBeFalse)
	})

	Convey("Given an unsigned bound", t, func() {
		d := model.Distance{Bound: model.BoundNone, Value: 10}
		So(condition.MatchesDistance(model.Event{Time: "3", Distance: ptr(10.0)}, d), ShouldBeFalse)
	})
}

func TestMatchesAfterTime(t *testing.T) {
	Convey("Given an added-time condition", t, func() {
		a := model.AfterTime{Minute: 40, Marked: true, Added: true}

		Convey("Then the event minute must lie between the condition minute and 45", func() {
			So(condition.MatchesAfterTime(model.Event{Time: "40"}, a), ShouldBeTrue)
			So(condition.MatchesAfterTime(model.Event{Time: "45 +2"}, a), ShouldBeTrue)
			So(condition.MatchesAfterTime(model.Event{Time: "39"}, a), ShouldBeFalse)
			So(condition.MatchesAfterTime(model.Event{Time: "46"}, a), ShouldBeFalse)
		})
	})

	Convey("Given the late goals condition 90 +0", t, func() {
		a, err := model.ParseAfterTime("90 +0")
		So(err, ShouldBeNil)

		Convey("Then no minute can satisfy the [90, 45] window", func() {
			So(condition.MatchesAfterTime(model.Event{Time: "90 +0"}, a), ShouldBeFalse)
			So(condition.MatchesAfterTime(model.Event{Time: "90 +4"}, a), ShouldBeFalse)
		})
	})

	Convey("Given a marked condition that is not added time", t, func() {
		a, err := model.ParseAfterTime("80 +5")
		So(err, ShouldBeNil)

		So(condition.MatchesAfterTime(model.Event{Time: "80"}, a), ShouldBeTrue)
		So(condition.MatchesAfterTime(model.Event{Time: "90 +3"}, a), ShouldBeTrue)
		So(condition.MatchesAfterTime(model.Event{Time: "79"}, a), ShouldBeFalse)
	})

	Convey("Given an unmarked condition", t, func() {
		a := model.AfterTime{Minute: 10}
		So(condition.MatchesAfterTime(model.Event{Time: "88"}, a), ShouldBeFalse)
	})

	Convey("Given an event with an unreadable time", t, func() {
		a := model.AfterTime{Minute: 10, Marked: true}
		So(condition.MatchesAfterTime(model.Event{Time: "HT"}, a), ShouldBeFalse)
	})
}

func TestThresholds(t *testing.T) {
	Convey("Given the literal threshold check", t, func() {
		Convey("Then only the configured value matters, not the observed count", func() {
			So(condition.MatchesThreshold(0, 3), ShouldBeTrue)
			So(condition.MatchesThreshold(1, 3), ShouldBeTrue)
			So(condition.MatchesThreshold(10, 0), ShouldBeFalse)
			So(condition.MatchesThreshold(10, -1), ShouldBeFalse)
		})
	})

	Convey("Given the counting threshold check", t, func() {
		So(condition.ReachesThreshold(2, 3), ShouldBeFalse)
		So(condition.ReachesThreshold(3, 3), ShouldBeTrue)
		So(condition.ReachesThreshold(4, 3), ShouldBeFalse)
		So(condition.ReachesThreshold(0, 0), ShouldBeFalse)
	})
}

func TestMatches(t *testing.T) {
	Convey("Given a keeper condition", t, func() {
		c := &model.Condition{Player: ptr(model.PlayerRef("goalkeeper"))}

		So(condition.Matches(c, model.Event{Player: ptr(model.PlayerRef("goalkeeper"))}), ShouldBeTrue)
		So(condition.Matches(c, model.Event{Player: ptr(model.PlayerRef("striker"))}), ShouldBeFalse)
		So(condition.Matches(c, model.Event{}), ShouldBeFalse)
	})

	Convey("Given a conjunction of player and distance", t, func() {
		c := &model.Condition{
			Player:   ptr(model.PlayerRef("goalkeeper")),
			Distance: &model.Distance{Bound: model.BoundBelow, Value: 11},
		}

		So(condition.Matches(c, model.Event{Player: ptr(model.PlayerRef("goalkeeper")), Distance: ptr(11.0)}), ShouldBeTrue)
		So(condition.Matches(c, model.Event{Player: ptr(model.PlayerRef("goalkeeper")), Distance: ptr(40.0)}), ShouldBeFalse)
	})

	Convey("Given an empty or absent condition", t, func() {
		So(condition.Matches(nil, model.Event{}), ShouldBeTrue)
		So(condition.Matches(&model.Condition{}, model.Event{}), ShouldBeTrue)
	})

	Convey("Given an at_least only condition", t, func() {
		Convey("Then Matches ignores the threshold", func() {
			So(condition.Matches(&model.Condition{AtLeast: ptr(3)}, model.Event{}), ShouldBeTrue)
		})
	})
}
