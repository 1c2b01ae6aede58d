// Package condition evaluates rule conditions against single match events.
//
// Every predicate is lenient about event data: a field the predicate needs
// but the event lacks makes the predicate false, never an error.
package condition

import (
	"strings"

	"github.com/okian/standings/internal/domain/model"
)

// Stoppage-time and half-length constants used by the time predicates.
const (
	stoppageSuffix = "+0"
	halfLength     = 45
)

// Matches reports whether ev satisfies the player, distance and after_time
// clauses of c. Absent clauses hold. at_least is not consulted here; see
// MatchesThreshold and ReachesThreshold.
func Matches(c *model.Condition, ev model.Event) bool {
	if c == nil {
		return true
	}
	if c.Player != nil && (ev.Player == nil || *ev.Player != *c.Player) {
		return false
	}
	if c.Distance != nil && !MatchesDistance(ev, *c.Distance) {
		return false
	}
	if c.AfterTime != nil && !MatchesAfterTime(ev, *c.AfterTime) {
		return false
	}
	return true
}

// MatchesDistance checks a signed distance bound.
//
// "+N" holds for a shot from outside the box, in stoppage time (time ends
// in "+0"), from at least N. "-N" holds for a shot from at most N.
// Unsigned bounds never hold.
func MatchesDistance(ev model.Event, d model.Distance) bool {
	if ev.Distance == nil {
		return false
	}
	switch d.Bound {
	case model.BoundAbove:
		return ev.Obs != nil && *ev.Obs == model.ObsOutsideBox &&
			strings.HasSuffix(ev.Time, stoppageSuffix) &&
			*ev.Distance >= float64(d.Value)
	case model.BoundBelow:
		return *ev.Distance <= float64(d.Value)
	default:
		return false
	}
}

// MatchesAfterTime checks an elapsed-time bound. Only marked conditions can
// hold: an added-time condition ("90 +0") holds when the event minute lies in
// [condition minute, 45], any other marked condition when the event minute is at
// least the condition minute.
func MatchesAfterTime(ev model.Event, a model.AfterTime) bool {
	if !a.Marked {
		return false
	}
	minute, ok := model.LeadingMinute(ev.Time)
	if !ok {
		return false
	}
	if a.Added {
		return minute >= a.Minute && minute <= halfLength
	}
	return minute >= a.Minute
}

// MatchesThreshold is the literal at_least gate: it only checks that the
// configured threshold is positive. count is accepted but not consulted.
func MatchesThreshold(count, atLeast int) bool {
	_ = count
	return atLeast > 0
}

// ReachesThreshold holds exactly when count has just reached a positive
// atLeast, so a threshold fires once per counting window.
func ReachesThreshold(count, atLeast int) bool {
	return atLeast > 0 && count == atLeast
}
