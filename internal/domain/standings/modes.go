package standings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name cannot be parsed.
var ErrUnknownMode = errors.New("unknown mode")

// GateMode selects how a rule's condition decides whether it awards.
type GateMode int

const (
	// GateAtLeast passes a conditioned rule iff its condition carries a
	// positive at_least, whatever other clauses the condition holds.
	GateAtLeast GateMode = iota
	// GateDispatch evaluates the clauses the condition actually carries and
	// counts at_least against real occurrences within the match.
	GateDispatch
)

// ParseGateMode parses "at_least" or "dispatch".
func ParseGateMode(s string) (GateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "at_least", "literal":
		return GateAtLeast, nil
	case "dispatch":
		return GateDispatch, nil
	}
	return 0, fmt.Errorf("%w: gate %q", ErrUnknownMode, s)
}

func (m GateMode) String() string {
	if m == GateDispatch {
		return "dispatch"
	}
	return "at_least"
}

// BonusMode selects how bonus points reach the points total.
type BonusMode int

const (
	// BonusCumulative re-adds the team's running bonus total into points
	// after every processed score event.
	BonusCumulative BonusMode = iota
	// BonusOnce adds each bonus award into points exactly once.
	BonusOnce
)

// ParseBonusMode parses "cumulative" or "once".
func ParseBonusMode(s string) (BonusMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cumulative":
		return BonusCumulative, nil
	case "once":
		return BonusOnce, nil
	}
	return 0, fmt.Errorf("%w: bonus %q", ErrUnknownMode, s)
}

func (m BonusMode) String() string {
	if m == BonusOnce {
		return "once"
	}
	return "cumulative"
}

// NumericPolicy selects what an absent points/bonus_points field means
// when a rule awards.
type NumericPolicy int

const (
	// NumericStrict fails the run with a ConfigurationError.
	NumericStrict NumericPolicy = iota
	// NumericLenient treats the absent value as 0.
	NumericLenient
)

// ParseNumericPolicy parses "strict" or "lenient".
func ParseNumericPolicy(s string) (NumericPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return NumericStrict, nil
	case "lenient", "zero":
		return NumericLenient, nil
	}
	return 0, fmt.Errorf("%w: missing_numeric %q", ErrUnknownMode, s)
}

func (p NumericPolicy) String() string {
	if p == NumericLenient {
		return "lenient"
	}
	return "strict"
}
