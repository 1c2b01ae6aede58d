package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RuleType says which accumulator a rule awards into.
type RuleType int

// Rule types. Match rules award Points; the others award BonusPoints.
const (
	RuleMatch RuleType = iota + 1
	RuleSide
	RuleSingle
	RuleParticular
)

var ruleTypeNames = map[RuleType]string{
	RuleMatch:      "match",
	RuleSide:       "side",
	RuleSingle:     "single",
	RuleParticular: "particular",
}

// ParseRuleType parses a rule type name. "special" is accepted as an
// alias of "particular".
func ParseRuleType(s string) (RuleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "match":
		return RuleMatch, nil
	case "side":
		return RuleSide, nil
	case "single":
		return RuleSingle, nil
	case "particular", "special":
		return RuleParticular, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRuleType, s)
}

func (t RuleType) String() string {
	if name, ok := ruleTypeNames[t]; ok {
		return name
	}
	return "RuleType(" + strconv.Itoa(int(t)) + ")"
}

// AwardsBonus reports whether the type awards into BonusPoints.
func (t RuleType) AwardsBonus() bool {
	return t == RuleSide || t == RuleSingle || t == RuleParticular
}

// MarshalText implements encoding.TextMarshaler.
func (t RuleType) MarshalText() ([]byte, error) {
	name, ok := ruleTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRuleType, int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RuleType) UnmarshalText(b []byte) error {
	v, err := ParseRuleType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Bound is the direction of a distance condition.
type Bound int

// Distance bounds. BoundNone never matches.
const (
	BoundNone Bound = iota
	BoundAbove
	BoundBelow
)

// Distance is a signed shot-distance condition: "+N" (long shot from
// outside the box in stoppage time, at least N) or "-N" (at most N).
type Distance struct {
	Bound Bound
	Value int
}

// ParseDistance parses "+N", "-N" or an unsigned "N".
func ParseDistance(s string) (Distance, error) {
	s = strings.TrimSpace(s)
	d := Distance{Bound: BoundNone}
	body := s
	switch {
	case strings.HasPrefix(s, "+"):
		d.Bound, body = BoundAbove, s[1:]
	case strings.HasPrefix(s, "-"):
		d.Bound, body = BoundBelow, s[1:]
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return Distance{}, fmt.Errorf("%w: distance %q", ErrInvalidValue, s)
	}
	d.Value = n
	return d, nil
}

func (d Distance) String() string {
	switch d.Bound {
	case BoundAbove:
		return "+" + strconv.Itoa(d.Value)
	case BoundBelow:
		return "-" + strconv.Itoa(d.Value)
	default:
		return strconv.Itoa(d.Value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Distance) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Distance) UnmarshalText(b []byte) error {
	v, err := ParseDistance(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// AfterTime is an elapsed-time condition written as "<minutes> <flag>",
// e.g. "90 +0". Only marked specs (containing "+") can ever match.
type AfterTime struct {
	Minute int
	// Marked is set when the value contains "+".
	Marked bool
	// Added is set when the value ends in "+0" (added time).
	Added bool
}

// ParseAfterTime parses an after_time value. The minute is the leading
// integer of the first space-separated token.
func ParseAfterTime(s string) (AfterTime, error) {
	minute, ok := LeadingMinute(s)
	if !ok {
		return AfterTime{}, fmt.Errorf("%w: after_time %q", ErrInvalidValue, s)
	}
	return AfterTime{
		Minute: minute,
		Marked: strings.Contains(s, "+"),
		Added:  strings.HasSuffix(s, "+0"),
	}, nil
}

func (a AfterTime) String() string {
	s := strconv.Itoa(a.Minute)
	switch {
	case a.Added:
		return s + " +0"
	case a.Marked:
		return s + " +"
	default:
		return s
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AfterTime) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AfterTime) UnmarshalText(b []byte) error {
	v, err := ParseAfterTime(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// LeadingMinute returns the leading integer of the first space-separated
// token of s, ignoring leading whitespace. "90 +3" and "90+3" give 90.
func LeadingMinute(s string) (int, bool) {
	first, _, _ := strings.Cut(s, " ")
	first = strings.TrimLeft(first, " \t\n\r")
	end := 0
	if end < len(first) && (first[end] == '+' || first[end] == '-') {
		end++
	}
	digits := end
	for end < len(first) && first[end] >= '0' && first[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(first[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Condition is a conjunction: every present field must hold.
type Condition struct {
	Player    *PlayerRef `json:"player,omitempty"`
	Distance  *Distance  `json:"distance,omitempty"`
	AfterTime *AfterTime `json:"after_time,omitempty"`
	AtLeast   *int       `json:"at_least,omitempty"`
}

// Rule is a configured scoring instruction keyed by event kind.
type Rule struct {
	Name        string     `json:"name"`
	Type        RuleType   `json:"type"`
	Event       EventKind  `json:"event"`
	Points      *int       `json:"points,omitempty"`
	BonusPoints *int       `json:"bonus_points,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
}

// Validate checks that the rule carries what applying it will need.
func (r Rule) Validate() error {
	if r.Event == "" {
		return NewConfigurationError(r.Name, "event", ErrMissingField)
	}
	switch {
	case r.Type == RuleMatch:
		if r.Points == nil {
			return NewConfigurationError(r.Name, "points", ErrMissingField)
		}
	case r.Type.AwardsBonus():
		if r.BonusPoints == nil {
			return NewConfigurationError(r.Name, "bonus_points", ErrMissingField)
		}
	default:
		return NewConfigurationError(r.Name, "type", fmt.Errorf("%w: %d", ErrUnknownRuleType, int(r.Type)))
	}
	return nil
}
