package loader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

const rulesKey = "rules"

// ruleDocument is one entry of a rules file, before typing.
type ruleDocument struct {
	Name        string             `koanf:"name"`
	Type        string             `koanf:"type"`
	Event       string             `koanf:"event"`
	Points      *int               `koanf:"points"`
	BonusPoints *int               `koanf:"bonus_points"`
	Condition   *conditionDocument `koanf:"condition"`
}

type conditionDocument struct {
	Player    *string `koanf:"player"`
	Distance  any     `koanf:"distance"`
	AfterTime *string `koanf:"after_time"`
	AtLeast   *int    `koanf:"at_least"`
}

// Rules reads a YAML (or JSON) rule set from path. An empty path yields
// DefaultRules.
//
//	rules:
//	  - name: late_goals
//	    type: single
//	    event: score
//	    condition:
//	      after_time: "90 +0"
//	    bonus_points: 1
func (l *Loader) Rules(ctx context.Context, path string) ([]model.Rule, error) {
	if path == "" {
		l.log.Debug(ctx, "using built-in rules")
		return DefaultRules(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		metrics.RecordLoadError("rules")
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	if !k.Exists(rulesKey) {
		metrics.RecordLoadError("rules")
		return nil, fmt.Errorf("%w: %s: missing %q list", ErrRulesFile, path, rulesKey)
	}

	var docs []ruleDocument
	if err := k.UnmarshalWithConf(rulesKey, &docs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		metrics.RecordLoadError("rules")
		return nil, fmt.Errorf("%w: %s: %w", ErrRulesFile, path, err)
	}

	rules := make([]model.Rule, 0, len(docs))
	for i := range docs {
		r, err := docs[i].rule(i)
		if err != nil {
			metrics.RecordLoadError("rules")
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rules = append(rules, r)
	}

	l.log.Debug(ctx, "rules loaded", logger.String("file", path), logger.Int("count", len(rules)))
	return rules, nil
}

func (d *ruleDocument) rule(idx int) (model.Rule, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "rules[" + strconv.Itoa(idx) + "]"
	}

	t, err := model.ParseRuleType(d.Type)
	if err != nil {
		return model.Rule{}, model.NewConfigurationError(name, "type", err)
	}
	event := strings.TrimSpace(d.Event)
	if event == "" {
		return model.Rule{}, model.NewConfigurationError(name, "event", model.ErrMissingField)
	}

	r := model.Rule{
		Name:        name,
		Type:        t,
		Event:       model.EventKind(event),
		Points:      d.Points,
		BonusPoints: d.BonusPoints,
	}
	if d.Condition == nil {
		return r, nil
	}

	c := &model.Condition{AtLeast: d.Condition.AtLeast}
	if d.Condition.Player != nil {
		p := model.PlayerRef(*d.Condition.Player)
		c.Player = &p
	}
	if d.Condition.Distance != nil {
		// An unquoted +25 reaches us as the number 25 with its sign gone.
		raw, ok := d.Condition.Distance.(string)
		if !ok {
			return model.Rule{}, model.NewConfigurationError(name, "distance",
				fmt.Errorf("%w: distance %v must be quoted, e.g. \"+25\" or \"-11\"", model.ErrInvalidValue, d.Condition.Distance))
		}
		dist, err := model.ParseDistance(raw)
		if err != nil {
			return model.Rule{}, model.NewConfigurationError(name, "distance", err)
		}
		c.Distance = &dist
	}
	if d.Condition.AfterTime != nil {
		at, err := model.ParseAfterTime(*d.Condition.AfterTime)
		if err != nil {
			return model.Rule{}, model.NewConfigurationError(name, "after_time", err)
		}
		c.AfterTime = &at
	}
	r.Condition = c
	return r, nil
}

// DefaultRules returns the built-in league rule set.
func DefaultRules() []model.Rule {
	two, one, keeper := 2, 1, 2
	atLeast := 3
	goalkeeper := model.PlayerRef("goalkeeper")
	late := model.AfterTime{Minute: 90, Marked: true, Added: true}
	return []model.Rule{
		{Name: "two_points_on_win", Type: model.RuleMatch, Event: model.EventWin, Points: &two},
		{
			Name: "late_goals", Type: model.RuleSingle, Event: model.EventScore,
			Condition:   &model.Condition{AfterTime: &late},
			BonusPoints: &one,
		},
		{
			Name: "keeper_goal", Type: model.RuleParticular, Event: model.EventScore,
			Condition:   &model.Condition{Player: &goalkeeper},
			BonusPoints: &keeper,
		},
		{
			Name: "scoring", Type: model.RuleSide, Event: model.EventScore,
			Condition:   &model.Condition{AtLeast: &atLeast},
			BonusPoints: &one,
		},
	}
}

// ValidateRules checks every rule upfront and joins all problems found.
// Aggregation only reports a missing field once a rule fires; this check
// reports it whether or not any event would reach the rule.
func ValidateRules(rules []model.Rule) error {
	var errs []error
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[r.Name] {
			errs = append(errs, model.NewConfigurationError(r.Name, "name",
				fmt.Errorf("%w: duplicate rule name", model.ErrInvalidValue)))
		}
		seen[r.Name] = true
	}
	return errors.Join(errs...)
}
