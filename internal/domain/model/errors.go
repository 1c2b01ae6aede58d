package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for rule configuration errors.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrMissingField    = errors.New("missing field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrUnknownRuleType = errors.New("unknown rule type")
)

// ConfigurationError reports a rule that cannot be applied as configured.
// It matches ErrConfiguration and the wrapped cause with errors.Is.
type ConfigurationError struct {
	Rule  string
	Field string
	Err   error
}

// NewConfigurationError builds a ConfigurationError for rule and field.
func NewConfigurationError(rule, field string, err error) *ConfigurationError {
	return &ConfigurationError{Rule: rule, Field: field, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: rule %q: %v", ErrConfiguration, e.Rule, e.Err)
	}
	return fmt.Sprintf("%s: rule %q: %s: %v", ErrConfiguration, e.Rule, e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}
