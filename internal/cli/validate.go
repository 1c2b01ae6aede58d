package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/adapters/loader"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
)

// ErrInvalidRules is returned when validate finds problems.
var ErrInvalidRules = errors.New("rule set is invalid")

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Rules  int      `json:"rules"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Check a rule set without computing standings",
		Long: `Validate loads a rule set (the argument, else the configured
rules_file, else the built-in rules) and reports every rule that could not
be applied as configured, whether or not any event would reach it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Config.RulesFile
			if len(args) == 1 {
				path = args[0]
			}
			l := loader.New(loader.WithLogger(logger.Get().Named("loader")))

			res := ValidationResult{Valid: true}
			rules, err := l.Rules(cmd.Context(), path)
			if err == nil {
				res.Rules = len(rules)
				err = loader.ValidateRules(rules)
			}
			if err != nil {
				res.Valid = false
				res.Errors = splitJoined(err)
			}

			if werr := writeValidation(cmd.OutOrStdout(), rootOpts.Format, res); werr != nil {
				return werr
			}
			if !res.Valid {
				return ErrInvalidRules
			}
			return nil
		},
	}
	return cmd
}

// splitJoined flattens a top-level errors.Join result into one message per
// error. Other multi-cause errors, such as a ConfigurationError, keep their
// full message so the rule name survives.
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok && !isConfigurationError(err) && len(joined.Unwrap()) > 1 {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func isConfigurationError(err error) bool {
	_, ok := err.(*model.ConfigurationError) //nolint:errorlint // only the top level matters here
	return ok
}

func writeValidation(w io.Writer, format string, res ValidationResult) error {
	if format == "text" {
		if res.Valid {
			_, err := fmt.Fprintf(w, "ok: %d rules\n", res.Rules)
			return err
		}
		for _, e := range res.Errors {
			if _, err := fmt.Fprintln(w, "error:", e); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
