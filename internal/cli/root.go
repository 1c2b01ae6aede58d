// Package cli implements the standings command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/adapters/presenter"
	"github.com/okian/standings/internal/config"
	"github.com/okian/standings/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text"
	Verbose    bool

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// NewRootCommand creates the root command for the standings CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "standings",
		Short: "League standings from match events and scoring rules",
		Long: `Replays match event files through a configurable rule set and
produces a per-team standings table (points, bonus points, matches played
and goals scored), printed once or served over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := presenter.ParseFormat(opts.Format); err != nil {
				return err
			}
			path := opts.ConfigFile
			if path == "" {
				path = os.Getenv("STANDINGS_CONFIG")
			}
			cfg, err := config.LoadFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			// Logs go to stderr so stdout carries only results.
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			if err := logger.SetLevelString(level); err != nil {
				logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", level), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			opts.Config = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (default $STANDINGS_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "json", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	// Add subcommands
	cmd.AddCommand(NewComputeCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))

	return cmd
}
