package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/adapters/presenter"
	service "github.com/okian/standings/internal/app"
	"github.com/okian/standings/pkg/logger"
)

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &engineFlags{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute standings once and print them",
		Long: `Compute reads every match file of the data directory in file-name
order, applies the rule set and prints the standings table to stdout.
A rule that cannot be applied as configured aborts the run and nothing
is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rootOpts.Config
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}
			log := logger.Get()
			svc := service.New(append(opts, service.WithLogger(log))...)
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			defer svc.Stop()

			run, err := svc.Compute(cmd.Context())
			if err != nil {
				return err
			}
			log.Debug(cmd.Context(), "standings computed",
				logger.Int("matches", run.Matches),
				logger.Int("teams", run.Table.Len()),
				logger.Duration("took", run.Took),
			)

			format, err := presenter.ParseFormat(rootOpts.Format)
			if err != nil {
				return err
			}
			return presenter.Write(cmd.OutOrStdout(), format, run.Table)
		},
	}
	flags.register(cmd)
	return cmd
}
