package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/fixtures"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var cfg fixtures.Config

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic match files",
		Long: `Generate writes deterministic synthetic match files (001.json,
002.json, ...) for demos and load tests. The same seed always writes the
same files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("out") {
				cfg.Dir = rootOpts.Config.DataDir
			}
			sum, err := fixtures.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d matches (%d goals, %d teams) to %s\n",
				len(sum.Files), sum.Goals, len(sum.Teams), cfg.Dir)
			return err
		},
	}

	cmd.Flags().StringVarP(&cfg.Dir, "out", "o", "", "output directory (default config data_dir)")
	cmd.Flags().IntVarP(&cfg.Matches, "matches", "n", 20, "number of matches")
	cmd.Flags().IntVar(&cfg.Teams, "teams", 8, "number of teams")
	cmd.Flags().IntVar(&cfg.MaxGoals, "max-goals", 5, "maximum goals per side")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "random seed")
	return cmd
}
