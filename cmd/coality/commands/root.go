package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/version"
)

// NewRootCommand assembles the coality command tree.
func NewRootCommand() *cobra.Command {
	g := &Globals{}

	root := &cobra.Command{
		Use:   "coality",
		Short: "Coality - source code comment quality analysis",
		Long: `Coality scrapes the comments of C, C++, Java and C# projects, rates each
one for readability, coherence, language and labels, and aggregates the
results into a per-directory quality report.

Commands:
  run       Project to report in one step
  rate      Project to comment CSV files
  evaluate  Comment CSV files to report`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Config file (default .coality.yaml in . or $HOME)")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Verbose logging")
	root.PersistentFlags().BoolVarP(&g.Quiet, "quiet", "q", false, "Suppress progress output")

	root.AddCommand(
		NewRunCommand(g),
		NewRateCommand(g),
		NewEvaluateCommand(g),
		NewFilterCommand(g),
		NewPredictCommand(g),
		NewTrainCommand(g),
		NewValidateCommand(g),
		newVersionCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "coality %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)

			return err
		},
	}
}
