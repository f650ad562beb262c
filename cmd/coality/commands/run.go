package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/observability"
	"github.com/Sumatoshi-tech/coality/pkg/report"
)

// NewRunCommand creates the end-to-end command: extract, rate, evaluate and render.
func NewRunCommand(g *Globals) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Rate every comment of a project and print the quality report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath(args)
			ctx := observability.WithRunID(cmd.Context(), uuid.NewString())

			e, err := newEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			progressf(g.Quiet, cmd.ErrOrStderr(), "extracting comments path=%s", path)

			res, err := e.rateProject(ctx, path)
			if err != nil {
				return err
			}

			progressf(g.Quiet, cmd.ErrOrStderr(), "rated comments=%d missing=%d", len(res.Comments), len(res.Missing))

			rep, err := e.renderReport(ctx, path, res.Comments, res.Missing, out, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			progressf(g.Quiet, cmd.ErrOrStderr(), "run completed run_id=%s warnings=%d",
				rep.RunID, len(res.Warnings)+len(rep.Warnings))

			return nil
		},
	}

	addOutputFlags(cmd, out)

	return cmd
}

func addOutputFlags(cmd *cobra.Command, out *outputOptions) {
	cmd.Flags().StringVarP(&out.format, "format", "f", string(report.FormatJSON), "Output format: json, yaml, text, html")
	cmd.Flags().StringVarP(&out.path, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&out.noColor, "no-color", false, "Disable colored text output")
}

func resolvePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
