package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
)

// NewEvaluateCommand creates the command that builds a report from the CSV interchanges.
func NewEvaluateCommand(g *Globals) *cobra.Command {
	var commentsPath, missingPath string

	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate [path]",
		Short: "Aggregate rated comment CSV files into the quality report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath(args)
			ctx := observability.WithRunID(cmd.Context(), uuid.NewString())

			e, err := newEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			comments, err := readCSV(commentsPath, comment.ReadComments)
			if err != nil {
				return err
			}

			missing, err := readCSV(missingPath, comment.ReadMissing)
			if err != nil {
				return err
			}

			rep, err := e.renderReport(ctx, path, comments, missing, out, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			progressf(g.Quiet, cmd.ErrOrStderr(), "evaluation completed run_id=%s warnings=%d", rep.RunID, len(rep.Warnings))

			return nil
		},
	}

	cmd.Flags().StringVar(&commentsPath, "comments", defaultCommentsFile, "Rated comments CSV input")
	cmd.Flags().StringVar(&missingPath, "missing", defaultMissingFile, "Missing comments CSV input")
	addOutputFlags(cmd, out)

	return cmd
}
