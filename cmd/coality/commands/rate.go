package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
)

const (
	defaultCommentsFile = "comments.csv"
	defaultMissingFile  = "missing_comments.csv"
	defaultModelsDir    = "models"
)

// NewRateCommand creates the command that writes the two comment interchanges.
func NewRateCommand(g *Globals) *cobra.Command {
	var commentsPath, missingPath string

	cmd := &cobra.Command{
		Use:   "rate [path]",
		Short: "Extract and rate comments into the comments and missing-comments CSV files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath(args)
			ctx := cmd.Context()

			e, err := newEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			res, err := e.rateProject(ctx, path)
			if err != nil {
				return err
			}

			err = writeCSV(commentsPath, func(w io.Writer) error {
				return comment.WriteComments(w, res.Comments)
			})
			if err != nil {
				return err
			}

			err = writeCSV(missingPath, func(w io.Writer) error {
				return comment.WriteMissing(w, res.Missing)
			})
			if err != nil {
				return err
			}

			progressf(g.Quiet, cmd.ErrOrStderr(), "wrote comments=%d to %s, missing=%d to %s",
				len(res.Comments), commentsPath, len(res.Missing), missingPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&commentsPath, "comments", defaultCommentsFile, "Rated comments CSV output")
	cmd.Flags().StringVar(&missingPath, "missing", defaultMissingFile, "Missing comments CSV output")

	return cmd
}
