package commands

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
)

// ErrNoFilter is returned when filter is run without any criterion.
var ErrNoFilter = errors.New("filter needs --language or --label")

// NewFilterCommand creates the command that narrows a rated comments CSV.
func NewFilterCommand(g *Globals) *cobra.Command {
	var input, output, language, labelName string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep the rated comments of one code language or label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if language == "" && labelName == "" {
				return ErrNoFilter
			}

			comments, err := readCSV(input, comment.ReadComments)
			if err != nil {
				return err
			}

			kept := comment.Filter(comments, language, labelName)

			if output == "" || output == "-" {
				return comment.WriteComments(cmd.OutOrStdout(), kept)
			}

			err = writeCSV(output, func(w io.Writer) error {
				return comment.WriteComments(w, kept)
			})
			if err != nil {
				return err
			}

			progressf(g.Quiet, cmd.ErrOrStderr(), "kept %d of %d comments", len(kept), len(comments))

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", defaultCommentsFile, "Rated comments CSV input")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Filtered CSV output (stdout when empty)")
	cmd.Flags().StringVar(&language, "language", "", "Code language to keep, e.g. Java")
	cmd.Flags().StringVar(&labelName, "label", "", "Label to keep")

	return cmd
}
