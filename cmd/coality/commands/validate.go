package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/report"
)

// NewValidateCommand creates the command that checks a JSON report against the schema.
func NewValidateCommand(g *Globals) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <report.json|->",
		Short: "Validate a JSON report against the report schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen)
			bad := color.New(color.FgRed)

			if noColor {
				ok.DisableColor()
				bad.DisableColor()
			}

			out := cmd.OutOrStdout()

			violations, err := report.Validate(data)
			if err != nil && !errors.Is(err, report.ErrInvalidReport) {
				return err
			}

			if len(violations) == 0 {
				if !g.Quiet {
					ok.Fprintf(out, "report is valid (%s)\n", args[0])
				}

				return nil
			}

			bad.Fprintf(out, "report is invalid (%s)\n", args[0])

			for _, v := range violations {
				bad.Fprintf(out, "  - %s\n", v)
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
