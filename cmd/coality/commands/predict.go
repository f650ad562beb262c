package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/label"
)

// NewPredictCommand creates the command that labels a piece of text.
func NewPredictCommand(g *Globals) *cobra.Command {
	var modelsDir string

	cmd := &cobra.Command{
		Use:   "predict <text>...",
		Short: "Print the label and confidence of a comment text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			if modelsDir != "" {
				e.cfg.Label.ModelsDir = modelsDir
			}

			if e.cfg.Label.ModelsDir == "" {
				return fmt.Errorf("%w: no models directory configured", label.ErrModelsUnavailable)
			}

			pred, err := e.predictor()
			if err != nil {
				return err
			}

			name, confidence, err := pred.Predict(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.4f\n", name, confidence)

			return err
		},
	}

	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "Directory of trained label models (overrides label.models_dir)")

	return cmd
}
