package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/coality/pkg/label"
)

// NewTrainCommand creates the command that trains the per-label classifiers.
func NewTrainCommand(g *Globals) *cobra.Command {
	var (
		modelsDir string
		backend   string
		labels    []string
	)

	cmd := &cobra.Command{
		Use:   "train <dataset>",
		Short: "Train one classifier per label from a fastText-style dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			if modelsDir == "" {
				modelsDir = e.cfg.Label.ModelsDir
			}

			if modelsDir == "" {
				modelsDir = defaultModelsDir
			}

			if backend == "" {
				backend = e.cfg.Label.Backend
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()

			samples, err := label.ReadDataset(f)
			if err != nil {
				return err
			}

			ens, err := label.TrainEnsemble(ctx, samples, labels, backend)
			if err != nil {
				return err
			}

			err = label.SaveEnsemble(modelsDir, backend, ens)
			if err != nil {
				return err
			}

			e.logger.InfoContext(ctx, "models trained",
				"samples", len(samples), "labels", len(ens.Labels()), "backend", backend, "dir", modelsDir)
			progressf(g.Quiet, cmd.ErrOrStderr(), "trained %d classifiers into %s", len(ens.Labels()), modelsDir)

			return nil
		},
	}

	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "Output directory (defaults to label.models_dir)")
	cmd.Flags().StringVar(&backend, "backend", "", "Classifier backend: bayes, constant (defaults to label.backend)")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Labels to train (defaults to every label in the dataset)")

	return cmd
}
