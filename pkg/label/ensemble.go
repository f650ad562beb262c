package label

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Ensemble combines per-label classifiers by taking the most confident one.
type Ensemble struct {
	members []Classifier
}

// NewEnsemble orders members by label so ties resolve to the smallest name.
func NewEnsemble(members ...Classifier) *Ensemble {
	sorted := slices.Clone(members)
	slices.SortFunc(sorted, func(a, b Classifier) int {
		return strings.Compare(a.Label(), b.Label())
	})

	return &Ensemble{members: sorted}
}

// Labels returns the member labels in order.
func (e *Ensemble) Labels() []string {
	out := make([]string, len(e.members))
	for i, m := range e.members {
		out[i] = m.Label()
	}

	return out
}

// Members returns the ordered classifiers.
func (e *Ensemble) Members() []Classifier {
	return e.members
}

// Scores runs every member on text concurrently and returns the
// probabilities index-aligned with Labels once all members have finished.
func (e *Ensemble) Scores(ctx context.Context, text string) ([]float64, error) {
	if len(e.members) == 0 {
		return nil, ErrNoClassifiers
	}

	scores := make([]float64, len(e.members))
	g, ctx := errgroup.WithContext(ctx)

	for i, m := range e.members {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			p, err := m.Predict(text)
			if err != nil {
				return fmt.Errorf("predict %s: %w", m.Label(), err)
			}

			scores[i] = p

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return scores, nil
}

// Predict implements Predictor with argmax consensus over member scores.
func (e *Ensemble) Predict(ctx context.Context, text string) (string, float64, error) {
	scores, err := e.Scores(ctx, text)
	if err != nil {
		return "", 0, err
	}

	best := 0

	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return e.members[best].Label(), scores[best], nil
}

// TrainEnsemble trains one classifier of the named backend per label.
// With no labels given, the distinct sample labels are used. Members train
// concurrently.
func TrainEnsemble(ctx context.Context, samples []Sample, labels []string, backend string) (*Ensemble, error) {
	b, err := LookupBackend(backend)
	if err != nil {
		return nil, err
	}

	if len(labels) == 0 {
		labels = DatasetLabels(samples)
	}

	if len(labels) == 0 {
		return nil, ErrNoClassifiers
	}

	members := make([]Classifier, len(labels))
	g, ctx := errgroup.WithContext(ctx)

	for i, l := range labels {
		g.Go(func() error {
			c := b.New(l)

			trainErr := c.Train(ctx, c.CreateTrainingSet(samples))
			if trainErr != nil {
				return fmt.Errorf("train %s: %w", l, trainErr)
			}

			members[i] = c

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	return NewEnsemble(members...), nil
}
