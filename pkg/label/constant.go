package label

import (
	"context"
	"io"

	"github.com/Sumatoshi-tech/coality/pkg/persist"
)

type constantState struct {
	Label string
	Prior float64
}

// Constant predicts the share of positive training samples for every text.
// It is a baseline for comparing other backends.
type Constant struct {
	state constantState
}

// NewConstant returns an untrained Constant classifier for label.
func NewConstant(label string) Classifier {
	return &Constant{state: constantState{Label: label}}
}

// LoadConstant restores a classifier written by Save.
func LoadConstant(r io.Reader) (Classifier, error) {
	c := &Constant{}

	err := persist.NewModelCodec().Decode(r, &c.state)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Label implements Classifier.
func (c *Constant) Label() string { return c.state.Label }

// CreateTrainingSet implements Classifier.
func (c *Constant) CreateTrainingSet(samples []Sample) TrainingSet {
	return binarySet(c.state.Label, samples)
}

// Train implements Classifier.
func (c *Constant) Train(_ context.Context, set TrainingSet) error {
	if len(set.Positive) == 0 {
		c.state.Prior = 0

		return nil
	}

	hits := 0

	for _, p := range set.Positive {
		if p {
			hits++
		}
	}

	c.state.Prior = float64(hits) / float64(len(set.Positive))

	return nil
}

// Predict implements Classifier.
func (c *Constant) Predict(string) (float64, error) {
	return c.state.Prior, nil
}

// Save implements Classifier.
func (c *Constant) Save(w io.Writer) error {
	return persist.NewModelCodec().Encode(w, &c.state)
}
