// Package label assigns a semantic label to comment text with an ensemble
// of per-label binary classifiers.
package label

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Sentinel errors.
var (
	ErrNoClassifiers     = errors.New("ensemble has no classifiers")
	ErrModelsUnavailable = errors.New("models unavailable")
	ErrUnknownBackend    = errors.New("unknown classifier backend")
	ErrMalformedDataset  = errors.New("malformed dataset line")
)

// Predictor maps text to a label and a confidence in [0, 1].
type Predictor interface {
	Predict(ctx context.Context, text string) (label string, confidence float64, err error)
}

// Sample is one labeled training text.
type Sample struct {
	Label string
	Text  string
}

// TrainingSet is a binary one-versus-rest view of samples for one label.
type TrainingSet struct {
	Texts    []string
	Positive []bool
}

// Classifier is a binary classifier dedicated to one label.
type Classifier interface {
	Label() string
	CreateTrainingSet(samples []Sample) TrainingSet
	Train(ctx context.Context, set TrainingSet) error
	// Predict returns the probability that text carries the classifier's label.
	Predict(text string) (float64, error)
	Save(w io.Writer) error
}

// Backend constructs and restores one classifier variant.
type Backend struct {
	New  func(label string) Classifier
	Load func(r io.Reader) (Classifier, error)
}

// Backend names.
const (
	BackendBayes    = "bayes"
	BackendConstant = "constant"
)

var backends = map[string]Backend{
	BackendBayes:    {New: NewBayes, Load: LoadBayes},
	BackendConstant: {New: NewConstant, Load: LoadConstant},
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	return b, nil
}

// Backends lists registered backend names.
func Backends() []string {
	return slices.Sorted(maps.Keys(backends))
}

// binarySet builds the one-versus-rest set shared by every variant.
func binarySet(label string, samples []Sample) TrainingSet {
	set := TrainingSet{
		Texts:    make([]string, len(samples)),
		Positive: make([]bool, len(samples)),
	}

	for i, s := range samples {
		set.Texts[i] = s.Text
		set.Positive[i] = s.Label == label
	}

	return set
}

// Noop predicts no label. It stands in when no models are configured.
type Noop struct{}

// Predict implements Predictor.
func (Noop) Predict(context.Context, string) (string, float64, error) {
	return "", 0, nil
}
