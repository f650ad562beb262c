package label

import (
	"context"
	"io"
	"math"
	"strings"

	"github.com/Sumatoshi-tech/coality/pkg/persist"
)

const (
	negative = 0
	positive = 1
	classes  = 2

	ctxCheckInterval = 1024
)

// bayesState is the persisted form of a Bayes classifier.
type bayesState struct {
	Label      string
	Docs       [classes]int
	Tokens     [classes]int
	WordCounts [classes]map[string]int
	Vocabulary map[string]bool
}

// Bayes is a multinomial naive Bayes classifier with Laplace smoothing.
type Bayes struct {
	state bayesState
}

// NewBayes returns an untrained Bayes classifier for label.
func NewBayes(label string) Classifier {
	return &Bayes{state: bayesState{
		Label:      label,
		WordCounts: [classes]map[string]int{{}, {}},
		Vocabulary: map[string]bool{},
	}}
}

// LoadBayes restores a classifier written by Save.
func LoadBayes(r io.Reader) (Classifier, error) {
	b := &Bayes{}

	err := persist.NewModelCodec().Decode(r, &b.state)
	if err != nil {
		return nil, err
	}

	for c := range classes {
		if b.state.WordCounts[c] == nil {
			b.state.WordCounts[c] = map[string]int{}
		}
	}

	if b.state.Vocabulary == nil {
		b.state.Vocabulary = map[string]bool{}
	}

	return b, nil
}

// Label implements Classifier.
func (b *Bayes) Label() string { return b.state.Label }

// CreateTrainingSet implements Classifier.
func (b *Bayes) CreateTrainingSet(samples []Sample) TrainingSet {
	return binarySet(b.state.Label, samples)
}

// Train implements Classifier.
func (b *Bayes) Train(ctx context.Context, set TrainingSet) error {
	for i, text := range set.Texts {
		if i%ctxCheckInterval == 0 {
			err := ctx.Err()
			if err != nil {
				return err
			}
		}

		class := negative
		if set.Positive[i] {
			class = positive
		}

		b.state.Docs[class]++

		for _, tok := range tokens(text) {
			b.state.WordCounts[class][tok]++
			b.state.Tokens[class]++
			b.state.Vocabulary[tok] = true
		}
	}

	return nil
}

// Predict implements Classifier.
func (b *Bayes) Predict(text string) (float64, error) {
	total := b.state.Docs[negative] + b.state.Docs[positive]
	if total == 0 || b.state.Docs[positive] == 0 {
		return 0, nil
	}

	if b.state.Docs[negative] == 0 {
		return 1, nil
	}

	vocab := float64(len(b.state.Vocabulary))

	var logp [classes]float64

	for c := range classes {
		logp[c] = math.Log(float64(b.state.Docs[c]) / float64(total))
		denom := float64(b.state.Tokens[c]) + vocab

		for _, tok := range tokens(text) {
			logp[c] += math.Log((float64(b.state.WordCounts[c][tok]) + 1) / denom)
		}
	}

	// P(positive) = 1 / (1 + exp(logNeg - logPos))
	return 1 / (1 + math.Exp(logp[negative]-logp[positive])), nil
}

// Save implements Classifier.
func (b *Bayes) Save(w io.Writer) error {
	return persist.NewModelCodec().Encode(w, &b.state)
}

func tokens(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
