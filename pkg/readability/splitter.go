package readability

import (
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter segments text into sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// PunktSplitter splits with the pretrained English punkt model.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the embedded English punkt training data.
func NewPunktSplitter() (*PunktSplitter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}

	return &PunktSplitter{tokenizer: tok}, nil
}

// Split returns the trimmed, non-empty sentences of text.
func (p *PunktSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	found := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(found))

	for _, s := range found {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// RegexpSplitter splits after runs of terminal punctuation followed by
// whitespace.
type RegexpSplitter struct{}

// Split returns the trimmed, non-empty sentences of text.
func (RegexpSplitter) Split(text string) []string {
	out := []string{}
	start := 0

	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = appendSentence(out, text[start:loc[1]])
		start = loc[1]
	}

	return appendSentence(out, text[start:])
}

func appendSentence(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}

	return append(out, s)
}

var (
	defaultSplitter     SentenceSplitter
	defaultSplitterOnce sync.Once
)

// DefaultSplitter returns a shared punkt splitter, or a RegexpSplitter when
// the punkt model cannot be loaded.
func DefaultSplitter() SentenceSplitter {
	defaultSplitterOnce.Do(func() {
		punkt, err := NewPunktSplitter()
		if err != nil {
			defaultSplitter = RegexpSplitter{}

			return
		}

		defaultSplitter = punkt
	})

	return defaultSplitter
}
