// Package ignore computes per-comment defect flags and decides whether a
// comment is excluded from quality aggregates.
package ignore

import (
	"strings"

	"github.com/Sumatoshi-tech/coality/pkg/coherence"
	"github.com/Sumatoshi-tech/coality/pkg/comment"
)

// Default thresholds.
const (
	DefaultTargetLanguage        = "en"
	DefaultMinLanguageConfidence = 0.75
	DefaultMinWords              = 3
	DefaultMaxInlineWords        = 30
	DefaultCodeSymbols           = "=+&|;"
	DefaultCodeSymbolThreshold   = 3
)

// Options holds the thresholds used by Evaluate and IsCommentedCode.
type Options struct {
	TargetLanguage        string
	MinLanguageConfidence float64
	MinWords              int
	MaxInlineWords        int
	CodeSymbols           string
	CodeSymbolThreshold   int
	TrivialThreshold      float64
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		TargetLanguage:        DefaultTargetLanguage,
		MinLanguageConfidence: DefaultMinLanguageConfidence,
		MinWords:              DefaultMinWords,
		MaxInlineWords:        DefaultMaxInlineWords,
		CodeSymbols:           DefaultCodeSymbols,
		CodeSymbolThreshold:   DefaultCodeSymbolThreshold,
		TrivialThreshold:      coherence.DefaultTrivialThreshold,
	}
}

// Flags are the defect signals of one rated comment.
type Flags struct {
	// IsEnglish is set when the detected language is the target language
	// with enough confidence.
	IsEnglish   bool
	IsCode      bool
	IsTooShort  bool
	IsTooLong   bool
	IsTrivial   bool
	IsUnrelated bool
}

// Evaluate derives the defect flags of a rated comment.
func Evaluate(c *comment.Comment, opts Options) Flags {
	words := len(c.Words)

	return Flags{
		IsEnglish:   c.Language == opts.TargetLanguage && c.LanguageProbability >= opts.MinLanguageConfidence,
		IsCode:      c.IsCode,
		IsTooShort:  words < opts.MinWords,
		IsTooLong:   c.Type == comment.TypeInline && words > opts.MaxInlineWords,
		IsTrivial:   coherence.IsTrivial(c.CoherenceCoefficient, opts.TrivialThreshold),
		IsUnrelated: coherence.IsUnrelated(c.CoherenceCoefficient),
	}
}

// Decide reports whether a found comment is excluded from quality
// aggregates. Headers, commented-out code, comments not in the target
// language and too-short comments are ignored. Being too long is a defect
// signal only.
func Decide(c *comment.Comment, flags Flags) bool {
	return c.IsHeader() || flags.IsCode || !flags.IsEnglish || flags.IsTooShort
}

// DecideMissing reports whether a missing comment is ignored. It always is.
func DecideMissing(comment.MissingComment) bool {
	return true
}

// IsCommentedCode sums the occurrences of every symbol in text and reports
// whether the sum exceeds threshold.
func IsCommentedCode(text, symbols string, threshold int) bool {
	total := 0

	seen := make(map[rune]struct{}, len(symbols))
	for _, sym := range symbols {
		if _, dup := seen[sym]; dup {
			continue
		}

		seen[sym] = struct{}{}
		total += strings.Count(text, string(sym))
	}

	return total > threshold
}
