// Package coherence scores how closely a comment's words echo the name of
// the code element it documents.
package coherence

import (
	"strings"

	"github.com/Sumatoshi-tech/coality/pkg/levenshtein"
	"github.com/Sumatoshi-tech/coality/pkg/textnorm"
)

// Default interpretation thresholds.
const (
	DefaultTrivialThreshold = 0.5
	unrelatedCoefficient    = 0.0
)

// HandleParts splits a camel-case handle into lowercase parts:
// "getUserName" -> ["get", "user", "name"].
func HandleParts(handle string) []string {
	return strings.Fields(strings.ToLower(textnorm.SplitCamelCase(handle)))
}

// Coefficient returns the share of words within one edit of some handle
// part. It is nil when the handle or the word list is empty.
func Coefficient(words []string, handle string) *float64 {
	if handle == "" || len(words) == 0 {
		return nil
	}

	parts := HandleParts(handle)
	similar := 0

	for _, w := range words {
		lw := strings.ToLower(w)

		for _, part := range parts {
			if levenshtein.Near(lw, part) {
				similar++

				break
			}
		}
	}

	v := float64(similar) / float64(len(words))

	return &v
}

// IsTrivial reports whether the comment mostly repeats its handle.
func IsTrivial(coefficient *float64, threshold float64) bool {
	return coefficient != nil && *coefficient > threshold
}

// IsUnrelated reports whether no word of the comment resembles its handle.
func IsUnrelated(coefficient *float64) bool {
	return coefficient != nil && *coefficient == unrelatedCoefficient
}
