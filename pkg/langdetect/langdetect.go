// Package langdetect identifies the natural language of comment text.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector maps text to an ISO 639-1 language code and a confidence in [0, 1].
type Detector interface {
	Detect(text string) (code string, confidence float64)
}

// Trigram detects languages with whatlanggo's trigram profiles.
//
// whatlanggo scores the margin between the best and the runner-up language
// rather than a probability, and short texts rarely clear it. Detect
// rescales that margin so whatlanggo's own reliability threshold maps to
// full confidence: a raw 0.6 becomes 0.75.
type Trigram struct{}

// NewTrigram returns a trigram detector.
func NewTrigram() *Trigram {
	return &Trigram{}
}

// Detect returns ("", 0) for blank text or when no language is recognized.
func (*Trigram) Detect(text string) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return "", 0
	}

	info := whatlanggo.Detect(text)
	if info.Lang == -1 {
		return "", 0
	}

	return info.Lang.Iso6391(), Calibrate(info.Confidence)
}

// Calibrate maps a whatlanggo margin score onto [0, 1] with
// whatlanggo.ReliableConfidenceThreshold as the saturation point.
func Calibrate(raw float64) float64 {
	if raw <= 0 {
		return 0
	}

	return min(1, raw/whatlanggo.ReliableConfidenceThreshold)
}

// Fixed always reports the same language and confidence.
type Fixed struct {
	Code       string
	Confidence float64
}

// Detect implements Detector.
func (f Fixed) Detect(string) (string, float64) {
	return f.Code, f.Confidence
}
