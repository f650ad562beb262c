package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/coality/pkg/ignore"
)

func TestTrigram_English(t *testing.T) {
	t.Parallel()

	code, confidence := NewTrigram().Detect(
		"Returns the name of the user that is currently logged in to the application and its settings.")

	assert.Equal(t, "en", code)
	assert.Greater(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestTrigram_ShortFunctionComment(t *testing.T) {
	t.Parallel()

	code, confidence := NewTrigram().Detect("Returns the user name.")

	assert.Equal(t, "en", code)
	assert.InDelta(t, 0.8238, confidence, 1e-3)
	assert.GreaterOrEqual(t, confidence, ignore.DefaultMinLanguageConfidence)
}

func TestCalibrate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{name: "zero", raw: 0, expected: 0},
		{name: "negative", raw: -0.2, expected: 0},
		{name: "contract_threshold", raw: 0.6, expected: 0.75},
		{name: "reliable_saturates", raw: 0.8, expected: 1},
		{name: "above_reliable", raw: 0.95, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Calibrate(tt.raw), 1e-9)
		})
	}
}

func TestTrigram_German(t *testing.T) {
	t.Parallel()

	code, _ := NewTrigram().Detect(
		"Gibt den Namen des Benutzers zurück, der gerade an der Anwendung angemeldet ist und Einstellungen hat.")

	assert.Equal(t, "de", code)
}

func TestTrigram_Blank(t *testing.T) {
	t.Parallel()

	code, confidence := NewTrigram().Detect("  ")

	assert.Empty(t, code)
	assert.Zero(t, confidence)
}

func TestFixed(t *testing.T) {
	t.Parallel()

	var d Detector = Fixed{Code: "en", Confidence: 1}

	code, confidence := d.Detect("anything")
	assert.Equal(t, "en", code)
	assert.InDelta(t, 1.0, confidence, 1e-9)
}
