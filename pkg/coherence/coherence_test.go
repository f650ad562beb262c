package coherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleParts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"get", "user", "name"}, HandleParts("getUserName"))
	assert.Equal(t, []string{"xml", "parser"}, HandleParts("XMLParser"))
	assert.Empty(t, HandleParts(""))
}

func TestCoefficient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		words    []string
		handle   string
		expected float64
	}{
		{name: "all_match", words: []string{"user", "name"}, handle: "getUserName", expected: 1.0},
		{name: "one_edit", words: []string{"users", "list"}, handle: "getUser", expected: 0.5},
		{name: "case_insensitive", words: []string{"User", "Name"}, handle: "getUserName", expected: 1.0},
		{name: "unrelated", words: []string{"opens", "socket"}, handle: "getUserName", expected: 0.0},
		{name: "counted_once", words: []string{"get", "it"}, handle: "getGetter", expected: 0.5},
		{name: "returns_the_user_name", words: []string{"returns", "the", "user", "name"}, handle: "getUserName", expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Coefficient(tt.words, tt.handle)
			require.NotNil(t, got)
			assert.InDelta(t, tt.expected, *got, 1e-9)
		})
	}
}

func TestCoefficient_Undefined(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Coefficient([]string{"user"}, ""))
	assert.Nil(t, Coefficient(nil, "getUser"))
	assert.Nil(t, Coefficient([]string{}, "getUser"))
}

func TestInterpretation(t *testing.T) {
	t.Parallel()

	high, zero, half := 0.75, 0.0, 0.5

	assert.True(t, IsTrivial(&high, DefaultTrivialThreshold))
	assert.False(t, IsTrivial(&half, DefaultTrivialThreshold))
	assert.False(t, IsTrivial(nil, DefaultTrivialThreshold))

	assert.True(t, IsUnrelated(&zero))
	assert.False(t, IsUnrelated(&half))
	assert.False(t, IsUnrelated(nil))
}
