package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	comments := []*Comment{
		{ID: 0, CodeLanguage: "Java", Label: "summary"},
		{ID: 1, CodeLanguage: "C", Label: "summary"},
		{ID: 2, CodeLanguage: "Java", Label: "usage"},
	}

	tests := []struct {
		name     string
		language string
		label    string
		want     []int
	}{
		{"no criteria", "", "", []int{0, 1, 2}},
		{"language", "Java", "", []int{0, 2}},
		{"label", "", "summary", []int{0, 1}},
		{"both", "Java", "usage", []int{2}},
		{"none match", "C#", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ids := []int{}
			for _, c := range Filter(comments, tt.language, tt.label) {
				ids = append(ids, c.ID)
			}

			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestIsHeader(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Comment{Type: TypeHeader}).IsHeader())
	assert.False(t, (&Comment{Type: TypeInline}).IsHeader())
}
