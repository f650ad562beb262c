package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"nil", nil, false},
		{"empty", []byte{}, false},
		{"java source", []byte("/** Returns the user. */\nUser get();\n"), false},
		{"nul byte", []byte("int x;\x00"), true},
		{"nul past sniff window", []byte(strings.Repeat("a", BinarySniffLength) + "\x00"), false},
		{"nul at window edge", []byte(strings.Repeat("a", BinarySniffLength-1) + "\x00"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsBinary(tt.data))
		})
	}
}
