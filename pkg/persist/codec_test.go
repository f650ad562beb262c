package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modelState struct {
	Label  string
	Counts map[string]int
	Prior  float64
}

func sampleState() modelState {
	return modelState{Label: "summary", Counts: map[string]int{"return": 12, "user": 3}, Prior: 0.25}
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	codecs := map[string]Codec{
		"json":  NewJSONCodec(),
		"gob":   NewGobCodec(),
		"model": NewModelCodec(),
		"lz4":   &LZ4Codec{Inner: NewJSONCodec()},
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, codec.Encode(&buf, sampleState()))

			var got modelState

			require.NoError(t, codec.Decode(&buf, &got))
			assert.Equal(t, sampleState(), got)
		})
	}
}

func TestCodecs_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".json", NewJSONCodec().Extension())
	assert.Equal(t, ".gob", NewGobCodec().Extension())
	assert.Equal(t, ".model", NewModelCodec().Extension())
	assert.Equal(t, ".json.lz4", (&LZ4Codec{Inner: NewJSONCodec()}).Extension())
}

func TestJSONCodec_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, (&JSONCodec{}).Encode(&buf, sampleState()))
	assert.LessOrEqual(t, strings.Count(buf.String(), "\n"), 1)
}

func TestCodecs_DecodeErrors(t *testing.T) {
	t.Parallel()

	var got modelState

	err := NewJSONCodec().Decode(strings.NewReader("{{"), &got)
	require.ErrorContains(t, err, "json decode")

	err = NewGobCodec().Decode(strings.NewReader("not gob"), &got)
	require.ErrorContains(t, err, "gob decode")

	err = NewModelCodec().Decode(strings.NewReader("not lz4"), &got)
	require.Error(t, err)
}

func TestJSONCodec_EncodeError(t *testing.T) {
	t.Parallel()

	err := NewJSONCodec().Encode(&bytes.Buffer{}, make(chan int))
	require.ErrorContains(t, err, "json encode")
}

func TestSaveLoadState_CreatesDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "models", "v1")

	require.NoError(t, SaveState(dir, "summary", NewModelCodec(), sampleState()))

	_, err := os.Stat(filepath.Join(dir, "summary.model"))
	require.NoError(t, err)

	var got modelState

	require.NoError(t, LoadState(dir, "summary", NewModelCodec(), &got))
	assert.Equal(t, sampleState(), got)
}

func TestLoadState_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var got modelState

	err := LoadState(dir, "absent", NewJSONCodec(), &got)
	require.ErrorContains(t, err, "open state file")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("nope"), 0o600))

	err = LoadState(dir, "corrupt", NewJSONCodec(), &got)
	require.ErrorContains(t, err, "decode state")
}

func TestBasenames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"b.model", "a.model", "manifest.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.model"), 0o755))

	names, err := Basenames(dir, NewModelCodec())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = Basenames(filepath.Join(dir, "absent"), NewModelCodec())
	require.Error(t, err)
}

func TestPersister(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewPersister[modelState](NewModelCodec())

	state := sampleState()
	require.NoError(t, p.Save(dir, "summary", &state))

	got, err := p.Load(dir, "summary")
	require.NoError(t, err)
	assert.Equal(t, &state, got)

	names, err := p.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary"}, names)

	_, err = p.Load(dir, "usage")
	require.Error(t, err)
}
