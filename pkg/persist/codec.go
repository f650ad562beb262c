// Package persist stores model and manifest state on disk through
// pluggable codecs.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// File extensions for supported codecs.
const (
	jsonExtension  = ".json"
	gobExtension   = ".gob"
	lz4Suffix      = ".lz4"
	ModelExtension = ".model"
)

const (
	defaultIndent = "  "
	dirPerm       = 0o755
)

// Codec defines how state is serialized and deserialized.
type Codec interface {
	Encode(w io.Writer, state any) error
	Decode(r io.Reader, state any) error
	// Extension is the file extension, dot included.
	Extension() string
}

// JSONCodec encodes state as JSON. Empty Indent means compact output.
type JSONCodec struct {
	Indent string
}

// NewJSONCodec creates a JSON codec with two-space indentation.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	err := json.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// GobCodec encodes state with encoding/gob.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.
func (c *GobCodec) Encode(w io.Writer, state any) error {
	err := gob.NewEncoder(w).Encode(state)
	if err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *GobCodec) Decode(r io.Reader, state any) error {
	err := gob.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *GobCodec) Extension() string {
	return gobExtension
}

// LZ4Codec compresses the output of an inner codec with LZ4 frames.
type LZ4Codec struct {
	Inner Codec
	// Ext overrides the default "<inner>.lz4" extension.
	Ext string
}

// NewModelCodec returns the codec used for classifier models: LZ4
// compressed gob stored under the ".model" extension.
func NewModelCodec() *LZ4Codec {
	return &LZ4Codec{Inner: NewGobCodec(), Ext: ModelExtension}
}

// Encode implements Codec.
func (c *LZ4Codec) Encode(w io.Writer, state any) error {
	zw := lz4.NewWriter(w)

	err := c.Inner.Encode(zw, state)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *LZ4Codec) Decode(r io.Reader, state any) error {
	return c.Inner.Decode(lz4.NewReader(r), state)
}

// Extension implements Codec.
func (c *LZ4Codec) Extension() string {
	if c.Ext != "" {
		return c.Ext
	}

	return c.Inner.Extension() + lz4Suffix
}

// SaveState writes state to dir/basename+ext, creating dir when needed.
func SaveState(dir, basename string, codec Codec, state any) error {
	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	file, err := os.Create(filepath.Join(dir, basename+codec.Extension()))
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	defer file.Close()

	err = codec.Encode(file, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return nil
}

// LoadState reads dir/basename+ext into state, which must be a pointer.
func LoadState(dir, basename string, codec Codec, state any) error {
	file, err := os.Open(filepath.Join(dir, basename+codec.Extension()))
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}

// Basenames lists, sorted, the basenames of regular files in dir that carry
// the codec's extension.
func Basenames(dir string, codec Codec) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list state dir: %w", err)
	}

	ext := codec.Extension()
	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ext) {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}

	slices.Sort(names)

	return names, nil
}
