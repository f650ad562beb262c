package evaluate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedNode is returned when a node document does not have the report shape.
var ErrMalformedNode = errors.New("malformed report node")

// RowColumns is the key order of a serialized comment object.
var RowColumns = []string{
	"type", "path", "position", "text", "code_language", "ignore", "matched_synonyms", "abbreviations",
	ColFKGLS, ColFREL, ColFI,
	ColIsEnglish, ColIsCode, ColIsTooShort, ColIsTooLong, ColMatchedSynonyms, ColExclamation,
	ColQuestion, ColAbbreviations, ColIsTrivial, ColIsUnrelated, ColCount, ColCountMissing, "label",
	ColLabelProbability, "handle",
}

const (
	keyName      = "name"
	keyStructure = "structure"
	keyChildren  = "children"
	keyComments  = "comments"
)

// objectWriter emits a JSON object with keys in insertion order.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) field(key string, value any) {
	if w.err != nil {
		return
	}

	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}

	w.n++

	k, err := json.Marshal(key)
	if err != nil {
		w.err = err

		return
	}

	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("encode %s: %w", key, err)

		return
	}

	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	if w.n == 0 {
		return []byte("{}"), nil
	}

	w.buf.WriteByte('}')

	return w.buf.Bytes(), nil
}

// MarshalJSON writes the comment object with keys in RowColumns order.
// Absent numeric values are null.
func (r Row) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}

	for _, col := range RowColumns {
		target := r.field(col)
		if target == nil {
			target = r.Metrics[col]
		}

		w.field(col, target)
	}

	return w.bytes()
}

// UnmarshalJSON restores a comment object written by MarshalJSON.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decode comment object: %w", err)
	}

	out := Row{Metrics: map[string]*float64{}}

	for key, value := range raw {
		target := out.field(key)
		if target == nil {
			var v *float64

			err = json.Unmarshal(value, &v)
			if err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}

			out.Metrics[key] = v

			continue
		}

		err = json.Unmarshal(value, target)
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}

	*r = out

	return nil
}

// field returns the destination of a non-numeric comment key, nil for metrics.
func (r *Row) field(key string) any {
	switch key {
	case "type":
		return &r.Type
	case "path":
		return &r.Path
	case "position":
		return &r.Position
	case "text":
		return &r.Text
	case "code_language":
		return &r.CodeLanguage
	case "ignore":
		return &r.Ignore
	case "matched_synonyms":
		return &r.MatchedSynonyms
	case "abbreviations":
		return &r.Abbreviations
	case "label":
		return &r.Label
	case "handle":
		return &r.Handle
	default:
		return nil
	}
}

// MarshalJSON writes name, structure, the statistics in column order and
// then children or comments.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}

	w.field(keyName, n.Name)
	w.field(keyStructure, n.Structure)

	for _, st := range n.Stats {
		w.field(st.Name, st.Value)
	}

	if n.IsDir() {
		w.field(keyChildren, nonNil(n.Children))
	} else {
		w.field(keyComments, nonNil(n.Comments))
	}

	return w.bytes()
}

// UnmarshalJSON restores a node, keeping the statistics in document order.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode node: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object", ErrMalformedNode)
	}

	out := Node{}

	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return fmt.Errorf("decode node key: %w", keyErr)
		}

		key, _ := keyTok.(string)

		err = out.decodeField(dec, key)
		if err != nil {
			return err
		}
	}

	if out.Structure != StructureDirectory && out.Structure != StructureFile {
		return fmt.Errorf("%w: structure %q", ErrMalformedNode, out.Structure)
	}

	*n = out

	return nil
}

func (n *Node) decodeField(dec *json.Decoder, key string) error {
	var err error

	switch key {
	case keyName:
		err = dec.Decode(&n.Name)
	case keyStructure:
		err = dec.Decode(&n.Structure)
	case keyChildren:
		err = dec.Decode(&n.Children)
	case keyComments:
		err = dec.Decode(&n.Comments)
	default:
		var v *float64

		err = dec.Decode(&v)
		n.Stats = append(n.Stats, Stat{Name: key, Value: v})
	}

	if err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return slices.Clip(s)
}
