// Package comment defines the comment records produced by extraction and
// enriched by the rating pipeline, plus their tabular interchange format.
package comment

import (
	"fmt"
	"strconv"
	"strings"
)

// Type classifies what a comment is attached to.
type Type string

// Comment types recognized by the pipeline.
const (
	TypeHeader      Type = "header"
	TypeInline      Type = "in-line"
	TypeClass       Type = "class"
	TypeFunction    Type = "function"
	TypeConstructor Type = "constructor"
	TypeInterface   Type = "interface"
	TypeEnum        Type = "enum"
)

// Types lists every valid comment type.
var Types = []Type{
	TypeHeader, TypeInline, TypeClass, TypeFunction, TypeConstructor, TypeInterface, TypeEnum,
}

// Valid reports whether t is a known comment type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}

	return false
}

// Position is a 1-based line:column location in a source file.
type Position struct {
	Line   int
	Column int
}

// HeaderPosition is the position every file header comment starts at.
var HeaderPosition = Position{Line: 1, Column: 1}

// String renders the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// ParsePosition parses a "line:column" string.
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	return Position{Line: line, Column: col}, nil
}

// Comment is one scraped comment and every signal derived from it.
//
// Extraction fills the identity fields. The rater fills the derived fields
// exactly once, in a fixed order; afterwards the record is read-only.
type Comment struct {
	ID           int
	Path         string
	Position     Position
	Type         Type
	Text         string
	Handle       string
	CodeLanguage string

	ProcessedText string
	Words         []string
	ComplexWords  []string
	Sentences     []string
	Syllables     []string

	Label            string
	LabelProbability float64

	QuestionMarks    int
	ExclamationMarks int

	FleschKincaidGradeLevel float64
	FleschReadingEaseLevel  float64
	FogIndex                float64

	Abbreviations []string

	// CoherenceCoefficient is nil when the comment has no handle or no words.
	CoherenceCoefficient *float64

	Language            string
	LanguageProbability float64

	Synonyms map[string][]string

	IsCode     bool
	TimeMillis float64
}

// MissingComment is a code element that should carry a comment but does not.
type MissingComment struct {
	Path     string
	Position Position
	Handle   string
	Type     Type
}

// IsHeader reports whether the comment is a file header.
func (c *Comment) IsHeader() bool {
	return c.Type == TypeHeader
}

// Matches reports whether c has the given code language and label. An
// empty criterion matches every comment.
func (c *Comment) Matches(codeLanguage, label string) bool {
	if codeLanguage != "" && c.CodeLanguage != codeLanguage {
		return false
	}

	return label == "" || c.Label == label
}

// Filter returns the comments matching codeLanguage and label, in order.
func Filter(comments []*Comment, codeLanguage, label string) []*Comment {
	out := make([]*Comment, 0, len(comments))

	for _, c := range comments {
		if c.Matches(codeLanguage, label) {
			out = append(out, c)
		}
	}

	return out
}
