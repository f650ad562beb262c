package comment

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Sentinel interchange errors.
var (
	ErrHeaderMismatch  = errors.New("interchange header mismatch")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidType     = errors.New("invalid comment type")
	ErrRowWidth        = errors.New("interchange row has wrong number of fields")
)

// CommentsHeader is the fixed column order of the found-comments interchange.
var CommentsHeader = []string{
	"id", "path", "position", "type", "handle", "text", "label", "label_proba",
	"coherence_coefficient", "N_question", "N_exclamation",
	"processed_text", "N_words", "N_complex_words", "N_syllables", "N_sentences",
	"words", "complex_words", "syllables", "sentences",
	"fkgls", "frel", "fi", "abbreviations", "N_abbreviations",
	"time_millis", "language", "language_proba", "synonyms", "is_code", "code_language",
}

// MissingHeader is the fixed column order of the missing-comments interchange.
var MissingHeader = []string{"path", "position", "handle", "type"}

const floatFormat = 'g'

// WriteComments writes rated comments as CSV with CommentsHeader.
func WriteComments(w io.Writer, comments []*Comment) error {
	cw := csv.NewWriter(w)

	err := cw.Write(CommentsHeader)
	if err != nil {
		return fmt.Errorf("write comments header: %w", err)
	}

	for _, c := range comments {
		row, rowErr := commentRow(c)
		if rowErr != nil {
			return fmt.Errorf("comment %d: %w", c.ID, rowErr)
		}

		err = cw.Write(row)
		if err != nil {
			return fmt.Errorf("write comment %d: %w", c.ID, err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("flush comments: %w", err)
	}

	return nil
}

// WriteMissing writes missing comments as CSV with MissingHeader.
func WriteMissing(w io.Writer, missing []MissingComment) error {
	cw := csv.NewWriter(w)

	err := cw.Write(MissingHeader)
	if err != nil {
		return fmt.Errorf("write missing header: %w", err)
	}

	for _, m := range missing {
		err = cw.Write([]string{m.Path, m.Position.String(), m.Handle, string(m.Type)})
		if err != nil {
			return fmt.Errorf("write missing comment: %w", err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("flush missing: %w", err)
	}

	return nil
}

// ReadComments parses a found-comments CSV written by WriteComments.
func ReadComments(r io.Reader) ([]*Comment, error) {
	records, err := readRecords(r, CommentsHeader)
	if err != nil {
		return nil, err
	}

	comments := make([]*Comment, 0, len(records))

	for i, rec := range records {
		c, parseErr := parseCommentRow(rec)
		if parseErr != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, parseErr)
		}

		comments = append(comments, c)
	}

	return comments, nil
}

// ReadMissing parses a missing-comments CSV written by WriteMissing.
func ReadMissing(r io.Reader) ([]MissingComment, error) {
	records, err := readRecords(r, MissingHeader)
	if err != nil {
		return nil, err
	}

	missing := make([]MissingComment, 0, len(records))

	for i, rec := range records {
		pos, posErr := ParsePosition(rec[1])
		if posErr != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, posErr)
		}

		missing = append(missing, MissingComment{
			Path:     rec[0],
			Position: pos,
			Handle:   rec[2],
			Type:     Type(rec[3]),
		})
	}

	return missing, nil
}

func readRecords(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%w: got %v", ErrHeaderMismatch, got)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return records, nil
}

func commentRow(c *Comment) ([]string, error) {
	lists := make([]string, 0, 6)

	for _, v := range []any{c.Words, c.ComplexWords, c.Syllables, c.Sentences, nonNilStrings(c.Abbreviations), nonNilMap(c.Synonyms)} {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode list cell: %w", err)
		}

		lists = append(lists, string(encoded))
	}

	coherence := ""
	if c.CoherenceCoefficient != nil {
		coherence = formatFloat(*c.CoherenceCoefficient)
	}

	return []string{
		strconv.Itoa(c.ID), c.Path, c.Position.String(), string(c.Type), c.Handle, c.Text,
		c.Label, formatFloat(c.LabelProbability),
		coherence, strconv.Itoa(c.QuestionMarks), strconv.Itoa(c.ExclamationMarks),
		c.ProcessedText,
		strconv.Itoa(len(c.Words)), strconv.Itoa(len(c.ComplexWords)),
		strconv.Itoa(len(c.Syllables)), strconv.Itoa(len(c.Sentences)),
		lists[0], lists[1], lists[2], lists[3],
		formatFloat(c.FleschKincaidGradeLevel), formatFloat(c.FleschReadingEaseLevel), formatFloat(c.FogIndex),
		lists[4], strconv.Itoa(len(c.Abbreviations)),
		formatFloat(c.TimeMillis), c.Language, formatFloat(c.LanguageProbability),
		lists[5], strconv.FormatBool(c.IsCode), c.CodeLanguage,
	}, nil
}

// rowParser accumulates the first parse error so a row decodes in one pass.
type rowParser struct {
	rec []string
	err error
}

func (p *rowParser) col(name string) string {
	return p.rec[slices.Index(CommentsHeader, name)]
}

func (p *rowParser) atoi(name string) int {
	if p.err != nil {
		return 0
	}

	v, err := strconv.Atoi(p.col(name))
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}

	return v
}

func (p *rowParser) float(name string) float64 {
	if p.err != nil {
		return 0
	}

	raw := p.col(name)
	if raw == "" {
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}

	return v
}

func (p *rowParser) optionalFloat(name string) *float64 {
	if p.col(name) == "" {
		return nil
	}

	v := p.float(name)

	return &v
}

func (p *rowParser) boolean(name string) bool {
	if p.err != nil {
		return false
	}

	raw := p.col(name)
	if raw == "" {
		return false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}

	return v
}

func (p *rowParser) decode(name string, dst any) {
	if p.err != nil {
		return
	}

	raw := p.col(name)
	if raw == "" {
		return
	}

	err := json.Unmarshal([]byte(raw), dst)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}
}

func parseCommentRow(rec []string) (*Comment, error) {
	if len(rec) != len(CommentsHeader) {
		return nil, fmt.Errorf("%w: %d", ErrRowWidth, len(rec))
	}

	p := &rowParser{rec: rec}

	pos, err := ParsePosition(p.col("position"))
	if err != nil {
		return nil, err
	}

	typ := Type(p.col("type"))
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}

	c := &Comment{
		ID:                      p.atoi("id"),
		Path:                    p.col("path"),
		Position:                pos,
		Type:                    typ,
		Handle:                  p.col("handle"),
		Text:                    p.col("text"),
		Label:                   p.col("label"),
		LabelProbability:        p.float("label_proba"),
		CoherenceCoefficient:    p.optionalFloat("coherence_coefficient"),
		QuestionMarks:           p.atoi("N_question"),
		ExclamationMarks:        p.atoi("N_exclamation"),
		ProcessedText:           p.col("processed_text"),
		FleschKincaidGradeLevel: p.float("fkgls"),
		FleschReadingEaseLevel:  p.float("frel"),
		FogIndex:                p.float("fi"),
		TimeMillis:              p.float("time_millis"),
		Language:                p.col("language"),
		LanguageProbability:     p.float("language_proba"),
		IsCode:                  p.boolean("is_code"),
		CodeLanguage:            p.col("code_language"),
		Synonyms:                map[string][]string{},
	}

	p.decode("words", &c.Words)
	p.decode("complex_words", &c.ComplexWords)
	p.decode("syllables", &c.Syllables)
	p.decode("sentences", &c.Sentences)
	p.decode("abbreviations", &c.Abbreviations)
	p.decode("synonyms", &c.Synonyms)

	if p.err != nil {
		return nil, p.err
	}

	return c, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, floatFormat, -1, 64)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nonNilMap(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}

	return m
}
