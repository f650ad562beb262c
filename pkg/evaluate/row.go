package evaluate

import (
	"path/filepath"
	"slices"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/ignore"
	"github.com/Sumatoshi-tech/coality/pkg/synonyms"
)

// Numeric row columns.
const (
	ColFKGLS            = "fkgls"
	ColFREL             = "frel"
	ColFI               = "fi"
	ColIsEnglish        = "is_english"
	ColIsCode           = "is_code"
	ColIsTooShort       = "is_too_short"
	ColIsTooLong        = "is_too_long"
	ColMatchedSynonyms  = "N_matched_synonyms"
	ColExclamation      = "N_exclamation"
	ColQuestion         = "N_question"
	ColAbbreviations    = "N_abbreviations"
	ColIsTrivial        = "is_trivial"
	ColIsUnrelated      = "is_unrelated"
	ColCount            = "count"
	ColCountMissing     = "count_missing"
	ColLabelProbability = "label_proba"
)

// Row is the evaluation view of one found or missing comment. Rows are
// copies; building and masking them never touches the source comment.
type Row struct {
	Type            comment.Type
	Path            string
	Position        comment.Position
	Text            string
	CodeLanguage    string
	Handle          string
	Label           string
	Ignore          bool
	Abbreviations   []string
	MatchedSynonyms []synonyms.Match

	// Metrics holds the numeric columns. A nil value is absent.
	Metrics map[string]*float64

	// lexicon is the comment's word to synonym-candidates table, consumed by
	// the synonym pass.
	lexicon map[string][]string
}

// Missing reports whether the row stands for a missing comment.
func (r *Row) Missing() bool {
	v := r.Metrics[ColCountMissing]

	return v != nil && *v > 0
}

// Value returns the named numeric column, nil when absent.
func (r *Row) Value(column string) *float64 {
	return r.Metrics[column]
}

// BuildRows turns rated comments and missing comments into rows. The code
// language and label filters apply to found comments only. Masked columns
// of ignored rows are cleared.
func BuildRows(comments []*comment.Comment, missing []comment.MissingComment, opts Options) []Row {
	opts = opts.withDefaults()
	rows := make([]Row, 0, len(comments)+len(missing))

	for _, c := range comment.Filter(comments, opts.FilterLanguage, opts.FilterLabel) {
		rows = append(rows, foundRow(c, opts))
	}

	for _, m := range missing {
		rows = append(rows, missingRow(m, opts))
	}

	return rows
}

func foundRow(c *comment.Comment, opts Options) Row {
	flags := ignore.Evaluate(c, opts.Ignore)

	row := Row{
		Type:            c.Type,
		Path:            cleanPath(c.Path),
		Position:        c.Position,
		Text:            c.Text,
		CodeLanguage:    c.CodeLanguage,
		Handle:          c.Handle,
		Label:           c.Label,
		Ignore:          ignore.Decide(c, flags),
		Abbreviations:   slices.Clone(c.Abbreviations),
		MatchedSynonyms: []synonyms.Match{},
		Metrics: map[string]*float64{
			ColFKGLS:            number(c.FleschKincaidGradeLevel),
			ColFREL:             number(c.FleschReadingEaseLevel),
			ColFI:               number(c.FogIndex),
			ColIsEnglish:        flag(flags.IsEnglish),
			ColIsCode:           flag(flags.IsCode),
			ColIsTooShort:       flag(flags.IsTooShort),
			ColIsTooLong:        flag(flags.IsTooLong),
			ColMatchedSynonyms:  number(0),
			ColExclamation:      number(float64(c.ExclamationMarks)),
			ColQuestion:         number(float64(c.QuestionMarks)),
			ColAbbreviations:    number(float64(len(c.Abbreviations))),
			ColIsTrivial:        flag(flags.IsTrivial),
			ColIsUnrelated:      flag(flags.IsUnrelated),
			ColCount:            number(1),
			ColCountMissing:     number(0),
			ColLabelProbability: number(c.LabelProbability),
		},
		lexicon: c.Synonyms,
	}

	if row.Abbreviations == nil {
		row.Abbreviations = []string{}
	}

	if row.Ignore {
		mask(&row, opts.MaskedWhenIgnored)
	}

	return row
}

func missingRow(m comment.MissingComment, opts Options) Row {
	row := Row{
		Type:            m.Type,
		Path:            cleanPath(m.Path),
		Position:        m.Position,
		Handle:          m.Handle,
		Ignore:          ignore.DecideMissing(m),
		Abbreviations:   []string{},
		MatchedSynonyms: []synonyms.Match{},
		Metrics: map[string]*float64{
			ColIsEnglish:       number(0),
			ColIsCode:          number(0),
			ColIsTooShort:      number(0),
			ColIsTooLong:       number(0),
			ColMatchedSynonyms: number(0),
			ColIsTrivial:       number(0),
			ColIsUnrelated:     number(0),
			ColCount:           number(0),
			ColCountMissing:    number(1),
		},
	}

	mask(&row, opts.MaskedWhenIgnored)

	return row
}

func mask(row *Row, columns []string) {
	for _, col := range columns {
		row.Metrics[col] = nil
	}
}

func cleanPath(p string) string {
	if p == "" {
		return p
	}

	return filepath.ToSlash(filepath.Clean(p))
}

func number(v float64) *float64 {
	return &v
}

func flag(b bool) *float64 {
	if b {
		return number(1)
	}

	return number(0)
}
