package rater

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrMalformedAbbreviations is returned for a dictionary row without an expansion.
var ErrMalformedAbbreviations = errors.New("malformed abbreviation row")

//go:embed data/abbreviations.csv
var abbreviationsData string

// Abbreviations maps an abbreviation to its expansion.
type Abbreviations map[string]string

// DefaultAbbreviations returns the embedded dictionary.
func DefaultAbbreviations() Abbreviations {
	abbr, err := ReadAbbreviations(strings.NewReader(abbreviationsData))
	if err != nil {
		panic(fmt.Sprintf("embedded abbreviations: %v", err))
	}

	return abbr
}

// LoadAbbreviations reads an "abbreviation,expansion" CSV file.
func LoadAbbreviations(path string) (Abbreviations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open abbreviations: %w", err)
	}
	defer f.Close()

	return ReadAbbreviations(f)
}

// ReadAbbreviations parses "abbreviation,expansion" rows.
func ReadAbbreviations(r io.Reader) (Abbreviations, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read abbreviations: %w", err)
	}

	abbr := make(Abbreviations, len(records))

	for i, rec := range records {
		if len(rec) < 2 || rec[0] == "" {
			return nil, fmt.Errorf("%w: row %d", ErrMalformedAbbreviations, i+1)
		}

		abbr[rec[0]] = rec[1]
	}

	return abbr, nil
}

// Match returns the sorted distinct whitespace-delimited tokens of text
// that are dictionary keys.
func (a Abbreviations) Match(text string) []string {
	out := []string{}

	for _, tok := range strings.Fields(text) {
		if _, ok := a[tok]; ok {
			out = append(out, tok)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}
