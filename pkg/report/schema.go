package report

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidReport is returned when a document does not match the report schema.
var ErrInvalidReport = errors.New("report does not match schema")

//go:embed schema/report.schema.json
var schemaJSON []byte

// Schema returns the JSON schema of the report document.
func Schema() []byte {
	return schemaJSON
}

// Violation is one schema error.
type Violation struct {
	Field       string
	Description string
}

// String renders the violation as "field: description".
func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

// Validate checks a JSON report document against the embedded schema. It
// returns the violations and ErrInvalidReport when there are any.
func Validate(document []byte) ([]Violation, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))

	for _, e := range result.Errors() {
		violations = append(violations, Violation{Field: e.Field(), Description: e.Description()})
	}

	return violations, fmt.Errorf("%w: %d violations", ErrInvalidReport, len(violations))
}
