// Package report renders an evaluation tree as JSON, YAML, a text summary
// or an HTML plot, and validates report documents against the embedded
// JSON schema.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
)

const tracerName = "coality/report"

// ErrUnknownFormat is returned for an output format the renderer does not know.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names an output format.
type Format string

// Output formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatText, FormatHTML}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return f, nil
}

// Options configures rendering.
type Options struct {
	Format Format
	// Color enables ANSI colors in the text summary.
	Color   bool
	Metrics *observability.PipelineMetrics
	Tracer  trace.Tracer
}

// Render writes the report in the requested format.
func Render(ctx context.Context, w io.Writer, rep *evaluate.Report, opts Options) error {
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	if opts.Format == "" {
		opts.Format = FormatJSON
	}

	_, span := opts.Tracer.Start(ctx, "coality.render", trace.WithAttributes(
		attribute.String("format", string(opts.Format)),
	))
	defer span.End()

	defer opts.Metrics.TimeStage(ctx, observability.StageRender)()

	var err error

	switch opts.Format {
	case FormatJSON:
		err = WriteJSON(w, rep.Root)
	case FormatYAML:
		err = WriteYAML(w, rep.Root)
	case FormatText:
		err = WriteSummary(w, rep, opts.Color)
	case FormatHTML:
		err = WritePlot(w, rep.Root)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	if err != nil {
		span.RecordError(err)

		return err
	}

	return nil
}

// WriteJSON writes the tree as indented JSON.
func WriteJSON(w io.Writer, root *evaluate.Node) error {
	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	var out bytes.Buffer

	err = json.Indent(&out, data, "", "  ")
	if err != nil {
		return fmt.Errorf("indent report: %w", err)
	}

	out.WriteByte('\n')

	_, err = w.Write(out.Bytes())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// ReadJSON decodes a tree written by WriteJSON.
func ReadJSON(r io.Reader) (*evaluate.Node, error) {
	var root evaluate.Node

	err := json.NewDecoder(r).Decode(&root)
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return &root, nil
}
