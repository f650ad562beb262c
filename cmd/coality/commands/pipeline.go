package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
	"github.com/Sumatoshi-tech/coality/pkg/extract"
	"github.com/Sumatoshi-tech/coality/pkg/report"
)

// rateProject extracts and rates every comment under path.
func (e *env) rateProject(ctx context.Context, path string) (*extract.Result, error) {
	r, err := e.rater()
	if err != nil {
		return nil, err
	}

	res, err := e.extractor().Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	err = r.Rate(ctx, res.Comments)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// renderReport evaluates the rated comments and writes the report.
func (e *env) renderReport(
	ctx context.Context, path string, comments []*comment.Comment, missing []comment.MissingComment,
	out *outputOptions, stdout io.Writer,
) (*evaluate.Report, error) {
	format, err := report.ParseFormat(out.format)
	if err != nil {
		return nil, err
	}

	rep, err := evaluate.Evaluate(ctx, path, comments, missing, e.evaluateOptions())
	if err != nil {
		return nil, err
	}

	w, closeFn, err := openOutput(out.path, stdout)
	if err != nil {
		return nil, err
	}

	err = report.Render(ctx, w, rep, report.Options{
		Format:  format,
		Color:   !out.noColor && out.path == "",
		Metrics: e.metrics,
		Tracer:  e.tracer,
	})

	closeErr := closeFn()
	if err != nil {
		return nil, err
	}

	if closeErr != nil {
		return nil, fmt.Errorf("close output: %w", closeErr)
	}

	return rep, nil
}

// outputOptions are the report flags shared by run and evaluate.
type outputOptions struct {
	format  string
	path    string
	noColor bool
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, f.Close, nil
}

func writeCSV(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	err = write(f)

	closeErr := f.Close()
	if err != nil {
		return err
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	return nil
}

func readCSV[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}

	return v, nil
}
