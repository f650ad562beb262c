// Package extract scrapes comments out of C, C++, Java and C# sources with
// tree-sitter and records the declarations that lack one.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
	"github.com/Sumatoshi-tech/coality/pkg/textutil"
)

const tracerName = "coality/extract"

// Sentinel extraction errors.
var (
	ErrNotDirectory = errors.New("project root is not a directory")
	errParserPool   = errors.New("parser pool returned an unexpected value")
	errNoRootNode   = errors.New("parse produced no root node")
)

// DefaultExtensions are the source extensions scanned for comments.
var DefaultExtensions = []string{".java", ".cpp", ".c", ".cc", ".cs", ".h", ".hpp"}

// Result is the ordered output of one extraction run.
type Result struct {
	Comments []*comment.Comment
	Missing  []comment.MissingComment
	Warnings []string
}

// Extractor scrapes the comments of every source file under a project root.
type Extractor interface {
	Extract(ctx context.Context, root string) (*Result, error)
}

// Options configures the tree-sitter extractor. Zero values select the defaults.
type Options struct {
	Extensions []string
	Workers    int
	Logger     *slog.Logger
	Metrics    *observability.PipelineMetrics
	Tracer     trace.Tracer
}

// TreeSitter is the tree-sitter backed Extractor.
type TreeSitter struct {
	extensions map[string]struct{}
	workers    int
	logger     *slog.Logger
	metrics    *observability.PipelineMetrics
	tracer     trace.Tracer
}

// NewTreeSitter creates an extractor for the supported languages.
func NewTreeSitter(opts Options) *TreeSitter {
	if opts.Extensions == nil {
		opts.Extensions = DefaultExtensions
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &TreeSitter{
		extensions: exts,
		workers:    opts.Workers,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
	}
}

// Extract walks root, parses every accepted source file and returns the
// comments with IDs assigned in path order.
func (ts *TreeSitter) Extract(ctx context.Context, root string) (*Result, error) {
	root = filepath.Clean(root)

	ctx, span := ts.tracer.Start(ctx, "coality.extract", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	defer ts.metrics.TimeStage(ctx, observability.StageExtract)()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotDirectory, root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	files, warnings, err := ts.collect(ctx, root)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	scans := make([]fileScan, len(files))
	fileWarnings := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ts.workers)

	for i, path := range files {
		g.Go(func() error {
			scanned, warning, scanErr := ts.scan(gctx, path)
			if scanErr != nil {
				return scanErr
			}

			scans[i] = scanned
			fileWarnings[i] = warning

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("extract comments: %w", err)
	}

	res := &Result{Comments: []*comment.Comment{}, Missing: []comment.MissingComment{}}

	for i, scanned := range scans {
		for _, c := range scanned.comments {
			c.ID = len(res.Comments)
			res.Comments = append(res.Comments, c)
		}

		res.Missing = append(res.Missing, scanned.missing...)

		if fileWarnings[i] != "" {
			warnings = append(warnings, fileWarnings[i])
		}
	}

	slices.Sort(warnings)
	res.Warnings = warnings

	for _, w := range warnings {
		ts.logger.WarnContext(ctx, "extraction skipped path", "detail", w)
	}

	span.SetAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("comments", len(res.Comments)),
		attribute.Int("missing", len(res.Missing)),
	)
	ts.logger.InfoContext(ctx, "extraction finished",
		"files", len(files), "comments", len(res.Comments), "missing", len(res.Missing))

	return res, nil
}

// collect lists the accepted source files under root in lexical order.
func (ts *TreeSitter) collect(ctx context.Context, root string) ([]string, []string, error) {
	var (
		files    []string
		warnings []string
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, walkErr))

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // the root itself and unrelated paths are not filtered.
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if enry.IsVendor(rel+"/") || enry.IsDotFile(rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if _, ok := ts.extensions[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, warnings, nil
}

// scan reads and parses one file. Unreadable, binary and unparsable files
// yield a warning instead of an error.
func (ts *TreeSitter) scan(ctx context.Context, path string) (fileScan, string, error) {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fileScan{}, "", ctxErr
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fileScan{}, fmt.Sprintf("%s: %v", path, err), nil
	}

	if textutil.IsBinary(source) {
		return fileScan{}, path + ": binary file", nil
	}

	lang := detectLanguage(path, source)

	g, ok := loadGrammars()[lang]
	if !ok {
		return fileScan{}, fmt.Sprintf("%s: unsupported language %q", path, lang), nil
	}

	scanned, err := scanFile(ctx, g, filepath.ToSlash(path), source)
	if err != nil {
		if ctx.Err() != nil {
			return fileScan{}, "", ctx.Err()
		}

		return fileScan{}, err.Error(), nil
	}

	return scanned, "", nil
}
