// Package evaluate turns rated comments into the hierarchical quality
// report: per-comment rows with defect flags and masking, the optional
// per-file synonym pass, and the recursive directory aggregation.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/ignore"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
	"github.com/Sumatoshi-tech/coality/pkg/synonyms"
)

const tracerName = "coality/evaluate"

// DefaultAcceptedExtensions are the source file extensions kept in the tree.
var DefaultAcceptedExtensions = []string{".java", ".cpp", ".c", ".cc", ".cs", ".h", ".hpp"}

// Options configures evaluation. Zero values select the defaults.
type Options struct {
	AcceptedExtensions []string
	Columns            []Column
	MaskedWhenIgnored  []string
	Scope              Scope
	Ignore             ignore.Options

	// Synonyms enables the per-file synonym pass.
	Synonyms bool
	// Workers bounds concurrent subtree builds and synonym files.
	Workers int

	FilterLanguage string
	FilterLabel    string

	Logger  *slog.Logger
	Metrics *observability.PipelineMetrics
	Tracer  trace.Tracer
}

// DefaultOptions returns the stock evaluation settings.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.AcceptedExtensions == nil {
		o.AcceptedExtensions = DefaultAcceptedExtensions
	}

	if o.Columns == nil {
		o.Columns = DefaultColumns
	}

	if o.MaskedWhenIgnored == nil {
		o.MaskedWhenIgnored = DefaultMaskedWhenIgnored
	}

	if o.Scope == "" {
		o.Scope = ScopeSubstring
	}

	if o.Ignore == (ignore.Options{}) {
		o.Ignore = ignore.DefaultOptions()
	}

	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	return o
}

// Report is the outcome of one evaluation run.
type Report struct {
	RunID    string
	Root     *Node
	Warnings []string
}

// Evaluate builds rows from the rated and missing comments, runs the
// synonym pass when enabled and aggregates the tree under root.
func Evaluate(
	ctx context.Context, root string, comments []*comment.Comment, missing []comment.MissingComment, opts Options,
) (*Report, error) {
	opts = opts.withDefaults()

	runID, ok := observability.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = observability.WithRunID(ctx, runID)
	}

	ctx, span := opts.Tracer.Start(ctx, "coality.evaluate",
		trace.WithAttributes(
			attribute.String("root", root),
			attribute.String("run_id", runID),
			attribute.Int("comments", len(comments)),
			attribute.Int("missing", len(missing)),
		),
	)
	defer span.End()

	defer opts.Metrics.TimeStage(ctx, observability.StageEvaluate)()

	rows := BuildRows(comments, missing, opts)

	if opts.Synonyms {
		if !hasSynonymTables(rows) {
			opts.Logger.WarnContext(ctx, "synonym pass enabled but no comment carries synonym tables",
				"hint", "enable rating.synonyms and set lexicon.thesaurus_file")
		}

		err := MatchSynonyms(ctx, rows, opts.Workers)
		if err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("synonym pass: %w", err)
		}
	}

	ignored := 0

	for i := range rows {
		if rows[i].Ignore && !rows[i].Missing() {
			ignored++
		}
	}

	opts.Metrics.CommentsIgnored(ctx, ignored)
	opts.Metrics.CommentsMissing(ctx, len(missing))

	tree, warnings, err := Build(ctx, root, rows, opts)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("build tree: %w", err)
	}

	opts.Logger.InfoContext(ctx, "evaluation finished",
		"rows", len(rows), "ignored", ignored, "warnings", len(warnings))

	return &Report{RunID: runID, Root: tree, Warnings: warnings}, nil
}

// hasSynonymTables reports whether any found row was rated with a
// non-empty synonym table.
func hasSynonymTables(rows []Row) bool {
	for i := range rows {
		if !rows[i].Missing() && len(rows[i].lexicon) > 0 {
			return true
		}
	}

	return false
}

// MatchSynonyms runs the per-file synonym pass over the found rows and
// records the matches and their count on each row.
func MatchSynonyms(ctx context.Context, rows []Row, workers int) error {
	entries := make([]synonyms.Entry, 0, len(rows))
	index := make([]int, 0, len(rows))

	for i := range rows {
		if rows[i].Missing() {
			continue
		}

		entries = append(entries, synonyms.Entry{
			Path:     rows[i].Path,
			Position: rows[i].Position,
			Ignored:  rows[i].Ignore,
			Synonyms: rows[i].lexicon,
		})
		index = append(index, i)
	}

	results, err := synonyms.Analyze(ctx, entries, workers)
	if err != nil {
		return err
	}

	for k, res := range results {
		row := &rows[index[k]]
		if res.Matches != nil {
			row.MatchedSynonyms = res.Matches
		}

		row.Metrics[ColMatchedSynonyms] = number(float64(res.Count()))
	}

	return nil
}
