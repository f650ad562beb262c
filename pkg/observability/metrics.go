package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommentsRated   = "coality.comments.rated.total"
	metricCommentsIgnored = "coality.comments.ignored.total"
	metricCommentsMissing = "coality.comments.missing.total"
	metricFilesProcessed  = "coality.files.processed.total"
	metricStageDuration   = "coality.stage.duration.seconds"

	attrStage = "stage"
)

// Pipeline stage names used as the stage attribute.
const (
	StageExtract  = "extract"
	StageRate     = "rate"
	StageEvaluate = "evaluate"
	StageRender   = "render"
)

// durationBucketBoundaries spans single-file runs up to large monorepos.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// PipelineMetrics holds the instruments recorded by a rating run. All
// methods are safe on a nil receiver.
type PipelineMetrics struct {
	rated         metric.Int64Counter
	ignored       metric.Int64Counter
	missing       metric.Int64Counter
	files         metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments from mt.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	rated, err := mt.Int64Counter(metricCommentsRated,
		metric.WithDescription("Comments rated"),
		metric.WithUnit("{comment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommentsRated, err)
	}

	ignored, err := mt.Int64Counter(metricCommentsIgnored,
		metric.WithDescription("Found comments excluded from quality aggregates"),
		metric.WithUnit("{comment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommentsIgnored, err)
	}

	missing, err := mt.Int64Counter(metricCommentsMissing,
		metric.WithDescription("Code elements without a comment"),
		metric.WithUnit("{comment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommentsMissing, err)
	}

	files, err := mt.Int64Counter(metricFilesProcessed,
		metric.WithDescription("Source files scanned for comments"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesProcessed, err)
	}

	stageDuration, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &PipelineMetrics{
		rated:         rated,
		ignored:       ignored,
		missing:       missing,
		files:         files,
		stageDuration: stageDuration,
	}, nil
}

// CommentsRated adds n rated comments.
func (pm *PipelineMetrics) CommentsRated(ctx context.Context, n int) {
	if pm == nil {
		return
	}

	pm.rated.Add(ctx, int64(n))
}

// CommentsIgnored adds n ignored comments.
func (pm *PipelineMetrics) CommentsIgnored(ctx context.Context, n int) {
	if pm == nil {
		return
	}

	pm.ignored.Add(ctx, int64(n))
}

// CommentsMissing adds n missing comments.
func (pm *PipelineMetrics) CommentsMissing(ctx context.Context, n int) {
	if pm == nil {
		return
	}

	pm.missing.Add(ctx, int64(n))
}

// FilesProcessed adds n scanned files.
func (pm *PipelineMetrics) FilesProcessed(ctx context.Context, n int) {
	if pm == nil {
		return
	}

	pm.files.Add(ctx, int64(n))
}

// ObserveStage records the duration of one pipeline stage.
func (pm *PipelineMetrics) ObserveStage(ctx context.Context, stage string, d time.Duration) {
	if pm == nil {
		return
	}

	pm.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStage, stage)))
}

// TimeStage returns a function that records the time elapsed since the call.
func (pm *PipelineMetrics) TimeStage(ctx context.Context, stage string) func() {
	start := time.Now()

	return func() {
		pm.ObserveStage(ctx, stage, time.Since(start))
	}
}
