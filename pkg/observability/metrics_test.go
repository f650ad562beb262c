package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/coality/pkg/observability"
)

func setupPipelineMetrics(t *testing.T) (*observability.PipelineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	pm, err := observability.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return pm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for i := range rm.ScopeMetrics {
		for j := range rm.ScopeMetrics[i].Metrics {
			if rm.ScopeMetrics[i].Metrics[j].Name == name {
				return &rm.ScopeMetrics[i].Metrics[j]
			}
		}
	}

	return nil
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	m := findMetric(rm, name)
	require.NotNil(t, m, name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestPipelineMetrics_Counters(t *testing.T) {
	t.Parallel()

	pm, reader := setupPipelineMetrics(t)
	ctx := context.Background()

	pm.CommentsRated(ctx, 5)
	pm.CommentsRated(ctx, 2)
	pm.CommentsIgnored(ctx, 3)
	pm.CommentsMissing(ctx, 4)
	pm.FilesProcessed(ctx, 1)

	rm := collect(t, reader)

	assert.Equal(t, int64(7), counterValue(t, rm, "coality.comments.rated.total"))
	assert.Equal(t, int64(3), counterValue(t, rm, "coality.comments.ignored.total"))
	assert.Equal(t, int64(4), counterValue(t, rm, "coality.comments.missing.total"))
	assert.Equal(t, int64(1), counterValue(t, rm, "coality.files.processed.total"))
}

func TestPipelineMetrics_StageDuration(t *testing.T) {
	t.Parallel()

	pm, reader := setupPipelineMetrics(t)
	ctx := context.Background()

	pm.ObserveStage(ctx, observability.StageRate, 250*time.Millisecond)
	pm.TimeStage(ctx, observability.StageEvaluate)()

	m := findMetric(collect(t, reader), "coality.stage.duration.seconds")
	require.NotNil(t, m)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var pm *observability.PipelineMetrics

	ctx := context.Background()

	assert.NotPanics(t, func() {
		pm.CommentsRated(ctx, 1)
		pm.CommentsIgnored(ctx, 1)
		pm.CommentsMissing(ctx, 1)
		pm.FilesProcessed(ctx, 1)
		pm.TimeStage(ctx, observability.StageExtract)()
	})
}
