package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.IndexMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewIndexMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return metrics, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestIndexMetrics_RecordOperation(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)
	ctx := context.Background()

	metrics.RecordOperation(ctx, "insert", "tree", observability.StatusOK, time.Microsecond)
	metrics.RecordOperation(ctx, "insert", "list", observability.StatusOK, 2*time.Microsecond)

	rm := collectMetrics(t, reader)

	ops := findMetric(rm, "assemblyline.index.operations.total")
	require.NotNil(t, ops)

	sum, ok := ops.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	for _, dp := range sum.DataPoints {
		assert.Equal(t, int64(1), dp.Value)
	}

	hist := findMetric(rm, "assemblyline.index.operation.duration.seconds")
	require.NotNil(t, hist)

	histData, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, histData.DataPoints, 2)

	assert.Nil(t, findMetric(rm, "assemblyline.index.errors.total"))
}

func TestIndexMetrics_RecordError(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.RecordOperation(context.Background(), "remove", "tree", observability.StatusError, time.Microsecond)

	errs := findMetric(collectMetrics(t, reader), "assemblyline.index.errors.total")
	require.NotNil(t, errs)

	sum, ok := errs.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestIndexMetrics_AddRecords(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)
	ctx := context.Background()

	metrics.AddRecords(ctx, 3)
	metrics.AddRecords(ctx, -1)

	gauge := findMetric(collectMetrics(t, reader), "assemblyline.index.records")
	require.NotNil(t, gauge)

	sum, ok := gauge.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.False(t, sum.IsMonotonic)
}
