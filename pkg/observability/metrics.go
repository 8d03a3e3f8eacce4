package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "assemblyline.index.operations.total"
	metricOperationDuration = "assemblyline.index.operation.duration.seconds"
	metricErrorsTotal       = "assemblyline.index.errors.total"
	metricRecords           = "assemblyline.index.records"

	attrOp     = "op"
	attrView   = "view"
	attrStatus = "status"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// durationBucketBoundaries covers 1µs to 1s; index operations on line-sized
// feeds finish in microseconds.
var durationBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// IndexMetrics holds the instruments recording record-store activity. The
// view attribute separates tree and list timings of the same operation.
type IndexMetrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorsTotal       metric.Int64Counter
	records           metric.Int64UpDownCounter
}

// NewIndexMetrics creates the index instruments from mt.
func NewIndexMetrics(mt metric.Meter) (*IndexMetrics, error) {
	opsTotal, err := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Total number of index operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationsTotal, err)
	}

	opDuration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Index operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed index operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	records, err := mt.Int64UpDownCounter(metricRecords,
		metric.WithDescription("Number of live records"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecords, err)
	}

	return &IndexMetrics{
		operationsTotal:   opsTotal,
		operationDuration: opDuration,
		errorsTotal:       errTotal,
		records:           records,
	}, nil
}

// RecordOperation records one completed operation against view.
func (im *IndexMetrics) RecordOperation(ctx context.Context, op, view, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrView, view),
		attribute.String(attrStatus, status),
	)

	im.operationsTotal.Add(ctx, 1, attrs)
	im.operationDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		im.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// AddRecords adjusts the live record gauge by delta.
func (im *IndexMetrics) AddRecords(ctx context.Context, delta int64) {
	im.records.Add(ctx, delta)
}
