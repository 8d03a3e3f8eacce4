// Package session drives a DualIndex on behalf of a user: it loads feeds,
// validates requests, times each view and reports through logs, spans and
// metrics. The index itself stays free of I/O.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/assemblyline/pkg/feed"
	"github.com/Sumatoshi-tech/assemblyline/pkg/index"
	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
	"github.com/Sumatoshi-tech/assemblyline/pkg/render"
)

const opDisplay = "display"

// Session wraps one DualIndex. Its methods serialize with each other.
type Session struct {
	index    *index.DualIndex
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.IndexMetrics
	pending  []render.Timing
	capacity int
	mu       sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) {
		s.tracer = tracer
	}
}

// WithMetrics records operation counts and per-view latencies.
func WithMetrics(metrics *observability.IndexMetrics) Option {
	return func(s *Session) {
		s.metrics = metrics
	}
}

// WithCapacity caps the number of live records. Zero means unbounded.
func WithCapacity(capacity int) Option {
	return func(s *Session) {
		s.capacity = capacity
	}
}

// New creates a session over an empty index.
func New(opts ...Option) *Session {
	s := &Session{
		logger: slog.New(slog.DiscardHandler),
		tracer: nooptrace.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.index = index.New(index.WithCapacity(s.capacity), index.WithObserver(s.observe))

	return s
}

// observe runs under the index write lock, which implies s.mu is held.
func (s *Session) observe(_ string, view index.View, elapsed time.Duration) {
	s.pending = append(s.pending, render.Timing{View: view, Elapsed: elapsed})
}

// Index exposes the underlying store for read-only use.
func (s *Session) Index() *index.DualIndex {
	return s.index
}

// Len returns the number of live records.
func (s *Session) Len() int {
	return s.index.Len()
}

// Exists reports whether productID is stored.
func (s *Session) Exists(productID string) bool {
	_, ok := s.index.Get(productID)

	return ok
}

// Outcome describes a completed mutation.
type Outcome struct {
	Record  *record.Record
	Timings []render.Timing
}

// Insert validates fields and stores the resulting record.
func (s *Session) Insert(ctx context.Context, fields record.Fields) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "session.insert",
		trace.WithAttributes(attribute.String("product_id", fields.ProductID)))
	defer span.End()

	rec, err := record.New(fields)
	if err != nil {
		return Outcome{}, s.fail(ctx, span, index.OpInsert, err)
	}

	if s.Exists(rec.ProductID()) {
		return Outcome{}, s.fail(ctx, span, index.OpInsert, fmt.Errorf("%w: %s", index.ErrDuplicateID, rec.ProductID()))
	}

	err = s.index.Insert(rec)
	if err != nil {
		return Outcome{}, s.fail(ctx, span, index.OpInsert, err)
	}

	outcome := Outcome{Record: rec, Timings: s.flush(ctx, index.OpInsert)}
	s.count(ctx, 1)

	s.logger.InfoContext(ctx, "record inserted",
		"product_id", rec.ProductID(), "duration", rec.Duration(), "records", s.index.Len())

	return outcome, nil
}

// Remove deletes the record with productID.
func (s *Session) Remove(ctx context.Context, productID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "session.remove",
		trace.WithAttributes(attribute.String("product_id", productID)))
	defer span.End()

	rec, err := s.index.Remove(productID)
	if err != nil {
		// A record that was found has left the index even if a structure
		// reported an inconsistency.
		if rec != nil {
			s.pending = nil
			s.count(ctx, -1)
		}

		return Outcome{}, s.fail(ctx, span, index.OpRemove, err)
	}

	outcome := Outcome{Record: rec, Timings: s.flush(ctx, index.OpRemove)}
	s.count(ctx, -1)

	s.logger.InfoContext(ctx, "record removed", "product_id", productID, "records", s.index.Len())

	return outcome, nil
}

// Show reads the records by order from each view and times every read.
func (s *Session) Show(ctx context.Context, order index.Ordering, views ...index.View) []render.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "session.show",
		trace.WithAttributes(attribute.String("order", order.String())))
	defer span.End()

	sections := make([]render.Section, 0, len(views))

	for _, view := range views {
		start := time.Now()
		recs := s.index.Records(order, view)
		elapsed := time.Since(start)

		s.record(ctx, opDisplay, view, observability.StatusOK, elapsed)
		sections = append(sections, render.NewSection(Title(order, view), recs, elapsed))
	}

	return sections
}

// Stats reports the shape of the index.
func (s *Session) Stats() index.Stats {
	return s.index.Stats()
}

// Verify checks the consistency of the four structures.
func (s *Session) Verify(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "session.verify")
	defer span.End()

	err := s.index.Verify()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}

// Title names a listing, e.g. "Product id (tree)".
func Title(order index.Ordering, view index.View) string {
	label := "Product id"
	if order == index.ByDuration {
		label = "Processing time"
	}

	return fmt.Sprintf("%s (%s)", label, view)
}

// LoadReport summarizes a feed load.
type LoadReport struct {
	Skipped []error
	Loaded  int
}

// Load reads the feed at path into the index. In strict mode the first bad
// line or rejected record aborts the load; otherwise such lines are logged
// and skipped. Records loaded before an abort stay in the index.
func (s *Session) Load(ctx context.Context, path string, strict bool) (LoadReport, error) {
	src, err := feed.Open(path)
	if err != nil {
		return LoadReport{}, err
	}
	defer src.Close()

	report, err := s.LoadFrom(ctx, src, strict)
	if err != nil {
		return report, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.InfoContext(ctx, "feed loaded", "path", path, "records", report.Loaded, "skipped", len(report.Skipped))

	return report, nil
}

// LoadFrom is Load over an open feed.
func (s *Session) LoadFrom(ctx context.Context, src io.Reader, strict bool) (LoadReport, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	var report LoadReport

	for rec, err := range feed.NewReader(src).All() {
		if err == nil {
			err = s.add(ctx, rec)
		}

		if err == nil {
			report.Loaded++

			continue
		}

		var parseErr *feed.ParseError
		if strict || !(errors.As(err, &parseErr) || isRejection(err)) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return report, err
		}

		s.logger.WarnContext(ctx, "feed line skipped", "error", err)
		report.Skipped = append(report.Skipped, err)
	}

	span.SetAttributes(attribute.Int("records", report.Loaded))

	return report, nil
}

func isRejection(err error) bool {
	return errors.Is(err, index.ErrDuplicateID) || errors.Is(err, index.ErrCapacity)
}

func (s *Session) add(ctx context.Context, rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.index.Insert(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.ProductID(), err)
	}

	s.flush(ctx, index.OpInsert)
	s.count(ctx, 1)

	return nil
}

// flush records and returns the timings gathered by the last mutation.
func (s *Session) flush(ctx context.Context, op string) []render.Timing {
	timings := s.pending
	s.pending = nil

	for _, timing := range timings {
		s.record(ctx, op, timing.View, observability.StatusOK, timing.Elapsed)
	}

	return timings
}

func (s *Session) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, op, "index", observability.StatusError, 0)
	}

	s.logger.WarnContext(ctx, op+" rejected", "error", err)

	return err
}

func (s *Session) record(ctx context.Context, op string, view index.View, status string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, op, view.String(), status, elapsed)
	}
}

func (s *Session) count(ctx context.Context, delta int64) {
	if s.metrics != nil {
		s.metrics.AddRecords(ctx, delta)
	}
}
