package eigen

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/eigscan/internal/linalg"
)

var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eigen_scans_total",
			Help: "The total number of eigenvalue scans processed",
		},
		[]string{"engine", "status"},
	)
	scanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eigen_scan_duration_seconds",
			Help: "The duration of eigenvalue scans in seconds",
		},
		[]string{"engine"},
	)
	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eigen_candidates_scanned_total",
			Help: "The total number of candidate eigenvalues tested",
		},
		[]string{"engine"},
	)
	determinantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eigen_determinants_total",
			Help: "The total number of standalone determinant computations",
		},
		[]string{"engine", "status"},
	)
)

// Scanner is the interface used by the orchestration layer, the CLI and the
// HTTP service. Implementations are safe for concurrent use.
type Scanner interface {
	// Scan examines every λ in [p.Lo, p.Hi] and reports the eigenpairs found.
	// Progress goes to progressChan when it is non-nil.
	//
	// Parameters:
	//   - ctx: Cancels the scan between candidates.
	//   - progressChan: Receives progress updates; may be nil.
	//   - scanIndex: Identifies this scan among concurrent ones.
	//   - p: The matrix and range.
	//   - opts: Scan options.
	//
	// Returns:
	//   - *Report: The result. On cancellation it holds the partial result.
	//   - error: A context error, ErrInconsistentSingularity or an engine error.
	Scan(ctx context.Context, progressChan chan<- ProgressUpdate, scanIndex int, p Problem, opts Options) (*Report, error)

	// Determinant returns det(m) using the scanner's engine.
	Determinant(ctx context.Context, m *linalg.IntMatrix) (*big.Int, error)

	// Name returns the engine's display name.
	Name() string
}

// EigenScanner decorates a DeterminantEngine with the scan loop, progress
// fan-out, tracing, metrics and logging.
type EigenScanner struct {
	engine DeterminantEngine
}

// NewScanner wraps engine. It panics if engine is nil.
func NewScanner(engine DeterminantEngine) Scanner {
	if engine == nil {
		panic("eigen: the DeterminantEngine implementation cannot be nil")
	}
	return &EigenScanner{engine: engine}
}

// Name delegates to the engine.
func (s *EigenScanner) Name() string {
	return s.engine.Name()
}

// Scan runs ScanWithObservers with a ChannelObserver for progressChan (when
// non-nil), a debug LoggingObserver and the progress gauge.
func (s *EigenScanner) Scan(ctx context.Context, progressChan chan<- ProgressUpdate, scanIndex int, p Problem, opts Options) (*Report, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	subject.Register(NewLoggingObserver(log.Logger, 0))
	subject.Register(NewMetricsObserver())
	return s.ScanWithObservers(ctx, subject, scanIndex, p, opts)
}

// ScanWithObservers runs the scan, notifying every observer of subject. A nil
// subject disables progress reporting.
func (s *EigenScanner) ScanWithObservers(ctx context.Context, subject *ProgressSubject, scanIndex int, p Problem, opts Options) (report *Report, err error) {
	order := 0
	if p.Matrix != nil {
		order = p.Matrix.Rows()
	}
	name := s.engine.Name()

	ctx, span := otel.Tracer("eigen").Start(ctx, "Scan", trace.WithAttributes(
		attribute.String("engine", name),
		attribute.Int("order", order),
		attribute.Int64("lo", p.Lo),
		attribute.Int64("hi", p.Hi),
	))
	defer span.End()

	report = &Report{Engine: name, Problem: p}
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
		status := scanStatus(err)
		scansTotal.WithLabelValues(name, status).Inc()
		scanDuration.WithLabelValues(name).Observe(report.Duration.Seconds())
		candidatesTotal.WithLabelValues(name).Add(float64(report.Scanned))

		span.SetAttributes(
			attribute.Int("eigenvalues", len(report.Eigenpairs)),
			attribute.Int64("scanned", int64(report.Scanned)),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		}

		log.Debug().
			Str("engine", name).
			Int("order", order).
			Int64("lo", p.Lo).
			Int64("hi", p.Hi).
			Ints64("eigenvalues", report.Values()).
			Dur("duration", report.Duration).
			Str("status", status).
			Msg("scan completed")
	}()

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(scanIndex)
	}

	report.Eigenpairs, report.Scanned, err = scanRange(ctx, s.engine, p.Matrix, p.Lo, p.Hi, opts, reporter)
	if err == nil && reporter != nil {
		reporter(1.0)
	}
	return report, err
}

// Determinant computes det(m) with the engine, recording a span and metrics.
func (s *EigenScanner) Determinant(ctx context.Context, m *linalg.IntMatrix) (det *big.Int, err error) {
	name := s.engine.Name()
	_, span := otel.Tracer("eigen").Start(ctx, "Determinant", trace.WithAttributes(
		attribute.String("engine", name),
	))
	defer span.End()
	defer func() {
		status := scanStatus(err)
		determinantsTotal.WithLabelValues(name, status).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.engine.Determinant(m)
}

// scanStatus maps an error to a metrics label.
func scanStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrInconsistentSingularity):
		return "inconsistent"
	default:
		return "error"
	}
}
