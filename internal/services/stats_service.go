package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"tickstats/internal/infrastructure"
	"tickstats/internal/registry"
	"tickstats/internal/stats"
)

// StatsService appends observations and answers statistics queries
type StatsService struct {
	registry *registry.Registry
	tracer   trace.Tracer
	metrics  *infrastructure.ServiceMetrics
	logger   *slog.Logger
}

// NewStatsService creates a stats service over reg. A nil tracer falls back
// to a no-op tracer and nil metrics disable recording.
func NewStatsService(reg *registry.Registry, tracer trace.Tracer, metrics *infrastructure.ServiceMetrics, logger *slog.Logger) *StatsService {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	return &StatsService{
		registry: reg,
		tracer:   tracer,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "stats_service"),
	}
}

// AddBatch appends values to symbol, creating the series on first use.
// It returns the window length after the append.
func (s *StatsService) AddBatch(ctx context.Context, symbol string, values []float64) (int, error) {
	ctx, span := s.tracer.Start(ctx, "stats.add_batch", trace.WithAttributes(
		attribute.String("series.symbol", symbol),
		attribute.Int("batch.size", len(values)),
	))
	defer span.End()

	start := time.Now()
	length, err := s.registry.Append(ctx, symbol, values)
	duration := time.Since(start)

	infrastructure.RecordAppend(ctx, s.metrics, len(values), duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "batch rejected",
			slog.String("symbol", symbol),
			slog.Int("batch_size", len(values)),
			slog.String("error", err.Error()))
		return 0, err
	}

	span.SetAttributes(attribute.Int("series.length", length))
	s.logger.DebugContext(ctx, "batch appended",
		slog.String("symbol", symbol),
		slog.Int("batch_size", len(values)),
		slog.Int("length", length),
		slog.Duration("duration", duration))

	return length, nil
}

// Stats returns the statistics of the trailing 10^k observations of symbol
func (s *StatsService) Stats(ctx context.Context, symbol string, k int) (stats.Result, error) {
	ctx, span := s.tracer.Start(ctx, "stats.query", trace.WithAttributes(
		attribute.String("series.symbol", symbol),
		attribute.Int("stats.k", k),
	))
	defer span.End()

	scale, err := stats.ParseScale(k)
	if err != nil {
		infrastructure.RecordQuery(ctx, s.metrics, k, infrastructure.OutcomeInvalid)
		span.SetStatus(codes.Error, err.Error())
		return stats.Result{}, err
	}

	res, err := s.registry.Stats(ctx, symbol, scale)
	infrastructure.RecordQuery(ctx, s.metrics, k, queryOutcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stats.Result{}, err
	}

	return res, nil
}

// Overview reports every scale of symbol
func (s *StatsService) Overview(ctx context.Context, symbol string) (registry.Overview, error) {
	ctx, span := s.tracer.Start(ctx, "stats.overview", trace.WithAttributes(
		attribute.String("series.symbol", symbol),
	))
	defer span.End()

	ov, err := s.registry.Overview(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return registry.Overview{}, err
	}
	span.SetAttributes(attribute.Int("series.length", ov.Length))
	return ov, nil
}

// Symbols lists every known series sorted by name
func (s *StatsService) Symbols(ctx context.Context) []registry.SymbolInfo {
	_, span := s.tracer.Start(ctx, "stats.symbols")
	defer span.End()

	symbols := s.registry.Symbols()
	span.SetAttributes(attribute.Int("series.count", len(symbols)))
	return symbols
}

func queryOutcome(err error) string {
	switch {
	case err == nil:
		return infrastructure.OutcomeOK
	case errors.Is(err, registry.ErrSeriesNotFound):
		return infrastructure.OutcomeNotFound
	case errors.Is(err, stats.ErrInsufficientData):
		return infrastructure.OutcomeInsufficientData
	case errors.Is(err, stats.ErrInvalidScale):
		return infrastructure.OutcomeInvalid
	default:
		return infrastructure.OutcomeError
	}
}
