package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Query outcomes recorded on tickstats_queries_total
const (
	OutcomeOK               = "ok"
	OutcomeNotFound         = "not_found"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeInvalid          = "invalid"
	OutcomeError            = "error"
)

// ServiceMetrics holds all application-specific metrics
type ServiceMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Series metrics
	BatchesTotal      metric.Int64Counter
	ObservationsTotal metric.Int64Counter
	BatchSize         metric.Int64Histogram
	AppendDuration    metric.Float64Histogram
	QueriesTotal      metric.Int64Counter
	ActiveSeries      metric.Int64UpDownCounter
	ExportsTotal      metric.Int64Counter
}

// CreateServiceMetrics creates the application metrics on meter
func CreateServiceMetrics(meter metric.Meter) (*ServiceMetrics, error) {
	m := &ServiceMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.BatchesTotal, err = meter.Int64Counter(
		"tickstats_batches_total",
		metric.WithDescription("Total number of appended batches"),
	); err != nil {
		return nil, err
	}

	if m.ObservationsTotal, err = meter.Int64Counter(
		"tickstats_observations_total",
		metric.WithDescription("Total number of appended observations"),
	); err != nil {
		return nil, err
	}

	if m.BatchSize, err = meter.Int64Histogram(
		"tickstats_batch_size",
		metric.WithDescription("Number of observations per appended batch"),
		metric.WithExplicitBucketBoundaries(1, 10, 100, 1_000, 10_000, 100_000),
	); err != nil {
		return nil, err
	}

	if m.AppendDuration, err = meter.Float64Histogram(
		"tickstats_append_duration_seconds",
		metric.WithDescription("Time to append a batch and recompute the aggregate table"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.QueriesTotal, err = meter.Int64Counter(
		"tickstats_queries_total",
		metric.WithDescription("Total number of stats queries by scale and outcome"),
	); err != nil {
		return nil, err
	}

	if m.ActiveSeries, err = meter.Int64UpDownCounter(
		"tickstats_active_series",
		metric.WithDescription("Number of series held in memory"),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"tickstats_exports_total",
		metric.WithDescription("Total number of series exports by format"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAppend records metrics for one appended batch
func RecordAppend(ctx context.Context, m *ServiceMetrics, size int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	m.BatchesTotal.Add(ctx, 1, attrs)
	m.AppendDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.ObservationsTotal.Add(ctx, int64(size))
		m.BatchSize.Record(ctx, int64(size))
	}
}

// RecordQuery records one stats query
func RecordQuery(ctx context.Context, m *ServiceMetrics, k int, outcome string) {
	if m == nil {
		return
	}
	m.QueriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("k", k),
		attribute.String("outcome", outcome),
	))
}

// RecordSeriesCreated increments the active series gauge
func RecordSeriesCreated(ctx context.Context, m *ServiceMetrics) {
	if m == nil {
		return
	}
	m.ActiveSeries.Add(ctx, 1)
}

// RecordExport records one export by format
func RecordExport(ctx context.Context, m *ServiceMetrics, format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}
