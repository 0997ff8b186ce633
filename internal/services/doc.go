// Package services implements the business logic layer between the HTTP
// handlers and the series registry.
//
// # Available Services
//
//	- StatsService: appends batches and answers statistics queries
//	- ExportService: renders a series overview as CSV or XLSX
//	- HealthService: health, readiness, liveness and version reports
//
// # Error Handling
//
// Services return the domain errors of the registry and stats packages
// unchanged, wrapped with context where useful. Handlers map them to
// RFC 7807 responses through internal/errors.
//
// # Observability
//
// Every operation logs through an injected *slog.Logger, opens a span on the
// injected tracer and records OpenTelemetry instruments from
// infrastructure.ServiceMetrics. A nil metrics value disables recording.
package services
