// Package http implements the HTTP handlers of the statistics service.
// Handlers stay thin: they parse and validate the request, delegate to a
// service and render the result. Every error goes through
// internal/errors.ErrorHandler, which produces RFC 7807 problem documents.
//
// # Routes
//
//	POST /add_batch                   append a batch to a series
//	GET  /stats?symbol=S&k=K          statistics of the last 10^k values
//	GET  /stats/{symbol}/scales       every scale with its availability
//	GET  /stats/{symbol}/export.csv   the scale table as CSV
//	GET  /stats/{symbol}/export.xlsx  the scale table as an Excel workbook
//	GET  /symbols                     known series and their lengths
//	GET  /health, /health/ready, /health/live, /version
//	GET  /metrics                     Prometheus exposition
//
// # Testing
//
// Handlers depend on small service interfaces so tests can substitute
// testify mocks, and are exercised through httptest.
package http
