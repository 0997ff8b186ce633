package http

import (
	"context"

	"tickstats/internal/registry"
	"tickstats/internal/services"
	"tickstats/internal/stats"
)

// StatsServiceInterface defines the series operations the handlers need
type StatsServiceInterface interface {
	AddBatch(ctx context.Context, symbol string, values []float64) (int, error)
	Stats(ctx context.Context, symbol string, k int) (stats.Result, error)
	Overview(ctx context.Context, symbol string) (registry.Overview, error)
	Symbols(ctx context.Context) []registry.SymbolInfo
}

// ExportServiceInterface defines the export operations the handlers need
type ExportServiceInterface interface {
	Export(ctx context.Context, symbol, format string) (*services.Document, error)
}
