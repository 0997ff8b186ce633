package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tickstats/internal/exporter"
	"tickstats/internal/infrastructure"
	"tickstats/internal/registry"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// overviewHeaders is the column layout of an exported series overview
var overviewHeaders = []string{"k", "length", "available", "min", "max", "last", "avg", "var"}

// OverviewSource supplies series overviews
type OverviewSource interface {
	Overview(ctx context.Context, symbol string) (registry.Overview, error)
}

// Document is a rendered export ready to be streamed
type Document struct {
	ContentType string
	Filename    string
	write       func(w io.Writer) error
}

// NewDocument wraps a write function as a document
func NewDocument(contentType, filename string, write func(w io.Writer) error) *Document {
	return &Document{ContentType: contentType, Filename: filename, write: write}
}

// Render streams the document to w
func (d *Document) Render(w io.Writer) error {
	return d.write(w)
}

// ExportService renders series overviews as downloadable documents
type ExportService struct {
	source  OverviewSource
	tracer  trace.Tracer
	metrics *infrastructure.ServiceMetrics
	logger  *slog.Logger
}

// NewExportService creates an export service
func NewExportService(source OverviewSource, tracer trace.Tracer, metrics *infrastructure.ServiceMetrics, logger *slog.Logger) *ExportService {
	return &ExportService{
		source:  source,
		tracer:  tracer,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "export_service"),
	}
}

// Export snapshots the overview of symbol and prepares it in format.
// The snapshot is taken before anything is written, so lookup errors can
// still become proper error responses.
func (s *ExportService) Export(ctx context.Context, symbol, format string) (*Document, error) {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "stats.export", trace.WithAttributes(
			attribute.String("series.symbol", symbol),
			attribute.String("export.format", format),
		))
		defer span.End()
	}

	type tableWriter interface {
		Write(out io.Writer, table exporter.Table) error
		ContentType() string
	}

	var writer tableWriter
	switch format {
	case FormatCSV:
		writer = exporter.NewCSVWriter(exporter.CSVOptions{BOMPrefix: true})
	case FormatXLSX:
		writer = exporter.NewXLSXWriter(symbol)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	ov, err := s.source.Overview(ctx, symbol)
	if err != nil {
		return nil, err
	}

	table := OverviewTable(ov)
	infrastructure.RecordExport(ctx, s.metrics, format)
	s.logger.InfoContext(ctx, "series exported",
		slog.String("symbol", symbol),
		slog.String("format", format),
		slog.Int("length", ov.Length))

	filename := fmt.Sprintf("%s-stats.%s", symbol, format)
	return NewDocument(writer.ContentType(), filename, func(w io.Writer) error {
		return writer.Write(w, table)
	}), nil
}

// OverviewTable lays out an overview as one row per scale. Unavailable
// scales keep their statistic cells empty.
func OverviewTable(ov registry.Overview) exporter.Table {
	table := exporter.Table{
		Headers: overviewHeaders,
		Records: make([][]exporter.Cell, 0, len(ov.Scales)),
	}
	for _, sc := range ov.Scales {
		row := []exporter.Cell{
			exporter.Int(int(sc.Scale)),
			exporter.Int(sc.Length),
			exporter.Bool(sc.Available),
		}
		if r := sc.Result; r != nil {
			row = append(row,
				exporter.Float(r.Min),
				exporter.Float(r.Max),
				exporter.Float(r.Last),
				exporter.Float(r.Avg),
				exporter.Float(r.Var),
			)
		} else {
			row = append(row, exporter.Empty(), exporter.Empty(), exporter.Empty(), exporter.Empty(), exporter.Empty())
		}
		table.Records = append(table.Records, row)
	}
	return table
}
