package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a header row plus records
type Table struct {
	Headers []string
	Records [][]Cell
}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility
	BOMPrefix bool
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	opts CSVOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(opts CSVOptions) *CSVWriter {
	return &CSVWriter{opts: opts}
}

// ContentType is the media type of the documents this writer produces
func (w *CSVWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Write encodes table to out
func (w *CSVWriter) Write(out io.Writer, table Table) error {
	if w.opts.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(table.Headers) > 0 {
		if err := writer.Write(table.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	row := make([]string, 0, len(table.Headers))
	for i, record := range table.Records {
		row = row[:0]
		for _, cell := range record {
			row = append(row, cell.Text())
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
