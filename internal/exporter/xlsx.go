package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet names the worksheet when none is given
const DefaultSheet = "Sheet1"

// maxSheetName is Excel's limit on worksheet names
const maxSheetName = 31

// XLSXWriter renders tables as Excel workbooks
type XLSXWriter struct {
	sheet string
}

// NewXLSXWriter creates a writer that places the table on the named sheet
func NewXLSXWriter(sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	return &XLSXWriter{sheet: sheet}
}

// ContentType is the media type of the documents this writer produces
func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write encodes table as a workbook to out
func (w *XLSXWriter) Write(out io.Writer, table Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, w.sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if len(table.Headers) > 0 {
		header := make([]interface{}, len(table.Headers))
		for i, h := range table.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}

		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(w.sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("failed to style headers: %w", err)
		}
	}

	for i, record := range table.Records {
		row := make([]interface{}, len(record))
		for j, cell := range record {
			row[j] = cell.Value
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(w.sheet, start, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
