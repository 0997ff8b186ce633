// Package exporter renders tabular documents for download.
//
// A Table is a header row plus string or numeric records. CSVWriter encodes
// it with encoding/csv, optionally behind a UTF-8 BOM so spreadsheet tools
// detect the encoding. XLSXWriter produces an Excel workbook with a bold
// header row using excelize.
//
// Example usage:
//
//	table := exporter.Table{
//	    Headers: []string{"k", "length", "min"},
//	    Records: [][]exporter.Cell{{exporter.Int(1), exporter.Int(10), exporter.Float(1.1)}},
//	}
//	err := exporter.NewCSVWriter(exporter.CSVOptions{BOMPrefix: true}).Write(w, table)
package exporter
