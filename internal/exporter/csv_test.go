package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Headers: []string{"k", "length", "available", "min", "avg"},
		Records: [][]Cell{
			{Int(1), Int(10), Bool(true), Float(1.1), Float(6.1)},
			{Int(2), Int(100), Bool(false), Empty(), Empty()},
		},
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(CSVOptions{}).Write(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"k", "length", "available", "min", "avg"},
		{"1", "10", "true", "1.1", "6.1"},
		{"2", "100", "false", "", ""},
	}, records)
}

func TestCSVWriterBOM(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(CSVOptions{BOMPrefix: true})
	require.NoError(t, w.Write(&buf, Table{Headers: []string{"k"}}))

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, buf.Bytes()[:3])
	assert.Equal(t, "k\n", buf.String()[3:])
	assert.Equal(t, "text/csv; charset=utf-8", w.ContentType())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriterPropagatesErrors(t *testing.T) {
	err := NewCSVWriter(CSVOptions{BOMPrefix: true}).Write(failingWriter{}, sampleTable())
	assert.ErrorContains(t, err, "disk full")

	err = NewCSVWriter(CSVOptions{}).Write(failingWriter{}, sampleTable())
	assert.ErrorContains(t, err, "disk full")
}

func TestCellText(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{name: "zero", cell: Float(0), want: "0"},
		{name: "integer valued float", cell: Float(123), want: "123"},
		{name: "fraction", cell: Float(-789.123), want: "-789.123"},
		{name: "tiny", cell: Float(0.0001), want: "0.0001"},
		{name: "nan", cell: Float(math.NaN()), want: ""},
		{name: "inf", cell: Float(math.Inf(1)), want: ""},
		{name: "int", cell: Int(42), want: "42"},
		{name: "bool", cell: Bool(true), want: "true"},
		{name: "string", cell: String("AAPL"), want: "AAPL"},
		{name: "empty", cell: Empty(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Text())
		})
	}
}
