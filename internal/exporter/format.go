package exporter

import (
	"math"
	"strconv"
)

// Cell is one value of a table record. A nil Value renders as an empty cell.
type Cell struct {
	Value interface{}
}

// Float wraps a float64. Non-finite values render as empty cells.
func Float(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{Value: f}
}

// Int wraps an int
func Int(i int) Cell {
	return Cell{Value: i}
}

// Bool wraps a bool
func Bool(b bool) Cell {
	return Cell{Value: b}
}

// String wraps a string
func String(s string) Cell {
	return Cell{Value: s}
}

// Empty is a blank cell
func Empty() Cell {
	return Cell{}
}

// Text returns the CSV form of the cell
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return formatBool(v)
	case string:
		return v
	default:
		return ""
	}
}

// formatFloat renders the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
