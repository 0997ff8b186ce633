package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when the window is shorter than the requested scale.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidScale is returned for k outside 1..8.
	ErrInvalidScale = errors.New("invalid scale")
)

// InsufficientDataError carries the shortfall for a stats query.
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("data points to be analyzed is less than: %d", e.Required)
}

// Unwrap allows errors.Is(err, ErrInsufficientData).
func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
