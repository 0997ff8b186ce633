package services

import "errors"

// Service errors
var (
	// ErrUnsupportedFormat is returned for an export format with no writer
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
