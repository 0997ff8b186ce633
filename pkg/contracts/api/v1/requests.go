// Package api contains the HTTP contract definitions of the statistics API.
// Version v1 represents the current stable API version.
package api

// BatchRequest appends values to a series, creating it on first use.
// The batch size ceiling is configurable and enforced by the handler.
type BatchRequest struct {
	Symbol string    `json:"symbol" validate:"required,symbol"`
	Values []float64 `json:"values" validate:"required"`
}

