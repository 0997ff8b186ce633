package api

import (
	"encoding/json"
	"math"
	"time"
)

// BatchAddedMessage is the fixed acknowledgement text of POST /add_batch
const BatchAddedMessage = "batch is added successfully"

// Float is a float64 that encodes NaN and ±Inf as JSON null.
// Aggregates of extreme inputs can overflow, and encoding/json rejects
// non-finite numbers outright.
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// BatchResponse acknowledges an appended batch
type BatchResponse struct {
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
	Count   int    `json:"count"`
	Length  int    `json:"length"`
}

// StatsResponse is the statistics of one scale
type StatsResponse struct {
	Min  Float `json:"min"`
	Max  Float `json:"max"`
	Last Float `json:"last"`
	Avg  Float `json:"avg"`
	Var  Float `json:"var"`
}

// ScaleResponse is one row of a series overview
type ScaleResponse struct {
	K         int            `json:"k"`
	Length    int            `json:"length"`
	Available bool           `json:"available"`
	Stats     *StatsResponse `json:"stats,omitempty"`
}

// OverviewResponse reports every scale of a series
type OverviewResponse struct {
	Symbol    string          `json:"symbol"`
	Length    int             `json:"length"`
	Capacity  int             `json:"capacity"`
	UpdatedAt time.Time       `json:"updated_at"`
	Scales    []ScaleResponse `json:"scales"`
}

// SymbolResponse summarises one series
type SymbolResponse struct {
	Symbol    string    `json:"symbol"`
	Length    int       `json:"length"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SymbolsResponse lists known series
type SymbolsResponse struct {
	Symbols []SymbolResponse `json:"symbols"`
	Count   int              `json:"count"`
}
