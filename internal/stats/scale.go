package stats

import "fmt"

// NumScales is the number of trailing-window lengths tracked per series.
const NumScales = 8

// Scale selects a trailing window of 10^k observations, k in 1..8.
type Scale int

const (
	// MinScale is the smallest scale (10 observations)
	MinScale Scale = 1
	// MaxScale is the largest scale (100,000,000 observations)
	MaxScale Scale = NumScales
)

var scaleLengths = [NumScales]int{
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
}

// ParseScale converts a raw k into a Scale.
func ParseScale(k int) (Scale, error) {
	s := Scale(k)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: k must be between %d and %d, got %d", ErrInvalidScale, MinScale, MaxScale, k)
	}
	return s, nil
}

// Scales returns every supported scale in ascending order.
func Scales() []Scale {
	out := make([]Scale, 0, NumScales)
	for s := MinScale; s <= MaxScale; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether the scale is within 1..8.
func (s Scale) Valid() bool {
	return s >= MinScale && s <= MaxScale
}

// Index returns the aggregate table slot for the scale.
func (s Scale) Index() int {
	return int(s) - 1
}

// Len returns the number of observations covered by the scale.
func (s Scale) Len() int {
	if !s.Valid() {
		return 0
	}
	return scaleLengths[s.Index()]
}

// String returns the string representation of the scale
func (s Scale) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return fmt.Sprintf("1e%d", int(s))
}
