package testutil

// MixedPrices is an eleven-value series whose last ten values give
// min 1.1, max 12.4, last 1.1, avg 6.06 and var 15.1644.
var MixedPrices = []float64{1.1, 2.7, 3.2, 4.9, 5.2, 11.7, 1.8, 8.4, 9.2, 12.4, 1.1}

// RepeatingPattern is an eleven-value series whose last ten values give
// min 1, max 3, last 1, avg 1.9 and var 0.69.
var RepeatingPattern = []float64{2.4, 1.0, 2.0, 3.0, 1.0, 2.0, 3.0, 1.0, 2.0, 3.0, 1.0}

// Ramp returns 1, 2, ..., n
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}
