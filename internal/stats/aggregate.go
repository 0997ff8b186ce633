package stats

import "math"

// Aggregate holds running statistics over the most recent observations of one scale.
type Aggregate struct {
	Min   float64
	Max   float64
	Sum   float64
	SumSq float64
}

func newAccumulator() Aggregate {
	return Aggregate{
		Min: math.MaxFloat64,
		Max: math.Inf(-1),
	}
}

func (a *Aggregate) fold(v float64) {
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
	a.Sum += v
	a.SumSq += v * v
}

// Table is the per-scale aggregate table. Slot i covers 10^(i+1) observations.
type Table [NumScales]Aggregate

// Recompute rebuilds the table from w in one pass, most recent first.
// Rank r (0-based from the tail) lands in slot floor(log10(r)), rank 0 in slot 0,
// and the accumulators carry across slots, so each slot ends with the cumulative
// aggregate of its trailing length. Slots beyond the window length keep
// whatever they held before and must be gated by the caller.
func (t *Table) Recompute(w *Window) {
	n := w.Len()
	acc := newAccumulator()
	slot, boundary := 0, 10
	for r := 0; r < n; r++ {
		if r == boundary && slot < NumScales-1 {
			slot++
			boundary *= 10
		}
		acc.fold(w.At(n - 1 - r))
		t[slot] = acc
	}
}

// At returns the aggregate for a scale.
func (t *Table) At(s Scale) Aggregate {
	return t[s.Index()]
}

// round4 rounds half away from zero to four decimals.
func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
