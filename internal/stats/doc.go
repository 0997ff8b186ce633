// Package stats implements the multi-resolution statistics engine behind tickstats.
//
// A Series keeps a bounded window of float64 observations and, after every
// appended batch, recomputes an eight-slot aggregate table in a single reverse
// pass over the window. Slot i holds min, max, sum and sum of squares of the
// most recent 10^(i+1) observations, so a query for any scale is answered in
// constant time without touching the window.
//
// # Components
//
//   - window.go: bounded FIFO of observations, evict-before-insert at capacity
//   - aggregate.go: per-scale aggregate table and the recompute pass
//   - scale.go: the eight supported trailing lengths (10^1 .. 10^8)
//   - series.go: append and query entry points for one series
//   - errors.go: insufficient data and invalid scale errors
//
// # Usage
//
//	s := stats.NewSeries(stats.MaxObservations)
//	s.AppendBatch([]float64{1.1, 2.7, 3.2})
//	res, err := s.Stats(stats.Scale(1))
//	if errors.Is(err, stats.ErrInsufficientData) {
//	    // fewer than 10 observations so far
//	}
//
// A Series is not safe for concurrent use. The registry package serializes
// access per series.
package stats
