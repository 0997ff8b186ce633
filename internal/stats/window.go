package stats

import "github.com/gammazero/deque"

// MaxObservations is the per-series window capacity used in production.
const MaxObservations = 100_000_000

// Window is a bounded, insertion-ordered sequence of observations.
// When full, each appended value evicts exactly one oldest value first.
type Window struct {
	buf      deque.Deque[float64]
	capacity int
}

// NewWindow creates a window holding at most capacity observations.
// Capacities outside 1..MaxObservations fall back to MaxObservations.
func NewWindow(capacity int) *Window {
	if capacity <= 0 || capacity > MaxObservations {
		capacity = MaxObservations
	}
	return &Window{capacity: capacity}
}

// AppendBatch appends values in order, evicting the oldest value before
// each insert that would exceed capacity.
func (w *Window) AppendBatch(values []float64) {
	for _, v := range values {
		if w.buf.Len() >= w.capacity {
			w.buf.PopFront()
		}
		w.buf.PushBack(v)
	}
}

// Len returns the number of observations held.
func (w *Window) Len() int {
	return w.buf.Len()
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return w.capacity
}

// Last returns the most recent observation.
func (w *Window) Last() (float64, bool) {
	if w.buf.Len() == 0 {
		return 0, false
	}
	return w.buf.Back(), true
}

// At returns the observation at position i, oldest first.
func (w *Window) At(i int) float64 {
	return w.buf.At(i)
}

// Values returns a copy of the window contents, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.buf.Len())
	for i := range out {
		out[i] = w.buf.At(i)
	}
	return out
}
