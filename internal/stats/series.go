package stats

import "math"

// Result is the outcome of a stats query for one scale.
// Avg and Var are rounded to four decimals; Min, Max and Last are exact.
type Result struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Last float64 `json:"last"`
	Avg  float64 `json:"avg"`
	Var  float64 `json:"var"`
}

// ScaleSummary describes one scale of a series overview.
type ScaleSummary struct {
	Scale     Scale   `json:"k"`
	Length    int     `json:"length"`
	Available bool    `json:"available"`
	Result    *Result `json:"result,omitempty"`
}

// Series is the state of one named stream: its window and aggregate table.
type Series struct {
	window *Window
	table  Table
}

// NewSeries creates an empty series with the given window capacity.
func NewSeries(capacity int) *Series {
	return &Series{window: NewWindow(capacity)}
}

// AppendBatch appends values and recomputes the aggregate table.
// It returns the window length after the append.
func (s *Series) AppendBatch(values []float64) int {
	if len(values) == 0 {
		return s.window.Len()
	}
	s.window.AppendBatch(values)
	s.table.Recompute(s.window)
	return s.window.Len()
}

// Len returns the number of observations currently in the window.
func (s *Series) Len() int {
	return s.window.Len()
}

// Cap returns the window capacity.
func (s *Series) Cap() int {
	return s.window.Cap()
}

// Last returns the most recent observation.
func (s *Series) Last() (float64, bool) {
	return s.window.Last()
}

// Stats returns the statistics of the most recent scale.Len() observations.
func (s *Series) Stats(scale Scale) (Result, error) {
	if !scale.Valid() {
		_, err := ParseScale(int(scale))
		return Result{}, err
	}

	need := scale.Len()
	have := s.window.Len()
	if have < need {
		return Result{}, &InsufficientDataError{Required: need, Available: have}
	}

	agg := s.table.At(scale)
	last, _ := s.window.Last()
	n := float64(need)
	avg := agg.Sum / n
	// E[X²]−E[X]² can cancel below zero on flat, large-magnitude windows.
	// math.Max keeps NaN.
	variance := math.Max(0, agg.SumSq/n-avg*avg)

	return Result{
		Min:  agg.Min,
		Max:  agg.Max,
		Last: last,
		Avg:  round4(avg),
		Var:  round4(variance),
	}, nil
}

// Overview reports every scale with its availability and, when available,
// its statistics.
func (s *Series) Overview() []ScaleSummary {
	out := make([]ScaleSummary, 0, NumScales)
	for _, sc := range Scales() {
		sum := ScaleSummary{Scale: sc, Length: sc.Len()}
		if res, err := s.Stats(sc); err == nil {
			r := res
			sum.Available = true
			sum.Result = &r
		}
		out = append(out, sum)
	}
	return out
}
