// Package registry maps series names to their statistics engines and
// serializes access to each series.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tickstats/internal/stats"
)

var (
	// ErrSeriesNotFound is returned when a symbol has never received a batch.
	ErrSeriesNotFound = errors.New("no data found for symbol")
	// ErrTooManySeries is returned when creating a series would exceed MaxSeries.
	ErrTooManySeries = errors.New("series limit reached")
)

// Options configures a Registry.
type Options struct {
	// Capacity is the window capacity of every new series.
	Capacity int
	// MaxSeries caps the number of distinct series. Zero means unlimited.
	MaxSeries int
	// OnCreate, when set, is called once per new series after it is
	// registered. It runs under the registry lock and must not call back in.
	OnCreate func(symbol string)
}

// SymbolInfo summarizes one registered series.
type SymbolInfo struct {
	Symbol    string    `json:"symbol"`
	Length    int       `json:"length"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overview is the per-scale view of one series.
type Overview struct {
	Symbol    string               `json:"symbol"`
	Length    int                  `json:"length"`
	Capacity  int                  `json:"capacity"`
	UpdatedAt time.Time            `json:"updated_at"`
	Scales    []stats.ScaleSummary `json:"scales"`
}

type entry struct {
	mu        sync.RWMutex
	series    *stats.Series
	updatedAt time.Time
}

// Registry owns every series for the lifetime of the process.
// Appends to one series are serialized; reads share the series lock and
// always observe a fully recomputed table.
type Registry struct {
	mu        sync.RWMutex
	series    map[string]*entry
	capacity  int
	maxSeries int
	onCreate  func(symbol string)
	now       func() time.Time
}

// New creates an empty registry.
func New(opts Options) *Registry {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = stats.MaxObservations
	}
	return &Registry{
		series:    make(map[string]*entry),
		capacity:  capacity,
		maxSeries: opts.MaxSeries,
		onCreate:  opts.OnCreate,
		now:       time.Now,
	}
}

func notFound(symbol string) error {
	return fmt.Errorf("%w: '%s'", ErrSeriesNotFound, symbol)
}

func (r *Registry) lookup(symbol string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.series[symbol]
	return e, ok
}

func (r *Registry) upsert(symbol string) (*entry, error) {
	if e, ok := r.lookup(symbol); ok {
		return e, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.series[symbol]; ok {
		return e, nil
	}
	if r.maxSeries > 0 && len(r.series) >= r.maxSeries {
		return nil, fmt.Errorf("%w: %d series", ErrTooManySeries, r.maxSeries)
	}

	e := &entry{series: stats.NewSeries(r.capacity)}
	r.series[symbol] = e
	if r.onCreate != nil {
		r.onCreate(symbol)
	}
	return e, nil
}

// Append applies a batch to the named series, creating it on first use.
// It returns the window length after the append.
func (r *Registry) Append(ctx context.Context, symbol string, values []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	e, err := r.upsert(symbol)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.series.AppendBatch(values)
	e.updatedAt = r.now()
	return n, nil
}

// Stats answers a query for one scale of the named series.
func (r *Registry) Stats(ctx context.Context, symbol string, scale stats.Scale) (stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return stats.Result{}, err
	}

	e, ok := r.lookup(symbol)
	if !ok {
		return stats.Result{}, notFound(symbol)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.series.Stats(scale)
}

// Overview reports every scale of the named series.
func (r *Registry) Overview(ctx context.Context, symbol string) (Overview, error) {
	if err := ctx.Err(); err != nil {
		return Overview{}, err
	}

	e, ok := r.lookup(symbol)
	if !ok {
		return Overview{}, notFound(symbol)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return Overview{
		Symbol:    symbol,
		Length:    e.series.Len(),
		Capacity:  e.series.Cap(),
		UpdatedAt: e.updatedAt,
		Scales:    e.series.Overview(),
	}, nil
}

// Symbols lists every series sorted by name.
func (r *Registry) Symbols() []SymbolInfo {
	r.mu.RLock()
	names := make([]string, 0, len(r.series))
	entries := make(map[string]*entry, len(r.series))
	for name, e := range r.series {
		names = append(names, name)
		entries[name] = e
	}
	r.mu.RUnlock()

	sort.Strings(names)

	out := make([]SymbolInfo, 0, len(names))
	for _, name := range names {
		e := entries[name]
		e.mu.RLock()
		out = append(out, SymbolInfo{
			Symbol:    name,
			Length:    e.series.Len(),
			UpdatedAt: e.updatedAt,
		})
		e.mu.RUnlock()
	}
	return out
}

// Len returns the number of registered series.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.series)
}
