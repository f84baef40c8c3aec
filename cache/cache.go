// Package cache materializes the distinct values of one column: normalized,
// deduplicated, type-detected and sorted with a type-aware comparator.
//
// A cache is either eager (built from a slice) or lazy (built from a host
// Provider on first access). The lazy path is the engine's only suspension
// point; re-entrant loads supersede the outstanding one through a
// single-slot cancellation handle.
package cache

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hupe1980/colfilter/resource"
	"github.com/hupe1980/colfilter/value"
)

// ErrSuperseded is returned by a load that was replaced by a newer one
// before it could commit its result.
var ErrSuperseded = errors.New("cache: load superseded by a newer load")

const (
	// DefaultSortLimit is the item count above which the full sort is
	// skipped and values stay in arrival order.
	DefaultSortLimit = 100_000

	// DefaultInsertSortLimit is the item count above which incremental adds
	// append instead of inserting at the sorted position.
	DefaultInsertSortLimit = 10_000
)

// Option configures a ValueCache.
type Option func(*ValueCache)

// WithSortLimit overrides the full-sort cutoff.
func WithSortLimit(n int) Option {
	return func(c *ValueCache) { c.sortLimit = n }
}

// WithInsertSortLimit overrides the sorted-insert cutoff.
func WithInsertSortLimit(n int) Option {
	return func(c *ValueCache) { c.insertSortLimit = n }
}

// WithResourceController routes provider fetches through a resource
// controller (fetch concurrency, row throttling).
func WithResourceController(rc *resource.Controller) Option {
	return func(c *ValueCache) { c.res = rc }
}

// ValueCache is the ordered, deduplicated set of distinct values observed
// in one column.
type ValueCache struct {
	mu sync.Mutex

	columnKey string
	provider  Provider
	res       *resource.Controller

	sortLimit       int
	insertSortLimit int

	loaded       bool
	values       []value.Value
	counts       map[string]int
	containsNull bool
	ct           value.ColumnType

	// Single-slot cancellation handle: each new load bumps the generation
	// and cancels the previous context, so at most one in-flight load can
	// commit.
	gen    uint64
	cancel context.CancelFunc
}

// New builds an eager cache from raw values.
func New(raws []any, opts ...Option) *ValueCache {
	c := newCache(opts...)
	c.install(raws)
	return c
}

// NewLazy builds a cache that pulls its values from the provider on first
// access.
func NewLazy(provider Provider, columnKey string, opts ...Option) *ValueCache {
	c := newCache(opts...)
	c.provider = provider
	c.columnKey = columnKey
	return c
}

func newCache(opts ...Option) *ValueCache {
	c := &ValueCache{
		sortLimit:       DefaultSortLimit,
		insertSortLimit: DefaultInsertSortLimit,
		counts:          make(map[string]int),
		ct:              value.TypeString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loaded reports whether the value set is materialized.
func (c *ValueCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Ensure loads the cache if it is not loaded yet.
func (c *ValueCache) Ensure(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// Load (re)loads the cache from its provider. A load started while another
// is outstanding supersedes it: the older load observes its own
// invalidation and returns ErrSuperseded without committing.
func (c *ValueCache) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.provider == nil {
		// Eager caches reload from what they already hold.
		c.loaded = true
		c.mu.Unlock()
		return nil
	}

	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	provider := c.provider
	columnKey := c.columnKey
	res := c.res
	c.mu.Unlock()

	defer cancel()

	if err := res.AcquireFetch(loadCtx); err != nil {
		return err
	}
	raws, err := provider.Fetch(loadCtx, Request{
		ColumnKey:     columnKey,
		IncludeNull:   true,
		IncludeEmpty:  true,
		SortAscending: true,
	})
	res.ReleaseFetch()
	if err != nil {
		return err
	}
	if err := res.WaitRows(loadCtx, len(raws)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrSuperseded
	}
	c.install(raws)
	return nil
}

// Refresh drops the materialized value set; the next access reloads it.
// Eager caches keep their values and only re-run detection and sorting.
func (c *ValueCache) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider == nil {
		c.redetectLocked()
		return
	}
	c.loaded = false
	c.values = nil
	c.counts = make(map[string]int)
	c.containsNull = false
}

// install normalizes, deduplicates, detects the column type and sorts.
// Caller must hold c.mu.
func (c *ValueCache) install(raws []any) {
	c.values = c.values[:0]
	c.counts = make(map[string]int, len(raws))
	c.containsNull = false

	for _, raw := range raws {
		v := value.Normalize(raw)
		key := v.Key()
		if v.IsNull() {
			c.containsNull = true
		}
		if _, seen := c.counts[key]; !seen {
			c.values = append(c.values, v)
		}
		c.counts[key]++
	}

	c.redetectLocked()
	c.loaded = true
}

// redetectLocked re-runs type detection over the full set, overriding any
// earlier guess from a partial sample, then re-sorts under the new type.
func (c *ValueCache) redetectLocked() {
	c.ct = value.DetectType(c.values)

	if len(c.values) <= c.sortLimit {
		ct := c.ct
		sort.SliceStable(c.values, func(i, j int) bool {
			return value.Compare(c.values[i], c.values[j], ct) < 0
		})
	}
}

// Add inserts a raw value. While the cache holds at most the sorted-insert
// limit it keeps the value list ordered via a linear scan; beyond that new
// values are appended.
func (c *ValueCache) Add(raw any) {
	v := value.Normalize(raw)
	key := v.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[key]++
	if c.counts[key] > 1 {
		return // already present, occurrence count bumped
	}
	if v.IsNull() {
		c.containsNull = true
	}

	if len(c.values) > c.insertSortLimit {
		c.values = append(c.values, v)
		return
	}

	pos := len(c.values)
	for i := range c.values {
		if value.Compare(v, c.values[i], c.ct) < 0 {
			pos = i
			break
		}
	}
	c.values = append(c.values, value.Value{})
	copy(c.values[pos+1:], c.values[pos:])
	c.values[pos] = v
}

// Remove deletes a value by normalized equality.
func (c *ValueCache) Remove(raw any) bool {
	v := value.Normalize(raw)
	key := v.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counts[key]; !ok {
		return false
	}
	delete(c.counts, key)
	for i := range c.values {
		if c.values[i].Key() == key {
			c.values = append(c.values[:i], c.values[i+1:]...)
			break
		}
	}
	if v.IsNull() {
		c.containsNull = false
	}
	return true
}

// Values returns a snapshot of the distinct values in cache order.
func (c *ValueCache) Values() []value.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]value.Value, len(c.values))
	copy(out, c.values)
	return out
}

// Len returns the number of distinct values.
func (c *ValueCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Count returns how many raw occurrences were folded into the given value.
func (c *ValueCache) Count(raw any) int {
	v := value.Normalize(raw)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[v.Key()]
}

// Type returns the detected column type.
func (c *ValueCache) Type() value.ColumnType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ct
}

// ContainsNull reports whether any null/blank input was observed.
func (c *ValueCache) ContainsNull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containsNull
}
