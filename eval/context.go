package eval

import (
	"sort"
	"strings"

	"github.com/hupe1980/colfilter/cache"
	"github.com/hupe1980/colfilter/value"
)

// Context carries the whole-column statistics the statistical operators
// need: mean, per-value frequency and rank cutoffs.
//
// Build it exactly once per filter pass and share it across rows;
// recomputing the aggregate per row is a defect, not just slow.
type Context struct {
	mean     float64
	hasMean  bool
	freq     map[string]uint64
	sortDesc []float64
}

// NewContext computes collection statistics from a full pass over the
// column's row values.
func NewContext(values []value.Value) *Context {
	c := &Context{freq: make(map[string]uint64, len(values))}

	var sum float64
	var n int
	for _, v := range values {
		c.freq[foldKey(v)]++
		if f, ok := v.AsNumber(); ok {
			sum += f
			n++
			c.sortDesc = append(c.sortDesc, f)
		}
	}
	if n > 0 {
		c.mean = sum / float64(n)
		c.hasMean = true
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(c.sortDesc)))
	return c
}

// NewContextFromCache computes collection statistics from a loaded value
// cache, weighting each distinct value by its observed occurrence count.
func NewContextFromCache(vc *cache.ValueCache) *Context {
	c := &Context{freq: make(map[string]uint64)}

	var sum float64
	var n int
	for _, v := range vc.Values() {
		count := vc.Count(v)
		if count <= 0 {
			count = 1
		}
		c.freq[foldKey(v)] += uint64(count)
		if f, ok := v.AsNumber(); ok {
			sum += f * float64(count)
			n += count
			for i := 0; i < count; i++ {
				c.sortDesc = append(c.sortDesc, f)
			}
		}
	}
	if n > 0 {
		c.mean = sum / float64(n)
		c.hasMean = true
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(c.sortDesc)))
	return c
}

// Mean returns the numeric mean of the column, if any numeric values exist.
func (c *Context) Mean() (float64, bool) {
	if c == nil {
		return 0, false
	}
	return c.mean, c.hasMean
}

// Frequency returns how many rows hold the given value.
func (c *Context) Frequency(v value.Value) uint64 {
	if c == nil {
		return 0
	}
	return c.freq[foldKey(v)]
}

// TopCutoff returns the smallest value still inside the top n rows.
func (c *Context) TopCutoff(n int) (float64, bool) {
	if c == nil || n <= 0 || len(c.sortDesc) == 0 {
		return 0, false
	}
	if n > len(c.sortDesc) {
		n = len(c.sortDesc)
	}
	return c.sortDesc[n-1], true
}

// BottomCutoff returns the largest value still inside the bottom n rows.
func (c *Context) BottomCutoff(n int) (float64, bool) {
	if c == nil || n <= 0 || len(c.sortDesc) == 0 {
		return 0, false
	}
	if n > len(c.sortDesc) {
		n = len(c.sortDesc)
	}
	return c.sortDesc[len(c.sortDesc)-n], true
}

// foldKey is Value.Key with case folded for strings, matching the
// case-insensitive equality used everywhere else.
func foldKey(v value.Value) string {
	switch v.Kind {
	case value.KindString, value.KindEnum:
		return strings.ToLower(v.Key())
	default:
		return v.Key()
	}
}
