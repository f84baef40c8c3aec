// Package index maintains a per-column inverted row index backed by
// Roaring Bitmaps. It maps each distinct column value to the set of row
// IDs carrying it, which turns membership-style rules into bitmap
// operations instead of row scans.
package index

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

// Index is an inverted index over one column.
//
// Structure:
//   - Primary storage: map[uint32]value.Value (value by row ID)
//   - Inverted index: map[valueKey]*roaring.Bitmap (posting lists)
type Index struct {
	mu sync.RWMutex

	rows     map[uint32]value.Value
	inverted map[string]*roaring.Bitmap
}

// New creates an empty column index.
func New() *Index {
	return &Index{
		rows:     make(map[uint32]value.Value),
		inverted: make(map[string]*roaring.Bitmap),
	}
}

// Add records the value of a row, replacing any previous value for the
// same row ID.
func (ix *Index) Add(rowID uint32, v value.Value) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.rows[rowID]; ok {
		ix.removeLocked(rowID, old)
	}
	ix.rows[rowID] = v

	key := v.Key()
	bm, ok := ix.inverted[key]
	if !ok {
		bm = roaring.New()
		ix.inverted[key] = bm
	}
	bm.Add(rowID)
}

// Remove drops a row from the index.
func (ix *Index) Remove(rowID uint32) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if v, ok := ix.rows[rowID]; ok {
		ix.removeLocked(rowID, v)
	}
	delete(ix.rows, rowID)
}

// Get returns the indexed value of a row.
func (ix *Index) Get(rowID uint32) (value.Value, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	v, ok := ix.rows[rowID]
	return v, ok
}

// Len returns the number of indexed rows.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.rows)
}

// removeLocked unlinks a row from its posting list. Caller holds ix.mu.
func (ix *Index) removeLocked(rowID uint32, v value.Value) {
	key := v.Key()
	bm, ok := ix.inverted[key]
	if !ok {
		return
	}
	bm.Remove(rowID)
	if bm.IsEmpty() {
		delete(ix.inverted, key)
	}
}

// BitmapFor returns a copy of the posting list for one value, or an empty
// bitmap when the value is absent.
func (ix *Index) BitmapFor(v value.Value) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.bitmapLocked(v).Clone()
}

// UnionFor returns the union of the posting lists of several values.
func (ix *Index) UnionFor(values []value.Value) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.unionLocked(values)
}

// Frequency returns the number of rows carrying a value.
func (ix *Index) Frequency(v value.Value) uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.bitmapLocked(v).GetCardinality()
}

func (ix *Index) bitmapLocked(v value.Value) *roaring.Bitmap {
	if bm, ok := ix.inverted[v.Key()]; ok {
		return bm
	}
	return roaring.New()
}

func (ix *Index) unionLocked(values []value.Value) *roaring.Bitmap {
	out := roaring.New()
	for _, v := range values {
		if bm, ok := ix.inverted[v.Key()]; ok {
			out.Or(bm)
		}
	}
	return out
}

func (ix *Index) universeLocked() *roaring.Bitmap {
	out := roaring.New()
	for _, bm := range ix.inverted {
		out.Or(bm)
	}
	return out
}

// CompileFilter compiles a controller's rule tree into a bitmap of
// matching row IDs. It returns nil when any template uses an operator
// that is not bitmap-compilable; the caller falls back to scanning with
// a compiled predicate. An inactive controller matches every row.
//
// Compilable operators: Equals, NotEquals, IsAnyOf, IsNoneOf, IsNull,
// IsNotNull. Templates fold left to right by their connectors, the same
// way the predicate evaluator combines them.
func (ix *Index) CompileFilter(ctrl *rule.Controller) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ctrl == nil || !ctrl.Active() {
		return ix.universeLocked()
	}

	var result *roaring.Bitmap
	for gi, g := range ctrl.Groups() {
		gbm := ix.compileGroupLocked(g)
		if gbm == nil {
			return nil
		}
		if gi == 0 {
			result = gbm
			continue
		}
		result = ix.foldLocked(result, gbm, g.Connector)
	}
	return result
}

func (ix *Index) compileGroupLocked(g *rule.Group) *roaring.Bitmap {
	var result *roaring.Bitmap
	for _, t := range g.Templates {
		if !t.Valid() {
			continue
		}
		tbm := ix.compileTemplateLocked(t)
		if tbm == nil {
			return nil
		}
		if result == nil {
			result = tbm
			continue
		}
		result = ix.foldLocked(result, tbm, t.Connector)
	}
	if result == nil {
		result = ix.universeLocked()
	}
	return result
}

func (ix *Index) foldLocked(acc, next *roaring.Bitmap, conn rule.Connector) *roaring.Bitmap {
	if conn == rule.ConnectorOr {
		return roaring.Or(acc, next)
	}
	return roaring.And(acc, next)
}

func (ix *Index) compileTemplateLocked(t *rule.Template) *roaring.Bitmap {
	c := t.Condition
	switch c.Operator {
	case rule.OpEquals:
		return ix.bitmapLocked(c.Primary).Clone()
	case rule.OpNotEquals:
		return roaring.AndNot(ix.nonNullLocked(), ix.bitmapLocked(c.Primary))
	case rule.OpIsAnyOf:
		return ix.unionLocked(t.SelectedValues)
	case rule.OpIsNoneOf:
		return roaring.AndNot(ix.nonNullLocked(), ix.unionLocked(t.SelectedValues))
	case rule.OpIsNull:
		return ix.bitmapLocked(value.Null()).Clone()
	case rule.OpIsNotNull:
		return ix.nonNullLocked()
	default:
		return nil
	}
}

// nonNullLocked returns every row whose value is not the null sentinel.
func (ix *Index) nonNullLocked() *roaring.Bitmap {
	return roaring.AndNot(ix.universeLocked(), ix.bitmapLocked(value.Null()))
}

// ScanFilter evaluates a predicate against every indexed row. Slower than
// CompileFilter but supports all operators.
func (ix *Index) ScanFilter(match func(value.Value) bool) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := roaring.New()
	for id, v := range ix.rows {
		if match(v) {
			out.Add(id)
		}
	}
	return out
}

// CreateFilterFunc builds a row membership test for a controller: the
// bitmap fast path when the tree compiles, otherwise per-row predicate
// evaluation.
func (ix *Index) CreateFilterFunc(ctrl *rule.Controller, match func(value.Value) bool) func(uint32) bool {
	if bm := ix.CompileFilter(ctrl); bm != nil {
		return bm.Contains
	}
	return func(rowID uint32) bool {
		v, ok := ix.Get(rowID)
		if !ok {
			return false
		}
		return match(v)
	}
}

// Stats describes the size and shape of the index.
type Stats struct {
	RowCount         int
	DistinctValues   int
	TotalCardinality uint64
	MemoryBytes      uint64
}

// GetStats returns statistics about the index.
func (ix *Index) GetStats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := Stats{
		RowCount:       len(ix.rows),
		DistinctValues: len(ix.inverted),
	}
	for _, bm := range ix.inverted {
		stats.TotalCardinality += bm.GetCardinality()
		stats.MemoryBytes += bm.GetSizeInBytes()
	}
	return stats
}
