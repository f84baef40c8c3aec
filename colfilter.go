package colfilter

import (
	"context"
	"sort"
	"sync"

	"github.com/hupe1980/colfilter/eval"
	"github.com/hupe1980/colfilter/index"
	"github.com/hupe1980/colfilter/optimize"
	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

// Accessor pulls the raw cell value of one column out of a host row.
type Accessor func(row any) any

// Column couples a registered column's accessor with its rule controller.
type Column struct {
	Key        string
	Accessor   Accessor
	Controller *rule.Controller
}

// Type returns the column's detected type.
func (c *Column) Type() value.ColumnType { return c.Controller.Type() }

// Engine is the column filtering engine: a registry of columns, each with
// its own rule controller, plus the machinery to compile rule trees into
// predicates and run them over host rows.
//
// Engine is safe for concurrent use; individual controllers are not, so
// mutate a column's rules from one goroutine at a time.
type Engine struct {
	mu      sync.RWMutex
	columns map[string]*Column
	order   []string
	opts    options
}

// New creates an engine with no registered columns.
func New(optFns ...Option) *Engine {
	return &Engine{
		columns: make(map[string]*Column),
		opts:    applyOptions(optFns),
	}
}

// AddColumn registers a column and returns its rule controller. The
// accessor is called once per row per filter pass.
func (e *Engine) AddColumn(key string, accessor Accessor, ct value.ColumnType, ctrlOpts ...rule.ControllerOption) (*rule.Controller, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.columns[key]; ok {
		return nil, columnErr(key, ErrColumnExists)
	}

	ctrl := rule.NewController(key, ct, ctrlOpts...)
	e.columns[key] = &Column{Key: key, Accessor: accessor, Controller: ctrl}
	e.order = append(e.order, key)
	return ctrl, nil
}

// RemoveColumn unregisters a column. Removing an unknown key is not an
// error.
func (e *Engine) RemoveColumn(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.columns[key]; !ok {
		return
	}
	delete(e.columns, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Column returns a registered column.
func (e *Engine) Column(key string) (*Column, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.columns[key]
	return c, ok
}

// Columns returns every registered column in registration order.
func (e *Engine) Columns() []*Column {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Column, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.columns[key])
	}
	return out
}

// CompilePredicate compiles a controller's rule tree into a stateless
// predicate using the engine's clock and logger.
func (e *Engine) CompilePredicate(ctrl *rule.Controller) eval.Predicate {
	return eval.Compile(ctrl, e.evalOptions()...)
}

// CompilePredicateWithContext compiles a predicate that consults the
// given collection context for statistical operators.
func (e *Engine) CompilePredicateWithContext(ctrl *rule.Controller, cctx *eval.Context) eval.Predicate {
	return eval.CompileWithContext(ctrl, cctx, e.evalOptions()...)
}

// CreateRowFilter builds a row-membership test for one column backed by
// its inverted index: the bitmap fast path when the rule tree compiles
// to set operations, per-row predicate evaluation otherwise.
func (e *Engine) CreateRowFilter(ctrl *rule.Controller, ix *index.Index) func(uint32) bool {
	return ix.CreateFilterFunc(ctrl, e.CompilePredicate(ctrl))
}

// EvaluateWithContext tests one value against a controller's rule tree
// with collection context available.
func (e *Engine) EvaluateWithContext(v value.Value, ctrl *rule.Controller, cctx *eval.Context) bool {
	return e.CompilePredicateWithContext(ctrl, cctx)(v)
}

// Optimize derives the smallest rule set reproducing exactly the
// selection out of the full value set.
func (e *Engine) Optimize(all, selected []value.Value, ct value.ColumnType) optimize.Result {
	return optimize.Optimize(all, selected, ct)
}

// ApplySelection optimizes a value selection against the controller's
// loaded cache and installs the resulting rules on the controller.
func (e *Engine) ApplySelection(ctx context.Context, ctrl *rule.Controller, selected []value.Value) (optimize.Result, error) {
	vc := ctrl.Cache()
	if vc == nil {
		return optimize.Result{}, columnErr(ctrl.ColumnKey(), ErrNoCache)
	}
	if err := vc.Ensure(ctx); err != nil {
		return optimize.Result{}, columnErr(ctrl.ColumnKey(), err)
	}

	res := optimize.Optimize(vc.Values(), selected, ctrl.Type())
	res.Apply(ctrl)

	e.opts.logger.LogOptimize(ctx, ctrl.ColumnKey(), res.Pattern.String(), len(res.Rules))
	return res, nil
}

func (e *Engine) evalOptions() []eval.Option {
	return []eval.Option{
		eval.WithNow(e.opts.now),
		eval.WithLogger(e.opts.logger.Logger),
	}
}

// sortedKeys returns the registered column keys sorted, for stable
// snapshot layouts. Caller holds e.mu.
func (e *Engine) sortedKeys() []string {
	keys := make([]string, 0, len(e.columns))
	for k := range e.columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
