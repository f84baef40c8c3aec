package colfilter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colfilter/eval"
	"github.com/hupe1980/colfilter/value"
)

// columnPass is one column's share of a filter pass: the rows' converted
// values and the compiled predicate.
type columnPass struct {
	values []value.Value
	pred   eval.Predicate
}

// FilterRows evaluates every active column against the rows and returns
// the indices of rows accepted by all of them, in input order.
//
// Collection context (means, frequencies, top-N cutoffs) is computed once
// per column per pass, so statistical operators see a stable aggregate
// even while rows are tested concurrently.
func (e *Engine) FilterRows(ctx context.Context, rows []any) ([]int, error) {
	e.mu.RLock()
	cols := make([]*Column, 0, len(e.order))
	for _, key := range e.order {
		if c := e.columns[key]; c.Controller.Active() {
			cols = append(cols, c)
		}
	}
	e.mu.RUnlock()

	if len(cols) == 0 {
		all := make([]int, len(rows))
		for i := range rows {
			all[i] = i
		}
		return all, nil
	}

	for _, c := range cols {
		if err := c.Controller.Validate(); err != nil {
			e.opts.logger.LogFilter(ctx, len(rows), 0, err)
			return nil, columnErr(c.Key, err)
		}
	}

	if e.opts.res != nil {
		if err := e.opts.res.WaitRows(ctx, len(rows)*len(cols)); err != nil {
			return nil, err
		}
	}

	passes := e.prepare(cols, rows)

	keep := make([]bool, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.maxParallelism)

	const chunkSize = 1024
	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				keep[i] = accepted(passes, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.opts.logger.LogFilter(ctx, len(rows), 0, err)
		return nil, err
	}

	out := make([]int, 0, len(rows))
	for i, ok := range keep {
		if ok {
			out = append(out, i)
		}
	}
	e.opts.logger.LogFilter(ctx, len(rows), len(out), nil)
	return out, nil
}

// prepare converts each column's cells and compiles its predicate with a
// context built from this pass's values.
func (e *Engine) prepare(cols []*Column, rows []any) []columnPass {
	passes := make([]columnPass, len(cols))
	for ci, c := range cols {
		ct := c.Controller.Type()
		vals := make([]value.Value, len(rows))
		for ri, row := range rows {
			vals[ri] = value.Convert(c.Accessor(row), ct)
		}
		passes[ci] = columnPass{
			values: vals,
			pred:   e.CompilePredicateWithContext(c.Controller, eval.NewContext(vals)),
		}
	}
	return passes
}

func accepted(passes []columnPass, row int) bool {
	for _, p := range passes {
		if !p.pred(p.values[row]) {
			return false
		}
	}
	return true
}
