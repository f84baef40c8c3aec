package colfilter

import (
	"context"

	"github.com/hupe1980/colfilter/blobstore"
	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/snapshot"
)

// engineState is the persisted form of every controller's rule tree.
//
// NOTE: This is a persistence format; keep it stable.
type engineState struct {
	Columns []rule.ControllerState `json:"columns"`
}

// SaveSnapshot persists the rule state of every registered column to
// the store under the given name.
func (e *Engine) SaveSnapshot(ctx context.Context, store blobstore.Store, name string) error {
	e.mu.RLock()
	st := engineState{Columns: make([]rule.ControllerState, 0, len(e.columns))}
	for _, key := range e.sortedKeys() {
		st.Columns = append(st.Columns, e.columns[key].Controller.State())
	}
	e.mu.RUnlock()

	err := snapshot.Save(ctx, store, name, st,
		snapshot.WithCodec(e.opts.codec),
		snapshot.WithCompression(e.opts.compression),
	)
	e.opts.logger.LogSnapshot(ctx, name, len(st.Columns), err)
	return err
}

// LoadSnapshot restores rule state from a snapshot. Columns present in
// the snapshot but not registered are skipped with a warning; registered
// columns missing from the snapshot keep their current rules.
func (e *Engine) LoadSnapshot(ctx context.Context, store blobstore.Store, name string) error {
	var st engineState
	if err := snapshot.Load(ctx, store, name, &st); err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, cs := range st.Columns {
		col, ok := e.columns[cs.ColumnKey]
		if !ok {
			e.opts.logger.WarnContext(ctx, "snapshot column not registered",
				"column", cs.ColumnKey,
			)
			continue
		}
		col.Controller.Restore(cs)
	}
	return nil
}
