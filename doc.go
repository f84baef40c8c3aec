// Package colfilter provides an embeddable column filtering and query
// optimization engine for tabular hosts.
//
// Hosts register columns with an accessor that pulls the raw cell value
// out of a row. Each column gets a rule controller holding groups of
// filter templates; the engine compiles a controller into a predicate
// and evaluates rows against every registered column.
//
// # Quick Start
//
//	eng := colfilter.New()
//	ctrl, _ := eng.AddColumn("region", func(row any) any {
//	    return row.(Order).Region
//	}, value.TypeString)
//
//	t := ctrl.Groups()[0].Templates[0]
//	t.SetOperator(rule.OpIsAnyOf)
//	t.SetSelectedValues([]value.Value{value.String("emea")})
//
//	keep, _ := eng.FilterRows(ctx, rows)
//
// # Selection Optimization
//
// Given the distinct values of a column and the subset a user checked,
// the engine derives the smallest equivalent rule set:
//
//	res := eng.Optimize(allValues, checkedValues, value.TypeNumber)
//	eng.ApplySelection(ctrl, checkedValues)
//
// # Persistence
//
// Rule state snapshots are self-describing files written through a
// blobstore:
//
//	eng.SaveSnapshot(ctx, store, "filters.bin")
//	eng.LoadSnapshot(ctx, store, "filters.bin")
package colfilter
