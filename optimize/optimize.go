// Package optimize works backward from a value selection to the smallest
// equivalent rule set: given the full distinct value set of a column and
// the subset a user selected, it derives rules (equals, ranges, membership
// lists, negations) that reproduce the selection exactly.
package optimize

import (
	"sort"
	"time"

	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

// Pattern classifies the shape of a selection.
type Pattern uint8

const (
	// PatternAllSelected means no filtering is needed.
	PatternAllSelected Pattern = iota
	// PatternAllUnselected means nothing survives the filter.
	PatternAllUnselected
	// PatternSingleValue covers |S|=1 and |U|=1 selections.
	PatternSingleValue
	// PatternContinuousRange is one range covering the whole selection.
	PatternContinuousRange
	// PatternMultipleRanges is several disjoint ranges.
	PatternMultipleRanges
	// PatternMixedPattern negates a small unselected remainder.
	PatternMixedPattern
	// PatternSparse falls back to membership lists.
	PatternSparse
)

// String returns the pattern name.
func (p Pattern) String() string {
	switch p {
	case PatternAllSelected:
		return "AllSelected"
	case PatternAllUnselected:
		return "AllUnselected"
	case PatternSingleValue:
		return "SingleValue"
	case PatternContinuousRange:
		return "ContinuousRange"
	case PatternMultipleRanges:
		return "MultipleRanges"
	case PatternMixedPattern:
		return "MixedPattern"
	default:
		return "Sparse"
	}
}

// Rule is one emitted filter rule. Rules in a result combine left to right
// with each rule's connector; the first rule's connector is ignored.
type Rule struct {
	Operator  rule.Operator
	Connector rule.Connector
	Primary   value.Value
	Secondary value.Value
	Values    []value.Value
}

// Result is the outcome of an optimization.
type Result struct {
	Pattern     Pattern
	Rules       []Rule
	UseNegation bool

	// Score is the efficiency of the rule set; lower is simpler. Callers
	// merging with pre-existing rules can compare competing strategies.
	Score int
}

// Optimize derives the smallest rule set reproducing exactly the selection
// S out of the full value set V. An empty rule list with PatternAllSelected
// means no filter is needed.
func Optimize(all, selected []value.Value, ct value.ColumnType) Result {
	sel := make(map[string]bool, len(selected))
	for _, v := range selected {
		sel[v.Key()] = true
	}

	// Split V into S and U = V \ S; selected values outside V are ignored.
	var s, u []value.Value
	for _, v := range all {
		if sel[v.Key()] {
			s = append(s, v)
		} else {
			u = append(u, v)
		}
	}

	switch {
	case len(s) == 0:
		// Degenerate: nothing selected. A lone IsNull would still match a
		// null sentinel, so emit the contradiction IsNull And IsNotNull.
		return Result{
			Pattern: PatternAllUnselected,
			Rules: []Rule{
				{Operator: rule.OpIsNull},
				{Operator: rule.OpIsNotNull, Connector: rule.ConnectorAnd},
			},
			Score: 1,
		}
	case len(u) == 0:
		return Result{Pattern: PatternAllSelected, Score: 0}
	}

	// Null membership is special-cased first: the sentinel drops out of
	// range and membership analysis, and a dedicated rule re-admits it when
	// it was selected.
	sNull := removeNull(&s)
	uNull := removeNull(&u)

	if len(s) == 0 {
		// Only null was selected.
		return Result{
			Pattern: PatternSingleValue,
			Rules:   []Rule{{Operator: rule.OpIsNull}},
			Score:   1,
		}
	}

	sortValues(s, ct)
	sortValues(u, ct)

	sRanges := ranges(s, u, ct)
	uRanges := ranges(u, s, ct)

	useNegation := len(u) < len(s) && len(u) > 0 && len(uRanges) <= 2

	var res Result
	switch {
	case len(s) == 1:
		res = Result{
			Pattern: PatternSingleValue,
			Rules:   []Rule{{Operator: rule.OpEquals, Primary: s[0]}},
			Score:   1,
		}
	case len(u) == 1:
		res = Result{
			Pattern:     PatternSingleValue,
			UseNegation: true,
			Rules:       []Rule{{Operator: rule.OpNotEquals, Primary: u[0]}},
			Score:       1,
		}
	case len(sRanges) == 1 && sRanges[0].spans(len(s)):
		res = Result{
			Pattern: PatternContinuousRange,
			Rules:   rangeRules(s, sRanges, ct, false),
			Score:   2,
		}
	case useNegation:
		// Negating the small remainder beats enumerating the selection.
		// Checked before MultipleRanges: rangeCount(U) <= 2 caps the
		// negated score at 4, never worse than the positive ranges.
		res = Result{
			Pattern:     PatternMixedPattern,
			UseNegation: true,
			Rules:       negatedRules(u, uRanges, ct),
			Score:       len(uRanges) * 2,
		}
	case len(sRanges) > 1 && len(sRanges) < len(s):
		res = Result{
			Pattern: PatternMultipleRanges,
			Rules:   rangeRules(s, sRanges, ct, false),
			Score:   len(sRanges) * 2,
		}
	default:
		res = sparse(s, u)
	}

	return withNullRules(res, sNull, uNull)
}

// withNullRules re-admits a selected null and makes an unselected null
// explicit in negated rule sets. Positions respect the left-to-right fold:
// "or null" goes last, "and not null" goes first.
func withNullRules(res Result, sNull, uNull bool) Result {
	switch {
	case sNull && !uNull:
		res.Rules = append(res.Rules, Rule{
			Operator:  rule.OpIsNull,
			Connector: rule.ConnectorOr,
		})
	case uNull && res.UseNegation:
		// Negated rules already reject null, but the explicit guard keeps
		// the emitted rule set self-describing.
		rules := make([]Rule, 0, len(res.Rules)+1)
		rules = append(rules, Rule{Operator: rule.OpIsNotNull})
		for _, r := range res.Rules {
			r.Connector = rule.ConnectorAnd
			rules = append(rules, r)
		}
		res.Rules = rules
	}
	return res
}

// span is a half-open index range [start, end) into a sorted value slice.
type span struct {
	start, end int
}

func (s span) len() int         { return s.end - s.start }
func (s span) spans(n int) bool { return s.start == 0 && s.end == n }
func (s span) single() bool     { return s.len() == 1 }

// ranges detects maximal contiguous runs in a sorted value slice using the
// type's adjacency rule: numbers are adjacent at gap <= 1, dates at gap
// <= 1 day, everything else never (each value is its own singleton run).
// Two values never merge when a value from the other side of the split
// lies strictly between them; the emitted range would swallow it.
func ranges(sorted, other []value.Value, ct value.ColumnType) []span {
	if len(sorted) == 0 {
		return nil
	}

	var out []span
	cur := span{0, 1}
	for i := 1; i < len(sorted); i++ {
		if adjacent(sorted[i-1], sorted[i], ct) && !separated(sorted[i-1], sorted[i], other, ct) {
			cur.end = i + 1
			continue
		}
		out = append(out, cur)
		cur = span{i, i + 1}
	}
	return append(out, cur)
}

// separated reports whether any value of the sorted other slice falls
// strictly between a and b.
func separated(a, b value.Value, other []value.Value, ct value.ColumnType) bool {
	i := sort.Search(len(other), func(i int) bool {
		return value.Compare(other[i], a, ct) > 0
	})
	return i < len(other) && value.Compare(other[i], b, ct) < 0
}

func adjacent(a, b value.Value, ct value.ColumnType) bool {
	switch ct {
	case value.TypeNumber:
		af, aok := a.AsNumber()
		bf, bok := b.AsNumber()
		return aok && bok && bf-af <= 1
	case value.TypeDateTime:
		at, aok := a.AsDateTime()
		bt, bok := b.AsDateTime()
		return aok && bok && bt.Sub(at) <= 24*time.Hour
	default:
		return false
	}
}

func sortValues(vals []value.Value, ct value.ColumnType) {
	sort.SliceStable(vals, func(i, j int) bool {
		return value.Compare(vals[i], vals[j], ct) < 0
	})
}

// rangeRules emits Equals for singleton runs and Between (or the date
// range operator) for longer ones, OR-connected.
func rangeRules(sorted []value.Value, spans []span, ct value.ColumnType, negate bool) []Rule {
	rules := make([]Rule, 0, len(spans))
	for _, sp := range spans {
		r := Rule{Connector: rule.ConnectorOr}
		switch {
		case sp.single() && !negate:
			r.Operator = rule.OpEquals
			r.Primary = sorted[sp.start]
		case sp.single():
			r.Operator = rule.OpNotEquals
			r.Primary = sorted[sp.start]
		default:
			r.Operator = rangeOperator(ct, negate)
			r.Primary = sorted[sp.start]
			r.Secondary = sorted[sp.end-1]
		}
		rules = append(rules, r)
	}
	return rules
}

// negatedRules excludes the unselected runs, AND-connected.
func negatedRules(u []value.Value, spans []span, ct value.ColumnType) []Rule {
	rules := rangeRules(u, spans, ct, true)
	for i := range rules {
		rules[i].Connector = rule.ConnectorAnd
	}
	return rules
}

func rangeOperator(ct value.ColumnType, negate bool) rule.Operator {
	if negate {
		return rule.OpNotBetween
	}
	if ct == value.TypeDateTime {
		return rule.OpBetweenDates
	}
	return rule.OpBetween
}

// sparse emits membership rules: excluding a small unselected set beats
// enumerating a large selection.
func sparse(s, u []value.Value) Result {
	if len(u) < len(s) && len(u) <= 5 {
		return Result{
			Pattern:     PatternSparse,
			UseNegation: true,
			Rules: []Rule{{
				Operator: rule.OpIsNoneOf,
				Values:   append([]value.Value(nil), u...),
			}},
			Score: len(u),
		}
	}
	return Result{
		Pattern: PatternSparse,
		Rules: []Rule{{
			Operator: rule.OpIsAnyOf,
			Values:   append([]value.Value(nil), s...),
		}},
		Score: min(len(s), len(u)),
	}
}

func removeNull(vals *[]value.Value) bool {
	for i, v := range *vals {
		if v.IsNull() {
			*vals = append((*vals)[:i], (*vals)[i+1:]...)
			return true
		}
	}
	return false
}
