// Package eval compiles a column's rule tree into a reusable predicate.
//
// Two modes exist: stateless compilation for per-row operators, and
// context-aware compilation for statistical operators that need
// whole-column aggregates (see Context). Connectors fold strictly left to
// right with no operator precedence, at template level and group level
// alike, matching how the tree is displayed.
package eval

import (
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

// Predicate tests one row value against a compiled rule tree.
type Predicate func(value.Value) bool

type config struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures compilation.
type Option func(*config)

// WithNow injects the clock anchoring relative-date operators.
func WithNow(fn func() time.Time) Option {
	return func(c *config) { c.now = fn }
}

// WithLogger sets the logger used to report recovered template failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Compile builds a stateless predicate for the controller's rule tree.
//
// Statistical operators cannot match without collection context; compile
// with CompileWithContext to activate them.
func Compile(ctrl *rule.Controller, opts ...Option) Predicate {
	return CompileWithContext(ctrl, nil, opts...)
}

// CompileWithContext builds a predicate that consults the given collection
// context for statistical operators.
func CompileWithContext(ctrl *rule.Controller, cctx *Context, opts ...Option) Predicate {
	cfg := &config{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	// An inactive controller filters nothing.
	if !ctrl.Active() {
		return func(value.Value) bool { return true }
	}

	ct := ctrl.Type()

	type compiledTemplate struct {
		conn  rule.Connector
		match func(value.Value) bool
	}
	type compiledGroup struct {
		conn      rule.Connector
		templates []compiledTemplate
	}

	var groups []compiledGroup
	for _, g := range ctrl.Groups() {
		cg := compiledGroup{conn: g.Connector}
		for _, t := range g.Templates {
			if !t.Valid() {
				continue
			}
			cg.templates = append(cg.templates, compiledTemplate{
				conn:  t.Connector,
				match: compileTemplate(t, ct, cctx, cfg),
			})
		}
		if len(cg.templates) > 0 {
			groups = append(groups, cg)
		}
	}

	return func(v value.Value) bool {
		result := false
		for gi, g := range groups {
			groupResult := false
			for ti, t := range g.templates {
				m := safeMatch(t.match, v, cfg)
				if ti == 0 {
					groupResult = m
				} else if t.conn == rule.ConnectorOr {
					groupResult = groupResult || m
				} else {
					groupResult = groupResult && m
				}
			}
			if gi == 0 {
				result = groupResult
			} else if g.conn == rule.ConnectorOr {
				result = result || groupResult
			} else {
				result = result && groupResult
			}
		}
		return result
	}
}

// safeMatch evaluates one template, recovering any panic as a non-match so
// a malformed row never aborts the rest of the pass.
func safeMatch(match func(value.Value) bool, v value.Value, cfg *config) (res bool) {
	defer func() {
		if r := recover(); r != nil {
			res = false
			if cfg.logger != nil {
				cfg.logger.Warn("template evaluation failed",
					"value", v.Display(),
					"panic", r,
				)
			}
		}
	}()
	return match(v)
}

// compileTemplate pre-resolves everything the operator needs (membership
// sets, like patterns, selected buckets) and returns the per-value matcher.
func compileTemplate(t *rule.Template, ct value.ColumnType, cctx *Context, cfg *config) func(value.Value) bool {
	c := t.Condition
	op := c.Operator

	switch op {
	case rule.OpIsNull:
		return func(v value.Value) bool { return v.IsNull() }
	case rule.OpIsNotNull:
		return func(v value.Value) bool { return !v.IsNull() }
	case rule.OpIsBlank:
		return func(v value.Value) bool { return isBlank(v) }
	case rule.OpIsNotBlank:
		return func(v value.Value) bool { return !isBlank(v) }

	case rule.OpAboveAverage:
		return func(v value.Value) bool {
			f, ok := v.AsNumber()
			if !ok {
				return false
			}
			mean, ok := cctx.Mean()
			return ok && f > mean
		}
	case rule.OpBelowAverage:
		return func(v value.Value) bool {
			f, ok := v.AsNumber()
			if !ok {
				return false
			}
			mean, ok := cctx.Mean()
			return ok && f < mean
		}
	case rule.OpUnique:
		return func(v value.Value) bool { return cctx.Frequency(v) == 1 }
	case rule.OpDuplicate:
		return func(v value.Value) bool { return cctx.Frequency(v) > 1 }
	case rule.OpTopN:
		n := c.Count
		return func(v value.Value) bool {
			f, ok := v.AsNumber()
			if !ok {
				return false
			}
			cut, ok := cctx.TopCutoff(n)
			return ok && f >= cut
		}
	case rule.OpBottomN:
		n := c.Count
		return func(v value.Value) bool {
			f, ok := v.AsNumber()
			if !ok {
				return false
			}
			cut, ok := cctx.BottomCutoff(n)
			return ok && f <= cut
		}

	case rule.OpToday:
		return intervalMatcher(cfg, value.IntervalToday)
	case rule.OpYesterday:
		return intervalMatcher(cfg, value.IntervalYesterday)

	case rule.OpContains:
		needle := c.StringValue
		return func(v value.Value) bool { return strings.Contains(foldText(v), needle) }
	case rule.OpDoesNotContain:
		needle := c.StringValue
		return func(v value.Value) bool { return !v.IsNull() && !strings.Contains(foldText(v), needle) }
	case rule.OpStartsWith:
		prefix := c.StringValue
		return func(v value.Value) bool { return strings.HasPrefix(foldText(v), prefix) }
	case rule.OpEndsWith:
		suffix := c.StringValue
		return func(v value.Value) bool { return strings.HasSuffix(foldText(v), suffix) }
	case rule.OpIsLike:
		match := likePattern(c.StringValue)
		return func(v value.Value) bool { return !v.IsNull() && match(foldText(v)) }
	case rule.OpIsNotLike:
		match := likePattern(c.StringValue)
		return func(v value.Value) bool { return !v.IsNull() && !match(foldText(v)) }

	case rule.OpEquals:
		operand := c.Primary
		return func(v value.Value) bool { return v.Equal(operand) }
	case rule.OpNotEquals:
		operand := c.Primary
		return func(v value.Value) bool { return !v.IsNull() && !v.Equal(operand) }
	case rule.OpGreaterThan:
		return orderedMatcher(c.Primary, ct, func(cmp int) bool { return cmp > 0 })
	case rule.OpGreaterThanOrEqual:
		return orderedMatcher(c.Primary, ct, func(cmp int) bool { return cmp >= 0 })
	case rule.OpLessThan:
		return orderedMatcher(c.Primary, ct, func(cmp int) bool { return cmp < 0 })
	case rule.OpLessThanOrEqual:
		return orderedMatcher(c.Primary, ct, func(cmp int) bool { return cmp <= 0 })

	case rule.OpBetween, rule.OpBetweenDates:
		return rangeMatcher(c.Primary, c.Secondary, ct, false)
	case rule.OpNotBetween:
		return rangeMatcher(c.Primary, c.Secondary, ct, true)

	case rule.OpIsAnyOf:
		set := keySet(t.SelectedValues)
		return func(v value.Value) bool { _, ok := set[foldKey(v)]; return ok }
	case rule.OpIsNoneOf:
		set := keySet(t.SelectedValues)
		return func(v value.Value) bool {
			if v.IsNull() {
				return false
			}
			_, ok := set[foldKey(v)]
			return !ok
		}
	case rule.OpIsOnAnyOfDates:
		days := make(map[string]struct{}, len(t.SelectedDates))
		for _, d := range t.SelectedDates {
			days[d.Format("2006-01-02")] = struct{}{}
		}
		return func(v value.Value) bool {
			d, ok := v.AsDateTime()
			if !ok {
				return false
			}
			_, hit := days[d.Format("2006-01-02")]
			return hit
		}
	case rule.OpDateInterval:
		return intervalMatcher(cfg, t.SelectedIntervals()...)

	default:
		// The operator set is closed; reaching this means a variant was
		// added without a matcher.
		panic("eval: unhandled operator " + string(op))
	}
}

func isBlank(v value.Value) bool {
	if v.IsNull() {
		return true
	}
	if s, ok := v.AsString(); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// foldText renders a value for case-insensitive text matching.
func foldText(v value.Value) string {
	if v.IsNull() {
		return ""
	}
	return strings.ToLower(v.Display())
}

func keySet(values []value.Value) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[foldKey(v)] = struct{}{}
	}
	return set
}

// orderedMatcher compares same-kind values under the column comparator.
// Mismatched kinds (failed conversions) never match an ordering operator.
func orderedMatcher(operand value.Value, ct value.ColumnType, accept func(int) bool) func(value.Value) bool {
	return func(v value.Value) bool {
		cmp, ok := compareOperand(v, operand, ct)
		return ok && accept(cmp)
	}
}

// rangeMatcher matches lo <= v <= hi with inclusive boundaries. A missing
// bound degrades to a one-sided comparison.
func rangeMatcher(lo, hi value.Value, ct value.ColumnType, negate bool) func(value.Value) bool {
	return func(v value.Value) bool {
		if v.IsNull() {
			return false
		}
		in := true
		if !lo.IsNull() {
			cmp, ok := compareOperand(v, lo, ct)
			if !ok {
				return false
			}
			in = in && cmp >= 0
		}
		if !hi.IsNull() {
			cmp, ok := compareOperand(v, hi, ct)
			if !ok {
				return false
			}
			in = in && cmp <= 0
		}
		if negate {
			return !in
		}
		return in
	}
}

func intervalMatcher(cfg *config, ivs ...value.Interval) func(value.Value) bool {
	buckets := append([]value.Interval(nil), ivs...)
	now := cfg.now
	return func(v value.Value) bool {
		d, ok := v.AsDateTime()
		if !ok {
			return false
		}
		anchor := now()
		for _, iv := range buckets {
			if iv.In(d, anchor) {
				return true
			}
		}
		return false
	}
}

// compareOperand orders v against an operand when both carry the kind the
// column type implies; string columns compare display text case-folded.
func compareOperand(v, operand value.Value, ct value.ColumnType) (int, bool) {
	if v.IsNull() || operand.IsNull() {
		return 0, false
	}

	switch ct {
	case value.TypeNumber:
		if v.Kind != value.KindNumber || operand.Kind != value.KindNumber {
			return 0, false
		}
	case value.TypeDateTime:
		if v.Kind != value.KindDateTime || operand.Kind != value.KindDateTime {
			return 0, false
		}
	case value.TypeBoolean:
		if v.Kind != value.KindBool || operand.Kind != value.KindBool {
			return 0, false
		}
	case value.TypeEnum:
		if v.Kind != value.KindEnum || operand.Kind != value.KindEnum {
			return 0, false
		}
	}
	return value.Compare(v, operand, ct), true
}
