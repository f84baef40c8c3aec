package rule

import "github.com/hupe1980/colfilter/value"

// OperatorTable restricts which operators a template may hold for a given
// column type. The content is host configuration, not engine logic; the
// engine only consults it.
type OperatorTable interface {
	ValidOperators(ct value.ColumnType, nullable bool) []Operator
	IsValid(op Operator, ct value.ColumnType) bool
}

// DefaultTable is a reasonable static configuration hosts can use as-is or
// replace entirely.
type DefaultTable struct{}

var _ OperatorTable = DefaultTable{}

// ValidOperators implements OperatorTable.
func (DefaultTable) ValidOperators(ct value.ColumnType, nullable bool) []Operator {
	var out []Operator
	for _, op := range Operators {
		if !(DefaultTable{}).IsValid(op, ct) {
			continue
		}
		if !nullable && (op == OpIsNull || op == OpIsNotNull) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// IsValid implements OperatorTable.
func (DefaultTable) IsValid(op Operator, ct value.ColumnType) bool {
	switch op {
	case OpIsNull, OpIsNotNull, OpIsBlank, OpIsNotBlank, OpEquals, OpNotEquals,
		OpIsAnyOf, OpIsNoneOf, OpUnique, OpDuplicate:
		return true
	case OpContains, OpDoesNotContain, OpStartsWith, OpEndsWith, OpIsLike, OpIsNotLike:
		return ct == value.TypeString || ct == value.TypeEnum || ct == value.TypeNumber
	case OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return ct == value.TypeNumber || ct == value.TypeDateTime || ct == value.TypeEnum
	case OpBetween, OpNotBetween:
		return ct == value.TypeNumber || ct == value.TypeDateTime
	case OpAboveAverage, OpBelowAverage, OpTopN, OpBottomN:
		return ct == value.TypeNumber
	case OpToday, OpYesterday, OpBetweenDates, OpIsOnAnyOfDates, OpDateInterval:
		return ct == value.TypeDateTime
	default:
		return false
	}
}
