// Package rule models the filter rule tree for a single column: conditions,
// templates, groups and the controller owning them.
package rule

// Operator is the verb of a filter rule.
//
// The set is closed: evaluation dispatches over it with an exhaustive switch
// so a new operator cannot silently no-op.
type Operator string

const (
	// Zero-operand operators.

	OpIsNull       Operator = "isNull"
	OpIsNotNull    Operator = "isNotNull"
	OpIsBlank      Operator = "isBlank"
	OpIsNotBlank   Operator = "isNotBlank"
	OpAboveAverage Operator = "aboveAverage"
	OpBelowAverage Operator = "belowAverage"
	OpUnique       Operator = "unique"
	OpDuplicate    Operator = "duplicate"
	OpToday        Operator = "today"
	OpYesterday    Operator = "yesterday"

	// One-operand operators.

	OpContains           Operator = "contains"
	OpDoesNotContain     Operator = "doesNotContain"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpGreaterThan        Operator = "greaterThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThan           Operator = "lessThan"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpIsLike             Operator = "isLike"
	OpIsNotLike          Operator = "isNotLike"
	OpTopN               Operator = "topN"
	OpBottomN            Operator = "bottomN"

	// Two-operand operators.

	OpBetween      Operator = "between"
	OpNotBetween   Operator = "notBetween"
	OpBetweenDates Operator = "betweenDates"

	// Collection-operand operators.

	OpIsAnyOf        Operator = "isAnyOf"
	OpIsNoneOf       Operator = "isNoneOf"
	OpIsOnAnyOfDates Operator = "isOnAnyOfDates"
	OpDateInterval   Operator = "dateInterval"
)

// Operators lists every operator. Used by validity tables and tests.
var Operators = []Operator{
	OpIsNull, OpIsNotNull, OpIsBlank, OpIsNotBlank,
	OpAboveAverage, OpBelowAverage, OpUnique, OpDuplicate,
	OpToday, OpYesterday,
	OpContains, OpDoesNotContain, OpStartsWith, OpEndsWith,
	OpEquals, OpNotEquals,
	OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual,
	OpIsLike, OpIsNotLike, OpTopN, OpBottomN,
	OpBetween, OpNotBetween, OpBetweenDates,
	OpIsAnyOf, OpIsNoneOf, OpIsOnAnyOfDates, OpDateInterval,
}

// Arity classifies operators by how many operands they take.
type Arity uint8

const (
	// ArityZero operators need no operand.
	ArityZero Arity = iota
	// ArityOne operators take a single operand.
	ArityOne
	// ArityTwo operators take a range pair.
	ArityTwo
	// ArityCollection operators take a list of values, dates or buckets.
	ArityCollection
)

// Arity returns the operand arity of the operator.
func (op Operator) Arity() Arity {
	switch op {
	case OpIsNull, OpIsNotNull, OpIsBlank, OpIsNotBlank,
		OpAboveAverage, OpBelowAverage, OpUnique, OpDuplicate,
		OpToday, OpYesterday:
		return ArityZero
	case OpBetween, OpNotBetween, OpBetweenDates:
		return ArityTwo
	case OpIsAnyOf, OpIsNoneOf, OpIsOnAnyOfDates, OpDateInterval:
		return ArityCollection
	default:
		return ArityOne
	}
}

// IsStatistical reports whether the operator needs whole-column context.
func (op Operator) IsStatistical() bool {
	switch op {
	case OpAboveAverage, OpBelowAverage, OpUnique, OpDuplicate, OpTopN, OpBottomN:
		return true
	default:
		return false
	}
}

// IsDateSpecific reports whether the operator only makes sense on dates.
func (op Operator) IsDateSpecific() bool {
	switch op {
	case OpToday, OpYesterday, OpBetweenDates, OpIsOnAnyOfDates, OpDateInterval:
		return true
	default:
		return false
	}
}

// Label returns the human-readable display label of the operator.
func (op Operator) Label() string {
	switch op {
	case OpIsNull:
		return "Is null"
	case OpIsNotNull:
		return "Is not null"
	case OpIsBlank:
		return "Is blank"
	case OpIsNotBlank:
		return "Is not blank"
	case OpAboveAverage:
		return "Above average"
	case OpBelowAverage:
		return "Below average"
	case OpUnique:
		return "Unique"
	case OpDuplicate:
		return "Duplicate"
	case OpToday:
		return "Today"
	case OpYesterday:
		return "Yesterday"
	case OpContains:
		return "Contains"
	case OpDoesNotContain:
		return "Does not contain"
	case OpStartsWith:
		return "Starts with"
	case OpEndsWith:
		return "Ends with"
	case OpEquals:
		return "Equals"
	case OpNotEquals:
		return "Does not equal"
	case OpGreaterThan:
		return "Greater than"
	case OpGreaterThanOrEqual:
		return "Greater than or equal"
	case OpLessThan:
		return "Less than"
	case OpLessThanOrEqual:
		return "Less than or equal"
	case OpIsLike:
		return "Is like"
	case OpIsNotLike:
		return "Is not like"
	case OpTopN:
		return "Top N"
	case OpBottomN:
		return "Bottom N"
	case OpBetween:
		return "Between"
	case OpNotBetween:
		return "Not between"
	case OpBetweenDates:
		return "Between dates"
	case OpIsAnyOf:
		return "Is any of"
	case OpIsNoneOf:
		return "Is none of"
	case OpIsOnAnyOfDates:
		return "Is on any of dates"
	case OpDateInterval:
		return "Date interval"
	default:
		return string(op)
	}
}

// Connector joins a template or group to its previous sibling.
type Connector uint8

const (
	// ConnectorAnd combines with logical AND.
	ConnectorAnd Connector = iota
	// ConnectorOr combines with logical OR.
	ConnectorOr
)

// String returns "And" or "Or".
func (c Connector) String() string {
	if c == ConnectorOr {
		return "Or"
	}
	return "And"
}
