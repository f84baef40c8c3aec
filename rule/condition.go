package rule

import (
	"github.com/hupe1980/colfilter/value"
)

// Condition holds one operator together with its typed operands.
//
// Raw operands are kept next to their converted forms so a host can re-edit
// what the user actually typed. Converted operands are re-derived whenever a
// raw operand or the operator changes, and range operands are re-ordered so
// Primary <= Secondary always holds.
type Condition struct {
	TargetType value.ColumnType
	Operator   Operator

	RawPrimary   any
	RawSecondary any

	// Primary and Secondary are the converted operands. They are either the
	// null sentinel or values of the kind implied by TargetType.
	Primary   value.Value
	Secondary value.Value

	// StringValue is the lowercased text form used by the text operators
	// (Contains, StartsWith, IsLike, ...).
	StringValue string

	// Count is the N of TopN/BottomN.
	Count int

	// Intervals holds the per-bucket selection of the DateInterval operator.
	Intervals map[value.Interval]bool
}

// NewCondition creates a condition for a column type with a default operator.
func NewCondition(ct value.ColumnType) *Condition {
	return &Condition{
		TargetType: ct,
		Operator:   OpEquals,
		Primary:    value.Null(),
		Secondary:  value.Null(),
	}
}

// SetOperator changes the operator and re-runs conversion, since the
// operator decides whether operands are ranged.
func (c *Condition) SetOperator(op Operator) {
	c.Operator = op
	c.reconvert()
}

// SetPrimary sets the first raw operand and re-converts.
func (c *Condition) SetPrimary(raw any) {
	c.RawPrimary = raw
	c.reconvert()
}

// SetSecondary sets the second raw operand and re-converts.
func (c *Condition) SetSecondary(raw any) {
	c.RawSecondary = raw
	c.reconvert()
}

// Kind returns the value kind the condition operates on.
func (c *Condition) Kind() value.Kind {
	if c.Primary.Kind != value.KindNull && c.Primary.Kind != value.KindInvalid {
		return c.Primary.Kind
	}
	switch c.TargetType {
	case value.TypeNumber:
		return value.KindNumber
	case value.TypeDateTime:
		return value.KindDateTime
	case value.TypeBoolean:
		return value.KindBool
	case value.TypeEnum:
		return value.KindEnum
	default:
		return value.KindString
	}
}

func (c *Condition) reconvert() {
	c.Primary = value.Convert(c.RawPrimary, c.TargetType)
	c.Secondary = value.Convert(c.RawSecondary, c.TargetType)

	// Text operators search on what the user typed even when conversion to
	// the target type fails (e.g. Contains "abc" on a Number column).
	if sv := value.Convert(c.RawPrimary, value.TypeString); !sv.IsNull() {
		c.StringValue = sv.StringValue()
	} else if !c.Primary.IsNull() {
		c.StringValue = c.Primary.Display()
	} else {
		c.StringValue = ""
	}

	if c.Operator.Arity() == ArityTwo && !c.Primary.IsNull() && !c.Secondary.IsNull() {
		c.Primary, c.Secondary = value.OrderRange(c.Primary, c.Secondary, c.TargetType)
	}
}
