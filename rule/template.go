package rule

import (
	"time"

	"github.com/hupe1980/colfilter/value"
)

// Template is one rule instance: an operator, its operands and the logical
// connector to the previous template in the group.
//
// Templates are owned by their controller; hosts mutate them through the
// setters while the user edits and the controller tears them down when they
// are removed.
type Template struct {
	Condition *Condition

	// SelectedValues backs IsAnyOf / IsNoneOf.
	SelectedValues []value.Value

	// SelectedDates backs IsOnAnyOfDates.
	SelectedDates []time.Time

	// Connector joins this template to the previous one in its group.
	// The first template's connector is ignored.
	Connector Connector
}

// NewTemplate creates an empty template with the default operator.
func NewTemplate(ct value.ColumnType) *Template {
	return &Template{Condition: NewCondition(ct)}
}

// Operator returns the template's operator.
func (t *Template) Operator() Operator { return t.Condition.Operator }

// SetOperator changes the operator.
func (t *Template) SetOperator(op Operator) { t.Condition.SetOperator(op) }

// SetValue sets the single/primary operand.
func (t *Template) SetValue(raw any) { t.Condition.SetPrimary(raw) }

// SetSecondaryValue sets the secondary (range) operand.
func (t *Template) SetSecondaryValue(raw any) { t.Condition.SetSecondary(raw) }

// SetCount sets the N of TopN/BottomN.
func (t *Template) SetCount(n int) { t.Condition.Count = n }

// SetSelectedValues replaces the discrete value selection.
func (t *Template) SetSelectedValues(vals []value.Value) {
	t.SelectedValues = append(t.SelectedValues[:0], vals...)
}

// SetSelectedDates replaces the discrete date selection.
func (t *Template) SetSelectedDates(dates []time.Time) {
	t.SelectedDates = append(t.SelectedDates[:0], dates...)
}

// SetInterval toggles one relative-date bucket.
func (t *Template) SetInterval(iv value.Interval, selected bool) {
	if t.Condition.Intervals == nil {
		t.Condition.Intervals = make(map[value.Interval]bool)
	}
	t.Condition.Intervals[iv] = selected
}

// SelectedIntervals returns the selected buckets in display order.
func (t *Template) SelectedIntervals() []value.Interval {
	var out []value.Interval
	for _, iv := range value.Intervals {
		if t.Condition.Intervals[iv] {
			out = append(out, iv)
		}
	}
	return out
}

// Valid reports whether the template carries meaningful criteria.
//
// Zero-operand operators are always meaningful; the others need at least
// one usable operand. Invalid templates are skipped during evaluation.
func (t *Template) Valid() bool {
	c := t.Condition
	switch c.Operator.Arity() {
	case ArityZero:
		return true
	case ArityTwo:
		return !c.Primary.IsNull() || !c.Secondary.IsNull()
	case ArityCollection:
		switch c.Operator {
		case OpIsOnAnyOfDates:
			return len(t.SelectedDates) > 0
		case OpDateInterval:
			return len(t.SelectedIntervals()) > 0
		default:
			return len(t.SelectedValues) > 0
		}
	default:
		if c.Operator == OpTopN || c.Operator == OpBottomN {
			return c.Count > 0
		}
		return !c.Primary.IsNull() || c.StringValue != ""
	}
}

// Summary is a read-only description of an active template for host display.
type Summary struct {
	Label     string
	Operand   string
	Secondary string
	Values    []string
	Connector string
}

// Summarize renders the template for host display ("chips").
func (t *Template) Summarize() Summary {
	s := Summary{
		Label:     t.Condition.Operator.Label(),
		Connector: t.Connector.String(),
	}

	switch t.Condition.Operator.Arity() {
	case ArityZero:
	case ArityTwo:
		s.Operand = t.Condition.Primary.Display()
		s.Secondary = t.Condition.Secondary.Display()
	case ArityCollection:
		switch t.Condition.Operator {
		case OpIsOnAnyOfDates:
			for _, d := range t.SelectedDates {
				s.Values = append(s.Values, d.Format("2006-01-02"))
			}
		case OpDateInterval:
			for _, iv := range t.SelectedIntervals() {
				s.Values = append(s.Values, iv.String())
			}
		default:
			for _, v := range t.SelectedValues {
				s.Values = append(s.Values, v.Display())
			}
		}
	default:
		if !t.Condition.Primary.IsNull() {
			s.Operand = t.Condition.Primary.Display()
		} else {
			s.Operand = t.Condition.StringValue
		}
	}
	return s
}
