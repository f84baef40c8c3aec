package rule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colfilter/cache"
	"github.com/hupe1980/colfilter/value"
)

func TestConditionRangeOrdering(t *testing.T) {
	c := NewCondition(value.TypeNumber)
	c.SetOperator(OpBetween)
	c.SetPrimary(9)
	c.SetSecondary(3)

	assert.Equal(t, value.Number(3), c.Primary)
	assert.Equal(t, value.Number(9), c.Secondary)

	// Changing a raw operand re-runs the ordering.
	c.SetSecondary(1)
	assert.Equal(t, value.Number(1), c.Primary)
	assert.Equal(t, value.Number(9), c.Secondary)
}

func TestConditionConversionNeverFailsLoudly(t *testing.T) {
	c := NewCondition(value.TypeNumber)
	c.SetPrimary("not a number")

	assert.True(t, c.Primary.IsNull())
	assert.Equal(t, "not a number", c.StringValue)
}

func TestTemplateValidity(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tpl *Template)
		want  bool
	}{
		{"empty equals", func(*Template) {}, false},
		{"equals with value", func(tpl *Template) { tpl.SetValue(5) }, true},
		{"zero arity always valid", func(tpl *Template) { tpl.SetOperator(OpIsNull) }, true},
		{"between with one bound", func(tpl *Template) {
			tpl.SetOperator(OpBetween)
			tpl.SetValue(3)
		}, true},
		{"between empty", func(tpl *Template) { tpl.SetOperator(OpBetween) }, false},
		{"is any of empty", func(tpl *Template) { tpl.SetOperator(OpIsAnyOf) }, false},
		{"is any of with values", func(tpl *Template) {
			tpl.SetOperator(OpIsAnyOf)
			tpl.SetSelectedValues([]value.Value{value.Number(1)})
		}, true},
		{"top n requires count", func(tpl *Template) { tpl.SetOperator(OpTopN) }, false},
		{"top n with count", func(tpl *Template) {
			tpl.SetOperator(OpTopN)
			tpl.SetCount(3)
		}, true},
		{"date interval with bucket", func(tpl *Template) {
			tpl.SetOperator(OpDateInterval)
			tpl.SetInterval(value.IntervalToday, true)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := NewTemplate(value.TypeNumber)
			tt.setup(tpl)
			assert.Equal(t, tt.want, tpl.Valid())
		})
	}
}

func TestControllerOwnershipInvariants(t *testing.T) {
	c := NewController("age", value.TypeNumber)

	// Seeded with one group holding one empty template.
	require.Len(t, c.Groups(), 1)
	require.Len(t, c.Groups()[0].Templates, 1)
	assert.False(t, c.Active())

	first := c.Groups()[0].Templates[0]
	first.SetValue(10)
	assert.True(t, c.Active())

	second := c.AddTemplate(ConnectorOr)
	second.SetValue(20)
	require.Len(t, c.Groups()[0].Templates, 2)

	g2 := c.AddGroup(ConnectorAnd)
	g2.Templates[0].SetOperator(OpIsNotNull)
	require.Len(t, c.Groups(), 2)

	// Removing a group's last template removes the group.
	require.True(t, c.RemoveTemplate(g2.Templates[0]))
	require.Len(t, c.Groups(), 1)

	// Removing the final template resets instead of leaving zero.
	require.True(t, c.RemoveTemplate(second))
	require.True(t, c.RemoveTemplate(first))
	require.Len(t, c.Groups(), 1)
	require.Len(t, c.Groups()[0].Templates, 1)
	assert.False(t, c.Active())
}

func TestControllerValidate(t *testing.T) {
	c := NewController("name", value.TypeString)
	tpl := c.Groups()[0].Templates[0]

	// Empty template: inactive, not invalid.
	require.NoError(t, c.Validate())

	tpl.SetOperator(OpAboveAverage) // statistical: numbers only
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSearch)

	tpl.SetOperator(OpContains)
	tpl.SetValue("abc")
	require.NoError(t, c.Validate())
}

func TestControllerTypeFollowsCache(t *testing.T) {
	vc := cache.New([]any{nil, 1, 2, 3})
	c := NewController("n", value.TypeString, WithCache(vc))
	assert.Equal(t, value.TypeNumber, c.Type())
}

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable{}

	assert.True(t, tbl.IsValid(OpBetween, value.TypeNumber))
	assert.False(t, tbl.IsValid(OpBetween, value.TypeString))
	assert.True(t, tbl.IsValid(OpDateInterval, value.TypeDateTime))
	assert.False(t, tbl.IsValid(OpDateInterval, value.TypeNumber))
	assert.True(t, tbl.IsValid(OpEquals, value.TypeBoolean))

	ops := tbl.ValidOperators(value.TypeNumber, false)
	assert.NotContains(t, ops, OpIsNull)
	ops = tbl.ValidOperators(value.TypeNumber, true)
	assert.Contains(t, ops, OpIsNull)
}

func TestStateRoundTrip(t *testing.T) {
	c := NewController("when", value.TypeDateTime)
	tpl := c.Groups()[0].Templates[0]
	tpl.SetOperator(OpBetweenDates)
	tpl.SetValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tpl.SetSecondaryValue(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	second := c.AddTemplate(ConnectorOr)
	second.SetOperator(OpDateInterval)
	second.SetInterval(value.IntervalLastWeek, true)

	st := c.State()

	restored := NewController("when", value.TypeDateTime)
	restored.Restore(st)

	require.Len(t, restored.Groups(), 1)
	require.Len(t, restored.Groups()[0].Templates, 2)

	rt := restored.Groups()[0].Templates[0]
	assert.Equal(t, OpBetweenDates, rt.Operator())
	assert.True(t, rt.Condition.Primary.Equal(tpl.Condition.Primary))

	rt2 := restored.Groups()[0].Templates[1]
	assert.Equal(t, ConnectorOr, rt2.Connector)
	assert.Equal(t, []value.Interval{value.IntervalLastWeek}, rt2.SelectedIntervals())
}

func TestSummaries(t *testing.T) {
	c := NewController("n", value.TypeNumber)
	tpl := c.Groups()[0].Templates[0]
	tpl.SetOperator(OpBetween)
	tpl.SetValue(3)
	tpl.SetSecondaryValue(7)

	second := c.AddTemplate(ConnectorOr)
	second.SetOperator(OpIsAnyOf)
	second.SetSelectedValues([]value.Value{value.Number(10), value.Number(20)})

	sums := c.Summaries()
	require.Len(t, sums, 2)
	assert.Equal(t, "Between", sums[0].Label)
	assert.Equal(t, "3", sums[0].Operand)
	assert.Equal(t, "7", sums[0].Secondary)
	assert.Equal(t, "Or", sums[1].Connector)
	assert.Equal(t, []string{"10", "20"}, sums[1].Values)
}
