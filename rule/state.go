package rule

import (
	"time"

	"github.com/hupe1980/colfilter/value"
)

// ControllerState is the serializable form of a controller's rule tree.
//
// NOTE: This is a persistence format; keep it stable.
type ControllerState struct {
	ColumnKey  string           `json:"columnKey"`
	ColumnType value.ColumnType `json:"columnType"`
	Groups     []GroupState     `json:"groups"`
}

// GroupState is the serializable form of a group.
type GroupState struct {
	Connector Connector       `json:"connector"`
	Templates []TemplateState `json:"templates"`
}

// TemplateState is the serializable form of a template.
type TemplateState struct {
	Operator  Operator         `json:"operator"`
	Connector Connector        `json:"connector"`
	Primary   value.Value      `json:"primary"`
	Secondary value.Value      `json:"secondary"`
	Text      string           `json:"text,omitempty"`
	Count     int              `json:"count,omitempty"`
	Values    []value.Value    `json:"values,omitempty"`
	Dates     []time.Time      `json:"dates,omitempty"`
	Intervals []value.Interval `json:"intervals,omitempty"`
}

// State captures the controller's rule tree.
func (c *Controller) State() ControllerState {
	st := ControllerState{
		ColumnKey:  c.columnKey,
		ColumnType: c.Type(),
	}
	for _, g := range c.groups {
		gs := GroupState{Connector: g.Connector}
		for _, t := range g.Templates {
			gs.Templates = append(gs.Templates, TemplateState{
				Operator:  t.Operator(),
				Connector: t.Connector,
				Primary:   t.Condition.Primary,
				Secondary: t.Condition.Secondary,
				Text:      t.Condition.StringValue,
				Count:     t.Condition.Count,
				Values:    append([]value.Value(nil), t.SelectedValues...),
				Dates:     append([]time.Time(nil), t.SelectedDates...),
				Intervals: t.SelectedIntervals(),
			})
		}
		st.Groups = append(st.Groups, gs)
	}
	return st
}

// Restore replaces the controller's rule tree with the captured state.
func (c *Controller) Restore(st ControllerState) {
	c.ct = st.ColumnType
	c.groups = nil

	for _, gs := range st.Groups {
		g := &Group{Connector: gs.Connector}
		for _, ts := range gs.Templates {
			t := NewTemplate(st.ColumnType)
			t.Connector = ts.Connector
			t.Condition.Operator = ts.Operator
			t.Condition.Primary = ts.Primary
			t.Condition.Secondary = ts.Secondary
			t.Condition.StringValue = ts.Text
			t.Condition.Count = ts.Count
			t.SelectedValues = append([]value.Value(nil), ts.Values...)
			t.SelectedDates = append([]time.Time(nil), ts.Dates...)
			for _, iv := range ts.Intervals {
				t.SetInterval(iv, true)
			}
			g.Templates = append(g.Templates, t)
		}
		if len(g.Templates) == 0 {
			g.Templates = []*Template{NewTemplate(st.ColumnType)}
		}
		c.groups = append(c.groups, g)
	}
	if len(c.groups) == 0 {
		c.groups = []*Group{NewGroup(st.ColumnType)}
	}
}
