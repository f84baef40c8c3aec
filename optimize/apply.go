package optimize

import "github.com/hupe1980/colfilter/rule"

// Apply replaces the controller's rule tree with the optimized rules,
// built as a single group whose templates reproduce the selection. An
// AllSelected result clears the controller instead.
func (r Result) Apply(ctrl *rule.Controller) {
	ctrl.Clear()
	if len(r.Rules) == 0 {
		return
	}

	g := ctrl.Groups()[0]
	for i, or := range r.Rules {
		var t *rule.Template
		if i == 0 {
			t = g.Templates[0]
		} else {
			t = g.Add(ctrl.Type(), or.Connector)
		}
		t.Connector = or.Connector
		t.SetOperator(or.Operator)
		t.Condition.Primary = or.Primary
		t.Condition.Secondary = or.Secondary
		t.Condition.StringValue = or.Primary.Display()
		if len(or.Values) > 0 {
			t.SetSelectedValues(or.Values)
		}
	}
}
