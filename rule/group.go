package rule

import "github.com/hupe1980/colfilter/value"

// Group is an ordered list of templates combined left-to-right by each
// template's own connector. A group always contains at least one template.
type Group struct {
	Templates []*Template

	// Connector joins this group to the previous one in the controller.
	// The first group's connector is ignored.
	Connector Connector
}

// NewGroup creates a group seeded with one empty template.
func NewGroup(ct value.ColumnType) *Group {
	return &Group{Templates: []*Template{NewTemplate(ct)}}
}

// Add appends a template joined by the given connector and returns it.
func (g *Group) Add(ct value.ColumnType, conn Connector) *Template {
	t := NewTemplate(ct)
	t.Connector = conn
	g.Templates = append(g.Templates, t)
	return t
}

// Remove deletes the template. Removing the sole remaining template resets
// it to an empty one instead of leaving the group empty.
func (g *Group) Remove(t *Template, ct value.ColumnType) bool {
	for i, cur := range g.Templates {
		if cur != t {
			continue
		}
		if len(g.Templates) == 1 {
			g.Templates[0] = NewTemplate(ct)
			return true
		}
		g.Templates = append(g.Templates[:i], g.Templates[i+1:]...)
		return true
	}
	return false
}

// Active reports whether any template carries meaningful criteria.
func (g *Group) Active() bool {
	for _, t := range g.Templates {
		if t.Valid() {
			return true
		}
	}
	return false
}
