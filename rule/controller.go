package rule

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colfilter/cache"
	"github.com/hupe1980/colfilter/value"
)

// ErrInvalidSearch is returned when a caller constructs a fundamentally
// contradictory search request; per-value issues never raise it.
var ErrInvalidSearch = errors.New("invalid search request")

// Controller owns the rule tree for one filterable column: its groups, the
// column's value cache and the detected column type.
//
// A controller always contains at least one group and every group at least
// one template; removing the last template resets it to an empty one.
type Controller struct {
	columnKey string
	groups    []*Group
	cache     *cache.ValueCache
	ct        value.ColumnType
	table     OperatorTable
}

// ControllerOption configures a controller.
type ControllerOption func(*Controller)

// WithCache attaches the column's value cache.
func WithCache(vc *cache.ValueCache) ControllerOption {
	return func(c *Controller) { c.cache = vc }
}

// WithOperatorTable overrides the operator validity table.
func WithOperatorTable(t OperatorTable) ControllerOption {
	return func(c *Controller) { c.table = t }
}

// NewController creates a controller for a column, seeded with one group
// holding one empty template.
func NewController(columnKey string, ct value.ColumnType, opts ...ControllerOption) *Controller {
	c := &Controller{
		columnKey: columnKey,
		ct:        ct,
		table:     DefaultTable{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.groups = []*Group{NewGroup(c.Type())}
	return c
}

// ColumnKey returns the column this controller filters.
func (c *Controller) ColumnKey() string { return c.columnKey }

// Type returns the column type, preferring the cache's detection when the
// cache is loaded.
func (c *Controller) Type() value.ColumnType {
	if c.cache != nil && c.cache.Loaded() {
		return c.cache.Type()
	}
	return c.ct
}

// Cache returns the column's value cache, or nil.
func (c *Controller) Cache() *cache.ValueCache { return c.cache }

// Groups returns the ordered groups.
func (c *Controller) Groups() []*Group { return c.groups }

// Table returns the operator validity table in use.
func (c *Controller) Table() OperatorTable { return c.table }

// AddGroup appends a new group joined by the given connector and returns it.
func (c *Controller) AddGroup(conn Connector) *Group {
	g := NewGroup(c.Type())
	g.Connector = conn
	c.groups = append(c.groups, g)
	return g
}

// AddTemplate appends a template to the last group.
func (c *Controller) AddTemplate(conn Connector) *Template {
	g := c.groups[len(c.groups)-1]
	return g.Add(c.Type(), conn)
}

// RemoveTemplate removes the template from whichever group holds it. A group
// left with no templates is removed; the last group of the controller is
// reset instead, so the tree never becomes empty.
func (c *Controller) RemoveTemplate(t *Template) bool {
	for gi, g := range c.groups {
		found := false
		for _, cur := range g.Templates {
			if cur == t {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		if len(g.Templates) > 1 {
			return g.Remove(t, c.Type())
		}
		if len(c.groups) > 1 {
			c.groups = append(c.groups[:gi], c.groups[gi+1:]...)
			return true
		}
		// Sole template of the sole group: reset rather than leave zero.
		g.Templates[0] = NewTemplate(c.Type())
		return true
	}
	return false
}

// Clear resets the controller to one group with one empty template.
func (c *Controller) Clear() {
	c.groups = []*Group{NewGroup(c.Type())}
}

// Active reports whether any template carries meaningful criteria. An
// inactive controller filters nothing (its predicate is constant true).
func (c *Controller) Active() bool {
	for _, g := range c.groups {
		if g.Active() {
			return true
		}
	}
	return false
}

// Validate checks the tree against the operator validity table. It returns
// an error wrapping ErrInvalidSearch when a template holds an operator that
// is illegal for the column type. Empty templates are fine; they are simply
// inactive.
func (c *Controller) Validate() error {
	ct := c.Type()
	for _, g := range c.groups {
		for _, t := range g.Templates {
			if !t.Valid() {
				continue
			}
			if !c.table.IsValid(t.Operator(), ct) {
				return fmt.Errorf("%w: operator %q not valid for %s column %q",
					ErrInvalidSearch, t.Operator().Label(), ct, c.columnKey)
			}
		}
	}
	return nil
}

// Summaries renders every active template for host display, in tree order.
func (c *Controller) Summaries() []Summary {
	var out []Summary
	for _, g := range c.groups {
		for _, t := range g.Templates {
			if !t.Valid() {
				continue
			}
			out = append(out, t.Summarize())
		}
	}
	return out
}
