package graph

import (
	"strings"

	"github.com/archscope/typegraph/engine/core"
)

// Context derives an ArchitecturalContext from the graph itself so the
// engine can run without an external classifier. Coupling counts come from
// the indexes; patterns and layers come from configured overrides first,
// then from namespace/name conventions. Cyclic flags are set by the
// analyzer after cycle detection.
type Context struct {
	graph     *Graph
	overrides *core.StaticContext
	cyclic    map[core.ID]bool
}

// NewContext creates a graph-derived context. overrides may be nil.
func NewContext(g *Graph, overrides *core.StaticContext) *Context {
	if overrides == nil {
		overrides = core.NewStaticContext()
	}
	return &Context{
		graph:     g,
		overrides: overrides,
		cyclic:    make(map[core.ID]bool),
	}
}

// MarkCyclic flags every id in the given cycle groups
func (c *Context) MarkCyclic(cycles [][]core.ID) {
	for _, cycle := range cycles {
		for _, id := range cycle {
			c.cyclic[id] = true
		}
	}
}

// Pattern returns the override pattern if configured, else a convention
// based guess from the type's namespace and name.
func (c *Context) Pattern(id core.ID) core.ArchitecturalPattern {
	if p, ok := c.overrides.Patterns[id]; ok {
		return p
	}
	node := c.graph.GetNode(id)
	if node == nil {
		return core.PatternUnknown
	}
	name := strings.ToLower(node.Name)
	switch {
	case strings.HasSuffix(name, "repository"):
		return core.PatternRepository
	case strings.HasSuffix(name, "factory"):
		return core.PatternFactory
	case strings.HasSuffix(name, "strategy"):
		return core.PatternStrategy
	case strings.HasSuffix(name, "service"):
		return core.PatternApplicationService
	}
	switch c.Layer(id) {
	case core.LayerDomain:
		return core.PatternDomainCore
	case core.LayerInfrastructure:
		return core.PatternInfrastructure
	}
	return core.PatternUnknown
}

// Layer returns the override layer if configured, else a guess from the
// namespace.
func (c *Context) Layer(id core.ID) core.ArchitecturalLayer {
	if l, ok := c.overrides.Layers[id]; ok {
		return l
	}
	node := c.graph.GetNode(id)
	if node == nil {
		return core.LayerUnknown
	}
	ns := strings.ToLower(node.Namespace)
	switch {
	case strings.Contains(ns, "domain") || strings.Contains(ns, "model"):
		return core.LayerDomain
	case strings.Contains(ns, "application") || strings.Contains(ns, "service"):
		return core.LayerApplication
	case strings.Contains(ns, "infrastructure") || strings.Contains(ns, "infra") ||
		strings.Contains(ns, "persistence"):
		return core.LayerInfrastructure
	case strings.Contains(ns, "presentation") || strings.Contains(ns, "controller") ||
		strings.Contains(ns, "api") || strings.Contains(ns, "web"):
		return core.LayerPresentation
	}
	return core.LayerUnknown
}

// AfferentCoupling returns fan-in, unless overridden
func (c *Context) AfferentCoupling(id core.ID) int {
	if v, ok := c.overrides.Afferent[id]; ok {
		return v
	}
	return c.graph.FanIn(id)
}

// EfferentCoupling returns fan-out, unless overridden
func (c *Context) EfferentCoupling(id core.ID) int {
	if v, ok := c.overrides.Efferent[id]; ok {
		return v
	}
	return c.graph.FanOut(id)
}

// IsCyclic reports whether id was flagged by cycle detection or overrides
func (c *Context) IsCyclic(id core.ID) bool {
	if v, ok := c.overrides.Cyclic[id]; ok {
		return v
	}
	return c.cyclic[id]
}

// ChangeFrequency returns the override change frequency, zero if unset
func (c *Context) ChangeFrequency(id core.ID) float64 {
	return c.overrides.ChangeFrequencies[id]
}
