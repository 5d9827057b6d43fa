package graph

import (
	"time"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/pkg/logger"
)

// BuildFromFacts constructs a graph from collaborator facts in the two-pass
// order the engine requires: all nodes first, then all edges. Edge facts
// referencing unknown ids are still inserted (dangling edges are tolerated
// and excluded from traversal).
func BuildFromFacts(nodes []core.NodeFact, edges []core.EdgeFact) *Graph {
	startTime := time.Now()
	g := New()

	for i := range nodes {
		fact := &nodes[i]
		g.AddNode(&core.TypeNode{
			ID:            fact.ID,
			Name:          fact.SimpleName,
			Namespace:     fact.Namespace,
			ProjectID:     fact.ProjectID,
			Kind:          fact.Kind,
			Accessibility: fact.Accessibility,
			IsAbstract:    fact.IsAbstract,
			IsSealed:      fact.IsSealed,
			IsStatic:      fact.IsStatic,
			Span:          fact.Span,
		})
	}

	dangling := 0
	for i := range edges {
		fact := &edges[i]
		dep := core.NewTypeDependency(fact.SourceID, fact.TargetID, fact.Kind)
		dep.MemberName = fact.MemberName
		dep.Location = fact.Location
		dep.Snippet = fact.Snippet
		if !g.HasNode(fact.SourceID) || !g.HasNode(fact.TargetID) {
			dangling++
		}
		g.AddDependency(dep)
	}

	logger.Debug("graph built from facts",
		"nodes", g.NodeCount(),
		"dependencies", g.DependencyCount(),
		"dangling", dangling,
		"duration", time.Since(startTime))
	return g
}
