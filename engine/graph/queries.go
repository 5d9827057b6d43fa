package graph

import (
	"github.com/archscope/typegraph/engine/core"
)

// FanIn returns the number of edges pointing at id
func (g *Graph) FanIn(id core.ID) int {
	return len(g.dependentsByTarget[id])
}

// FanOut returns the number of edges originating at id
func (g *Graph) FanOut(id core.ID) int {
	return len(g.dependenciesBySource[id])
}

// HighFanInTypes returns all nodes with fan-in of at least threshold
func (g *Graph) HighFanInTypes(threshold int) []*core.TypeNode {
	result := make([]*core.TypeNode, 0)
	for id, node := range g.nodes {
		if g.FanIn(id) >= threshold {
			result = append(result, node)
		}
	}
	return result
}

// HighFanOutTypes returns all nodes with fan-out of at least threshold
func (g *Graph) HighFanOutTypes(threshold int) []*core.TypeNode {
	result := make([]*core.TypeNode, 0)
	for id, node := range g.nodes {
		if g.FanOut(id) >= threshold {
			result = append(result, node)
		}
	}
	return result
}

// meanFanInOut computes the mean fan-in and fan-out over all nodes. The
// means are recomputed on every stability query, not cached.
func (g *Graph) meanFanInOut() (meanIn, meanOut float64) {
	if len(g.nodes) == 0 {
		return 0, 0
	}
	totalIn, totalOut := 0, 0
	for id := range g.nodes {
		totalIn += g.FanIn(id)
		totalOut += g.FanOut(id)
	}
	n := float64(len(g.nodes))
	return float64(totalIn) / n, float64(totalOut) / n
}

// IsStable reports whether id is depended on more than average while
// depending on less than average.
func (g *Graph) IsStable(id core.ID) bool {
	if !g.HasNode(id) {
		return false
	}
	meanIn, meanOut := g.meanFanInOut()
	return float64(g.FanIn(id)) > meanIn && float64(g.FanOut(id)) < meanOut
}

// IsUnstable is the symmetric opposite of IsStable
func (g *Graph) IsUnstable(id core.ID) bool {
	if !g.HasNode(id) {
		return false
	}
	meanIn, meanOut := g.meanFanInOut()
	return float64(g.FanIn(id)) < meanIn && float64(g.FanOut(id)) > meanOut
}

// ImpactScope returns the closure of nodes reachable by repeatedly following
// dependents, including id itself: everything that may break if id changes.
// Edges whose source is not in the node set are skipped. Unknown ids yield
// an empty slice.
func (g *Graph) ImpactScope(id core.ID) []core.ID {
	return g.closure(id, func(n core.ID) []*core.TypeDependency {
		return g.dependentsByTarget[n]
	}, func(dep *core.TypeDependency) core.ID {
		return dep.SourceID
	})
}

// DependencyScope returns the closure of nodes id transitively relies on,
// including id itself.
func (g *Graph) DependencyScope(id core.ID) []core.ID {
	return g.closure(id, func(n core.ID) []*core.TypeDependency {
		return g.dependenciesBySource[n]
	}, func(dep *core.TypeDependency) core.ID {
		return dep.TargetID
	})
}

// ImpactScore returns the size of the impact scope of id
func (g *Graph) ImpactScore(id core.ID) int {
	return len(g.ImpactScope(id))
}

// DependencyScore returns the size of the dependency scope of id
func (g *Graph) DependencyScore(id core.ID) int {
	return len(g.DependencyScope(id))
}

// closure runs a visited-set DFS from id following the given edge accessor.
// Dangling endpoints are treated as unreachable.
func (g *Graph) closure(
	id core.ID,
	edgesOf func(core.ID) []*core.TypeDependency,
	nextOf func(*core.TypeDependency) core.ID,
) []core.ID {
	if !g.HasNode(id) {
		return []core.ID{}
	}
	visited := make(map[core.ID]bool)
	stack := []core.ID{id}
	result := make([]core.ID, 0)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		result = append(result, current)
		for _, dep := range edgesOf(current) {
			next := nextOf(dep)
			if !visited[next] && g.HasNode(next) {
				stack = append(stack, next)
			}
		}
	}
	return result
}
