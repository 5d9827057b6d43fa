package paths

import (
	"container/heap"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
)

// Direction selects which relation a traversal follows
type Direction int

const (
	// DirectionDependencies follows "depends on" edges
	DirectionDependencies Direction = iota
	// DirectionDependents follows "is depended on by" edges
	DirectionDependents
)

// Finder answers path queries over a constructed graph. It performs no
// mutation and is safe for concurrent use after construction.
type Finder struct {
	graph *graph.Graph
}

// NewFinder creates a path finder over g
func NewFinder(g *graph.Graph) *Finder {
	return &Finder{graph: g}
}

// FindDependencyChain returns the shortest hop path from `from` to `to`
// over the dependency relation, or an empty slice if unreachable.
func (f *Finder) FindDependencyChain(from, to core.ID) []core.ID {
	return f.shortestPath(from, to, DirectionDependencies)
}

// ShortestPath returns the first BFS path between two nodes in the chosen
// direction, or an empty slice if none exists.
func (f *Finder) ShortestPath(from, to core.ID, direction Direction) []core.ID {
	return f.shortestPath(from, to, direction)
}

// DependencyDistance returns the hop count of the shortest dependency chain
// from `from` to `to`. The distance from a node to itself is 0; unreachable
// pairs yield -1.
func (f *Finder) DependencyDistance(from, to core.ID) int {
	path := f.shortestPath(from, to, DirectionDependencies)
	if len(path) == 0 {
		return -1
	}
	return len(path) - 1
}

func (f *Finder) shortestPath(from, to core.ID, direction Direction) []core.ID {
	if !f.graph.HasNode(from) || !f.graph.HasNode(to) {
		return []core.ID{}
	}
	if from == to {
		return []core.ID{from}
	}

	parent := map[core.ID]core.ID{from: from}
	queue := []core.ID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range f.neighbors(current, direction) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == to {
				return rebuildPath(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return []core.ID{}
}

// FindAllPaths enumerates every acyclic path between two nodes, branching
// over both directions from each node. maxDepth bounds the path length in
// nodes; a non-positive value means unbounded.
func (f *Finder) FindAllPaths(from, to core.ID, maxDepth int) [][]core.ID {
	if !f.graph.HasNode(from) || !f.graph.HasNode(to) {
		return [][]core.ID{}
	}
	results := make([][]core.ID, 0)
	onPath := map[core.ID]bool{from: true}
	path := []core.ID{from}

	var visit func(current core.ID)
	visit = func(current core.ID) {
		if current == to {
			results = append(results, append([]core.ID(nil), path...))
			return
		}
		if maxDepth > 0 && len(path) >= maxDepth {
			return
		}
		for _, next := range f.bothNeighbors(current) {
			if onPath[next] {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			visit(next)
			path = path[:len(path)-1]
			onPath[next] = false
		}
	}
	visit(from)
	return results
}

// StrongestPath returns the dependency path minimizing cumulative
// (1 - strength), favoring higher-strength edges. Ties are broken by
// discovery order. Empty if no path exists.
func (f *Finder) StrongestPath(from, to core.ID) []core.ID {
	if !f.graph.HasNode(from) || !f.graph.HasNode(to) {
		return []core.ID{}
	}
	if from == to {
		return []core.ID{from}
	}

	dist := map[core.ID]float64{from: 0}
	parent := map[core.ID]core.ID{from: from}
	done := make(map[core.ID]bool)

	pq := &costQueue{}
	heap.Init(pq)
	pq.push(from, 0)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*costItem)
		if done[current.id] {
			continue
		}
		done[current.id] = true
		if current.id == to {
			return rebuildPath(parent, from, to)
		}
		for _, dep := range f.graph.DependenciesOf(current.id) {
			next := dep.TargetID
			if !f.graph.HasNode(next) || done[next] {
				continue
			}
			cost := current.cost + (1 - core.Clamp01(dep.Strength))
			if known, seen := dist[next]; !seen || cost < known {
				dist[next] = cost
				parent[next] = current.id
				pq.push(next, cost)
			}
		}
	}
	return []core.ID{}
}

func (f *Finder) neighbors(id core.ID, direction Direction) []core.ID {
	var result []core.ID
	if direction == DirectionDependencies {
		for _, dep := range f.graph.DependenciesOf(id) {
			if f.graph.HasNode(dep.TargetID) {
				result = append(result, dep.TargetID)
			}
		}
	} else {
		for _, dep := range f.graph.DependentsOf(id) {
			if f.graph.HasNode(dep.SourceID) {
				result = append(result, dep.SourceID)
			}
		}
	}
	return result
}

func (f *Finder) bothNeighbors(id core.ID) []core.ID {
	return append(f.neighbors(id, DirectionDependencies), f.neighbors(id, DirectionDependents)...)
}

func rebuildPath(parent map[core.ID]core.ID, from, to core.ID) []core.ID {
	path := []core.ID{to}
	for current := to; current != from; {
		current = parent[current]
		path = append(path, current)
	}
	// Reverse into from -> to order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// costItem is a priority queue entry; seq preserves insertion order for
// equal costs.
type costItem struct {
	id   core.ID
	cost float64
	seq  int
}

type costQueue struct {
	items []*costItem
	next  int
}

func (q *costQueue) push(id core.ID, cost float64) {
	heap.Push(q, &costItem{id: id, cost: cost, seq: q.next})
	q.next++
}

func (q *costQueue) Len() int { return len(q.items) }

func (q *costQueue) Less(i, j int) bool {
	if q.items[i].cost == q.items[j].cost {
		return q.items[i].seq < q.items[j].seq
	}
	return q.items[i].cost < q.items[j].cost
}

func (q *costQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *costQueue) Push(x any) { q.items = append(q.items, x.(*costItem)) }

func (q *costQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}
