package graph

import (
	"sync"

	"github.com/archscope/typegraph/engine/core"
)

// Graph owns the nodes and edges of one codebase's type dependency graph.
//
// Every edge is a single *core.TypeDependency shared by four indexed
// locations: the forward index, the reverse index, and the two endpoint
// nodes' views. Mutating an edge's strength through any of them is visible
// through all, so the four-way consistency invariant has one source of
// truth accessed four ways.
//
// Construction is single-writer: all nodes first, then all edges. After
// construction the graph is safe for concurrent readers; the lazily built
// secondary cache is the only query-path write and is guarded by a mutex.
type Graph struct {
	nodes                map[core.ID]*core.TypeNode
	dependenciesBySource map[core.ID][]*core.TypeDependency
	dependentsByTarget   map[core.ID][]*core.TypeDependency

	// cache mirrors the two eager indexes for repeated lookups. nil means
	// not built; every mutation resets it to nil.
	cacheMu sync.Mutex
	cache   *bidirectionalIndex
}

type bidirectionalIndex struct {
	dependencies map[core.ID][]*core.TypeDependency
	dependents   map[core.ID][]*core.TypeDependency
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes:                make(map[core.ID]*core.TypeNode),
		dependenciesBySource: make(map[core.ID][]*core.TypeDependency),
		dependentsByTarget:   make(map[core.ID][]*core.TypeDependency),
	}
}

// AddNode inserts a node. Inserting an id that already exists is a no-op:
// first insertion wins and the original node's data is left unchanged.
func (g *Graph) AddNode(node *core.TypeNode) {
	if node == nil {
		return
	}
	if _, exists := g.nodes[node.ID]; exists {
		return
	}
	g.nodes[node.ID] = node
	g.invalidateCache()
}

// AddDependency appends an edge to the forward and reverse indexes and to
// both endpoint nodes' views, then invalidates the cache. Duplicate edges
// are always additive, never merged. Edges whose endpoints are not present
// in the node set are kept in the indexes but excluded from node views.
func (g *Graph) AddDependency(dep *core.TypeDependency) {
	if dep == nil {
		return
	}
	g.dependenciesBySource[dep.SourceID] = append(g.dependenciesBySource[dep.SourceID], dep)
	g.dependentsByTarget[dep.TargetID] = append(g.dependentsByTarget[dep.TargetID], dep)

	if source, ok := g.nodes[dep.SourceID]; ok {
		source.Dependencies = append(source.Dependencies, dep)
	}
	if target, ok := g.nodes[dep.TargetID]; ok {
		target.Dependents = append(target.Dependents, dep)
	}
	g.invalidateCache()
}

// GetNode returns the node for id, or nil if unknown
func (g *Graph) GetNode(id core.ID) *core.TypeNode {
	return g.nodes[id]
}

// HasNode reports whether id is present in the node set
func (g *Graph) HasNode(id core.ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes. Iteration order is unspecified.
func (g *Graph) Nodes() []*core.TypeNode {
	nodes := make([]*core.TypeNode, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// Dependencies returns every edge in the graph
func (g *Graph) Dependencies() []*core.TypeDependency {
	deps := make([]*core.TypeDependency, 0)
	for _, edges := range g.dependenciesBySource {
		deps = append(deps, edges...)
	}
	return deps
}

// DependenciesOf returns the edges where id is source. The result is never
// nil; unknown ids yield an empty slice.
func (g *Graph) DependenciesOf(id core.ID) []*core.TypeDependency {
	if deps, ok := g.dependenciesBySource[id]; ok {
		return deps
	}
	return []*core.TypeDependency{}
}

// DependentsOf returns the edges where id is target. The result is never
// nil; unknown ids yield an empty slice.
func (g *Graph) DependentsOf(id core.ID) []*core.TypeDependency {
	if deps, ok := g.dependentsByTarget[id]; ok {
		return deps
	}
	return []*core.TypeDependency{}
}

// HasDependency reports whether at least one edge exists from source to target
func (g *Graph) HasDependency(source, target core.ID) bool {
	for _, dep := range g.dependenciesBySource[source] {
		if dep.TargetID == target {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// DependencyCount returns the number of edges
func (g *Graph) DependencyCount() int {
	count := 0
	for _, edges := range g.dependenciesBySource {
		count += len(edges)
	}
	return count
}

// invalidateCache marks the secondary index as not built
func (g *Graph) invalidateCache() {
	g.cacheMu.Lock()
	g.cache = nil
	g.cacheMu.Unlock()
}

// BuildBidirectionalIndexes rebuilds the secondary cache from the eager
// forward and reverse indexes.
func (g *Graph) BuildBidirectionalIndexes() {
	g.cacheMu.Lock()
	g.cache = g.buildIndex()
	g.cacheMu.Unlock()
}

func (g *Graph) buildIndex() *bidirectionalIndex {
	idx := &bidirectionalIndex{
		dependencies: make(map[core.ID][]*core.TypeDependency, len(g.dependenciesBySource)),
		dependents:   make(map[core.ID][]*core.TypeDependency, len(g.dependentsByTarget)),
	}
	for id, edges := range g.dependenciesBySource {
		idx.dependencies[id] = append([]*core.TypeDependency(nil), edges...)
	}
	for id, edges := range g.dependentsByTarget {
		idx.dependents[id] = append([]*core.TypeDependency(nil), edges...)
	}
	return idx
}

// CachedDependenciesOf is the cache-backed variant of DependenciesOf. The
// cache is rebuilt lazily on the first lookup after a mutation.
func (g *Graph) CachedDependenciesOf(id core.ID) []*core.TypeDependency {
	idx := g.ensureIndex()
	if deps, ok := idx.dependencies[id]; ok {
		return deps
	}
	return []*core.TypeDependency{}
}

// CachedDependentsOf is the cache-backed variant of DependentsOf
func (g *Graph) CachedDependentsOf(id core.ID) []*core.TypeDependency {
	idx := g.ensureIndex()
	if deps, ok := idx.dependents[id]; ok {
		return deps
	}
	return []*core.TypeDependency{}
}

func (g *Graph) ensureIndex() *bidirectionalIndex {
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()
	if g.cache == nil {
		g.cache = g.buildIndex()
	}
	return g.cache
}
