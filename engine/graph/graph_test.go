package graph_test

import (
	"testing"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, kind core.TypeKind) *core.TypeNode {
	return &core.TypeNode{
		ID:        core.ID(id),
		Name:      id,
		Namespace: "app",
		Kind:      kind,
	}
}

// buildUserGraph constructs the canonical 4-node layered graph used across
// the engine tests: a controller calling a service that uses a repository
// and a model.
func buildUserGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddNode(node("UserController", core.TypeKindClass))
	g.AddNode(node("UserService", core.TypeKindClass))
	g.AddNode(node("UserRepository", core.TypeKindClass))
	g.AddNode(node("UserModel", core.TypeKindClass))

	g.AddDependency(core.NewTypeDependency("UserController", "UserService", core.KindConstructor))
	g.AddDependency(core.NewTypeDependency("UserService", "UserRepository", core.KindConstructor))
	g.AddDependency(core.NewTypeDependency("UserService", "UserModel", core.KindProperty))
	g.AddDependency(core.NewTypeDependency("UserRepository", "UserModel", core.KindField))
	return g
}

func TestGraph_AddNode(t *testing.T) {
	t.Run("Should insert a node and report it present", func(t *testing.T) {
		g := graph.New()
		g.AddNode(node("A", core.TypeKindClass))

		assert.True(t, g.HasNode("A"))
		assert.Equal(t, 1, g.NodeCount())
		require.NotNil(t, g.GetNode("A"))
		assert.Equal(t, "A", g.GetNode("A").Name)
	})

	t.Run("Should treat duplicate insertion as a no-op keeping the original", func(t *testing.T) {
		g := graph.New()
		original := node("A", core.TypeKindClass)
		original.Namespace = "first"
		g.AddNode(original)

		duplicate := node("A", core.TypeKindInterface)
		duplicate.Namespace = "second"
		g.AddNode(duplicate)

		assert.Equal(t, 1, g.NodeCount())
		assert.Equal(t, "first", g.GetNode("A").Namespace)
		assert.Equal(t, core.TypeKindClass, g.GetNode("A").Kind)
	})

	t.Run("Should ignore nil nodes", func(t *testing.T) {
		g := graph.New()
		g.AddNode(nil)
		assert.Equal(t, 0, g.NodeCount())
	})
}

func TestGraph_AddDependency(t *testing.T) {
	t.Run("Should index one edge in all four locations", func(t *testing.T) {
		g := graph.New()
		g.AddNode(node("A", core.TypeKindClass))
		g.AddNode(node("B", core.TypeKindClass))

		dep := core.NewTypeDependency("A", "B", core.KindMethodCall)
		g.AddDependency(dep)

		forward := g.DependenciesOf("A")
		reverse := g.DependentsOf("B")
		require.Len(t, forward, 1)
		require.Len(t, reverse, 1)
		require.Len(t, g.GetNode("A").Dependencies, 1)
		require.Len(t, g.GetNode("B").Dependents, 1)

		// All four locations hold the same edge, not copies
		assert.Same(t, dep, forward[0])
		assert.Same(t, dep, reverse[0])
		assert.Same(t, dep, g.GetNode("A").Dependencies[0])
		assert.Same(t, dep, g.GetNode("B").Dependents[0])
	})

	t.Run("Should keep duplicate edges additive", func(t *testing.T) {
		g := graph.New()
		g.AddNode(node("A", core.TypeKindClass))
		g.AddNode(node("B", core.TypeKindClass))

		g.AddDependency(core.NewTypeDependency("A", "B", core.KindMethodCall))
		g.AddDependency(core.NewTypeDependency("A", "B", core.KindMethodCall))
		g.AddDependency(core.NewTypeDependency("A", "B", core.KindField))

		assert.Len(t, g.DependenciesOf("A"), 3)
		assert.Len(t, g.DependentsOf("B"), 3)
		assert.Equal(t, 3, g.DependencyCount())
		assert.Equal(t, 3, g.FanOut("A"))
		assert.Equal(t, 3, g.FanIn("B"))
	})

	t.Run("Should keep dangling edges in the indexes", func(t *testing.T) {
		g := graph.New()
		g.AddNode(node("A", core.TypeKindClass))

		g.AddDependency(core.NewTypeDependency("A", "Ghost", core.KindMethodCall))

		assert.Len(t, g.DependenciesOf("A"), 1)
		assert.Len(t, g.DependentsOf("Ghost"), 1)
		assert.Len(t, g.GetNode("A").Dependencies, 1)
		assert.False(t, g.HasNode("Ghost"))
	})

	t.Run("Should return empty non-nil slices for unknown ids", func(t *testing.T) {
		g := graph.New()

		deps := g.DependenciesOf("missing")
		dependents := g.DependentsOf("missing")
		assert.NotNil(t, deps)
		assert.NotNil(t, dependents)
		assert.Empty(t, deps)
		assert.Empty(t, dependents)
	})
}

func TestGraph_FanInFanOut(t *testing.T) {
	t.Run("Should compute fan-in and fan-out for the layered graph", func(t *testing.T) {
		g := buildUserGraph(t)

		assert.Equal(t, 2, g.FanOut("UserService"))
		assert.Equal(t, 1, g.FanIn("UserService"))
		assert.Equal(t, 2, g.FanIn("UserModel"))
		assert.Equal(t, 0, g.FanOut("UserModel"))
		assert.Equal(t, 1, g.FanOut("UserController"))
		assert.Equal(t, 0, g.FanIn("UserController"))
	})

	t.Run("Should filter high fan-in and fan-out types by threshold", func(t *testing.T) {
		g := buildUserGraph(t)

		highIn := g.HighFanInTypes(2)
		require.Len(t, highIn, 1)
		assert.Equal(t, core.ID("UserModel"), highIn[0].ID)

		highOut := g.HighFanOutTypes(2)
		require.Len(t, highOut, 1)
		assert.Equal(t, core.ID("UserService"), highOut[0].ID)
	})
}

func TestGraph_Stability(t *testing.T) {
	g := buildUserGraph(t)

	t.Run("Should mark the model stable", func(t *testing.T) {
		// mean fanIn = mean fanOut = 1; UserModel: fanIn 2 > 1, fanOut 0 < 1
		assert.True(t, g.IsStable("UserModel"))
		assert.False(t, g.IsUnstable("UserModel"))
	})

	t.Run("Should mark the service neither stable nor unstable", func(t *testing.T) {
		assert.False(t, g.IsStable("UserService"))
		assert.False(t, g.IsUnstable("UserService"))
	})

	t.Run("Should report false for unknown ids", func(t *testing.T) {
		assert.False(t, g.IsStable("missing"))
		assert.False(t, g.IsUnstable("missing"))
	})
}

func TestGraph_Scopes(t *testing.T) {
	g := buildUserGraph(t)

	t.Run("Should include all transitive dependents in the impact scope", func(t *testing.T) {
		scope := g.ImpactScope("UserModel")
		assert.Len(t, scope, 4)
		assert.Equal(t, 4, g.ImpactScore("UserModel"))
	})

	t.Run("Should include all transitive dependencies in the dependency scope", func(t *testing.T) {
		scope := g.DependencyScope("UserController")
		assert.Len(t, scope, 4)
		assert.Equal(t, 4, g.DependencyScore("UserController"))
	})

	t.Run("Should count only the node itself at the graph edges", func(t *testing.T) {
		assert.Equal(t, 1, g.ImpactScore("UserController"))
		assert.Equal(t, 1, g.DependencyScore("UserModel"))
	})

	t.Run("Should return empty scope for unknown ids", func(t *testing.T) {
		assert.Empty(t, g.ImpactScope("missing"))
	})

	t.Run("Should terminate on cyclic graphs", func(t *testing.T) {
		g := graph.New()
		g.AddNode(node("A", core.TypeKindClass))
		g.AddNode(node("B", core.TypeKindClass))
		g.AddDependency(core.NewTypeDependency("A", "B", core.KindMethodCall))
		g.AddDependency(core.NewTypeDependency("B", "A", core.KindMethodCall))

		assert.Len(t, g.ImpactScope("A"), 2)
		assert.Len(t, g.DependencyScope("A"), 2)
	})
}

func TestGraph_CachedLookups(t *testing.T) {
	t.Run("Should serve the same edges through the cache", func(t *testing.T) {
		g := buildUserGraph(t)
		g.BuildBidirectionalIndexes()

		assert.ElementsMatch(t, g.DependenciesOf("UserService"), g.CachedDependenciesOf("UserService"))
		assert.ElementsMatch(t, g.DependentsOf("UserModel"), g.CachedDependentsOf("UserModel"))
		assert.Empty(t, g.CachedDependenciesOf("missing"))
	})

	t.Run("Should rebuild lazily after a mutation invalidates the cache", func(t *testing.T) {
		g := buildUserGraph(t)
		g.BuildBidirectionalIndexes()

		g.AddDependency(core.NewTypeDependency("UserController", "UserModel", core.KindProperty))

		assert.Len(t, g.CachedDependenciesOf("UserController"), 2)
		assert.Len(t, g.CachedDependentsOf("UserModel"), 3)
	})
}

func TestBuildFromFacts(t *testing.T) {
	t.Run("Should build nodes then edges in two passes", func(t *testing.T) {
		nodes := []core.NodeFact{
			{ID: "A", SimpleName: "A", Namespace: "app", Kind: core.TypeKindClass},
			{ID: "B", SimpleName: "B", Namespace: "app", Kind: core.TypeKindInterface, IsAbstract: true},
		}
		edges := []core.EdgeFact{
			{SourceID: "A", TargetID: "B", Kind: core.KindInterface},
			{SourceID: "A", TargetID: "Missing", Kind: core.KindMethodCall},
		}

		g := graph.BuildFromFacts(nodes, edges)

		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 2, g.DependencyCount())
		assert.True(t, g.HasDependency("A", "B"))
		assert.True(t, g.GetNode("B").IsAbstract)

		// Edge weight and scalar strength come from the dependency kind
		dep := g.DependenciesOf("A")[0]
		assert.Equal(t, core.KindInterface.BaseWeight(), dep.Weight)
		assert.InDelta(t, float64(dep.Weight)/10.0, dep.Strength, 1e-9)
	})
}
