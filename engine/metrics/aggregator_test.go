package metrics_test

import (
	"testing"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/engine/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classNode(id string) *core.TypeNode {
	return &core.TypeNode{ID: core.ID(id), Name: id, Namespace: "app", Kind: core.TypeKindClass}
}

func layeredGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"UserController", "UserService", "UserRepository", "UserModel"} {
		g.AddNode(classNode(id))
	}
	g.AddDependency(core.NewTypeDependency("UserController", "UserService", core.KindConstructor))
	g.AddDependency(core.NewTypeDependency("UserService", "UserRepository", core.KindConstructor))
	g.AddDependency(core.NewTypeDependency("UserService", "UserModel", core.KindProperty))
	g.AddDependency(core.NewTypeDependency("UserRepository", "UserModel", core.KindField))
	return g
}

func TestAggregate(t *testing.T) {
	t.Run("Should compute graph-level totals and maxima", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(layeredGraph(t), 0)

		assert.Equal(t, 4, summary.Graph.TotalNodes)
		assert.Equal(t, 4, summary.Graph.TotalDependencies)
		assert.InDelta(t, 1.0, summary.Graph.AverageFanIn, 1e-9)
		assert.InDelta(t, 1.0, summary.Graph.AverageFanOut, 1e-9)
		assert.Equal(t, 2, summary.Graph.MaxFanIn)
		assert.Equal(t, core.ID("UserModel"), summary.Graph.MaxFanInType)
		assert.Equal(t, 2, summary.Graph.MaxFanOut)
		assert.Equal(t, core.ID("UserService"), summary.Graph.MaxFanOutType)
		assert.Equal(t, 0, summary.Graph.CycleCount)
	})

	t.Run("Should sort node metrics by id", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(layeredGraph(t), 0)

		require.Len(t, summary.Nodes, 4)
		assert.Equal(t, core.ID("UserController"), summary.Nodes[0].ID)
		assert.Equal(t, core.ID("UserModel"), summary.Nodes[1].ID)
		assert.Equal(t, core.ID("UserRepository"), summary.Nodes[2].ID)
		assert.Equal(t, core.ID("UserService"), summary.Nodes[3].ID)

		model := summary.Nodes[1]
		assert.Equal(t, 2, model.FanIn)
		assert.Equal(t, 0, model.FanOut)
		assert.True(t, model.Stable)
		assert.False(t, model.Unstable)
		assert.Equal(t, 4, model.ImpactScore)
		assert.Equal(t, 1, model.DependencyScore)

		controller := summary.Nodes[0]
		assert.Equal(t, 1, controller.ImpactScore)
		assert.Equal(t, 4, controller.DependencyScore)
	})

	t.Run("Should sort edge metrics by source then target", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(layeredGraph(t), 0)

		require.Len(t, summary.Edges, 4)
		assert.Equal(t, core.ID("UserController"), summary.Edges[0].SourceID)
		assert.Equal(t, core.ID("UserRepository"), summary.Edges[1].SourceID)
		assert.Equal(t, core.ID("UserService"), summary.Edges[2].SourceID)
		assert.Equal(t, core.ID("UserModel"), summary.Edges[2].TargetID)
		assert.Equal(t, core.ID("UserService"), summary.Edges[3].SourceID)
		assert.Equal(t, core.ID("UserRepository"), summary.Edges[3].TargetID)

		constructor := summary.Edges[0]
		assert.Equal(t, core.KindConstructor, constructor.Kind)
		assert.Equal(t, 8, constructor.Weight)
		assert.InDelta(t, 0.8, constructor.Strength, 1e-9)
	})

	t.Run("Should average scalar strengths across edges", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(layeredGraph(t), 0)

		// kinds weigh 8, 8, 6 and 7; scalar strength is weight/10
		assert.InDelta(t, (0.8+0.8+0.6+0.7)/4.0, summary.Graph.AverageStrength, 1e-9)
	})

	t.Run("Should count profiles only on scored edges", func(t *testing.T) {
		g := layeredGraph(t)
		deps := g.Dependencies()
		deps[0].Advanced = &core.AdvancedStrength{Composite: 0.7, Profile: core.ProfileBalanced}
		deps[1].Advanced = &core.AdvancedStrength{Composite: 0.9, Profile: core.ProfileHighQualityCore}

		summary := metrics.NewAggregator().Aggregate(g, 0)

		assert.Equal(t, 1, summary.Graph.ProfileCounts[core.ProfileBalanced])
		assert.Equal(t, 1, summary.Graph.ProfileCounts[core.ProfileHighQualityCore])
		assert.Equal(t, 0, summary.Graph.ProfileCounts[core.ProfileWeakConnection])
	})

	t.Run("Should count cross-project edges", func(t *testing.T) {
		g := graph.New()
		local := classNode("Local")
		local.ProjectID = "app"
		remote := classNode("Remote")
		remote.ProjectID = "shared"
		g.AddNode(local)
		g.AddNode(remote)
		g.AddDependency(core.NewTypeDependency("Local", "Remote", core.KindMethodCall))

		summary := metrics.NewAggregator().Aggregate(g, 0)

		assert.Equal(t, 1, summary.Graph.CrossProjectDependencies)
	})

	t.Run("Should carry the supplied cycle count", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(layeredGraph(t), 3)
		assert.Equal(t, 3, summary.Graph.CycleCount)
	})

	t.Run("Should handle an empty graph", func(t *testing.T) {
		summary := metrics.NewAggregator().Aggregate(graph.New(), 0)

		assert.Equal(t, 0, summary.Graph.TotalNodes)
		assert.Zero(t, summary.Graph.AverageStrength)
		assert.Empty(t, summary.Nodes)
		assert.Empty(t, summary.Edges)
	})
}
