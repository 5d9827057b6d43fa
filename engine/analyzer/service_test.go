package analyzer_test

import (
	"context"
	"testing"

	"github.com/archscope/typegraph/engine/analyzer"
	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classNode(id string) *core.TypeNode {
	return &core.TypeNode{ID: core.ID(id), Name: id, Namespace: "app", Kind: core.TypeKindClass}
}

// layeredGraph is the controller -> service -> repository/model shape used
// across the engine tests.
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

func cyclicGraph(t *testing.T, ids ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		g.AddNode(classNode(id))
	}
	for i, id := range ids {
		next := ids[(i+1)%len(ids)]
		g.AddDependency(core.NewTypeDependency(core.ID(id), core.ID(next), core.KindMethodCall))
	}
	return g
}

func TestFindCircularDependencies(t *testing.T) {
	svc := analyzer.NewAnalyzer(nil)
	ctx := context.Background()

	t.Run("Should find no cycles in a layered graph", func(t *testing.T) {
		assert.Empty(t, svc.FindCircularDependencies(ctx, layeredGraph(t)))
	})

	t.Run("Should report a tight cycle with high severity", func(t *testing.T) {
		cycles := svc.FindCircularDependencies(ctx, cyclicGraph(t, "A", "B", "C"))

		require.Len(t, cycles, 1)
		assert.Equal(t, []core.ID{"A", "B", "C"}, cycles[0].Cycle)
		assert.Equal(t, core.SeverityHigh, cycles[0].Severity)
	})

	t.Run("Should grade longer cycles lower", func(t *testing.T) {
		cycles := svc.FindCircularDependencies(ctx, cyclicGraph(t, "A", "B", "C", "D"))
		require.Len(t, cycles, 1)
		assert.Equal(t, core.SeverityMedium, cycles[0].Severity)

		cycles = svc.FindCircularDependencies(ctx, cyclicGraph(t, "A", "B", "C", "D", "E", "F"))
		require.Len(t, cycles, 1)
		assert.Equal(t, core.SeverityLow, cycles[0].Severity)
	})
}

func TestTopologicalOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Should place every dependency before its dependents", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(nil)
		g := layeredGraph(t)

		order, err := svc.TopologicalOrder(ctx, g)

		require.NoError(t, err)
		assert.Equal(t, []core.ID{"UserModel", "UserRepository", "UserService", "UserController"}, order)
	})

	t.Run("Should fail on cycles in throw mode", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(&analyzer.Config{CycleHandling: analyzer.ThrowException, MaxWorkers: 1})

		_, err := svc.TopologicalOrder(ctx, cyclicGraph(t, "A", "B", "C"))

		require.Error(t, err)
		var coreErr *core.Error
		require.ErrorAs(t, err, &coreErr)
		assert.Equal(t, core.ErrorCodeCircularDependency, coreErr.Code)
	})

	t.Run("Should order all nodes in break mode despite cycles", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(&analyzer.Config{CycleHandling: analyzer.BreakCycles, MaxWorkers: 1})

		order, err := svc.TopologicalOrder(ctx, cyclicGraph(t, "A", "B", "C"))

		require.NoError(t, err)
		assert.ElementsMatch(t, []core.ID{"A", "B", "C"}, order)
	})

	t.Run("Should return a best-effort order in ignore mode", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(&analyzer.Config{CycleHandling: analyzer.IgnoreCycles, MaxWorkers: 1})

		order, err := svc.TopologicalOrder(ctx, cyclicGraph(t, "A", "B", "C"))

		require.NoError(t, err)
		assert.ElementsMatch(t, []core.ID{"A", "B", "C"}, order)
	})
}

func TestParseCycleHandling(t *testing.T) {
	assert.Equal(t, analyzer.ThrowException, analyzer.ParseCycleHandling("throw"))
	assert.Equal(t, analyzer.BreakCycles, analyzer.ParseCycleHandling("break"))
	assert.Equal(t, analyzer.IgnoreCycles, analyzer.ParseCycleHandling("ignore"))
	assert.Equal(t, analyzer.IgnoreCycles, analyzer.ParseCycleHandling("shrug"))
}

func TestDependencyLevels(t *testing.T) {
	svc := analyzer.NewAnalyzer(nil)
	ctx := context.Background()

	t.Run("Should peel the layered graph into single-node waves", func(t *testing.T) {
		levels := svc.DependencyLevels(ctx, layeredGraph(t))

		assert.Equal(t, [][]core.ID{
			{"UserModel"},
			{"UserRepository"},
			{"UserService"},
			{"UserController"},
		}, levels)
	})

	t.Run("Should group independent nodes into one wave", func(t *testing.T) {
		g := graph.New()
		g.AddNode(classNode("A"))
		g.AddNode(classNode("B"))
		g.AddNode(classNode("C"))
		g.AddDependency(core.NewTypeDependency("C", "A", core.KindMethodCall))
		g.AddDependency(core.NewTypeDependency("C", "B", core.KindMethodCall))

		levels := svc.DependencyLevels(ctx, g)

		assert.Equal(t, [][]core.ID{{"A", "B"}, {"C"}}, levels)
	})

	t.Run("Should force a node out of a cycle deadlock", func(t *testing.T) {
		levels := svc.DependencyLevels(ctx, cyclicGraph(t, "A", "B"))

		assert.Equal(t, [][]core.ID{{"A"}, {"B"}}, levels)
	})

	t.Run("Should ignore self references", func(t *testing.T) {
		g := graph.New()
		g.AddNode(classNode("A"))
		g.AddDependency(core.NewTypeDependency("A", "A", core.KindMethodCall))

		levels := svc.DependencyLevels(ctx, g)

		assert.Equal(t, [][]core.ID{{"A"}}, levels)
	})
}

func TestAnalyzeGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject missing input", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(nil)

		_, err := svc.AnalyzeGraph(ctx, nil)
		require.Error(t, err)

		_, err = svc.AnalyzeGraph(ctx, &analyzer.AnalysisInput{ProjectID: "demo"})
		require.Error(t, err)
		var coreErr *core.Error
		require.ErrorAs(t, err, &coreErr)
		assert.Equal(t, core.ErrorCodeInvalidInput, coreErr.Code)
	})

	t.Run("Should produce a fully scored report", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(nil)
		g := layeredGraph(t)
		input := &analyzer.AnalysisInput{
			ProjectID: "demo",
			Graph:     g,
			Context:   graph.NewContext(g, nil),
		}

		report, err := svc.AnalyzeGraph(ctx, input)

		require.NoError(t, err)
		assert.NotEmpty(t, report.ID)
		assert.Equal(t, "demo", report.ProjectID)
		assert.Equal(t, 4, report.Graph.TotalNodes)
		assert.Equal(t, 4, report.Graph.TotalDependencies)
		assert.Empty(t, report.Cycles)
		assert.Len(t, report.ProcessingOrder, 4)
		assert.Len(t, report.Levels, 4)
		assert.Len(t, report.Edges, 4)

		for _, dep := range g.Dependencies() {
			require.NotNil(t, dep.Advanced, "%s -> %s", dep.SourceID, dep.TargetID)
			assert.Greater(t, dep.Strength, 0.0)
			assert.LessOrEqual(t, dep.Strength, 1.0)
			assert.NotEmpty(t, dep.Advanced.Profile)
		}
	})

	t.Run("Should mark detected cycles in the context before scoring", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(nil)
		g := cyclicGraph(t, "A", "B", "C")
		gctx := graph.NewContext(g, nil)
		input := &analyzer.AnalysisInput{ProjectID: "demo", Graph: g, Context: gctx}

		report, err := svc.AnalyzeGraph(ctx, input)

		require.NoError(t, err)
		require.Len(t, report.Cycles, 1)
		assert.Equal(t, 1, report.Graph.CycleCount)
		assert.True(t, gctx.IsCyclic("A"))
		assert.True(t, gctx.IsCyclic("B"))
		assert.True(t, gctx.IsCyclic("C"))
	})

	t.Run("Should score edges from dangling sources", func(t *testing.T) {
		svc := analyzer.NewAnalyzer(nil)
		g := graph.New()
		g.AddNode(classNode("A"))
		dangling := core.NewTypeDependency("Ghost", "A", core.KindMethodCall)
		g.AddDependency(dangling)

		_, err := svc.AnalyzeGraph(ctx, &analyzer.AnalysisInput{
			ProjectID: "demo",
			Graph:     g,
			Context:   graph.NewContext(g, nil),
		})

		require.NoError(t, err)
		assert.NotNil(t, dangling.Advanced)
	})
}
