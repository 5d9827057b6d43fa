package analyzer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/engine/metrics"
	"github.com/archscope/typegraph/engine/patterns"
	"github.com/archscope/typegraph/engine/strength"
	"github.com/archscope/typegraph/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// service implements the Analyzer interface
type service struct {
	config *Config
}

// NewAnalyzer creates a new analyzer service
func NewAnalyzer(config *Config) Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	return &service{config: config}
}

// AnalyzeGraph runs the full analysis pipeline over a constructed graph
func (s *service) AnalyzeGraph(ctx context.Context, input *AnalysisInput) (*Report, error) {
	if input == nil || input.Graph == nil {
		return nil, core.NewError(
			fmt.Errorf("analysis input requires a graph"),
			core.ErrorCodeInvalidInput, nil)
	}
	startTime := time.Now()
	g := input.Graph
	logger.Info("starting graph analysis",
		"project_id", input.ProjectID,
		"nodes", g.NodeCount(),
		"dependencies", g.DependencyCount())

	cycles := s.FindCircularDependencies(ctx, g)
	cycleGroups := make([][]core.ID, 0, len(cycles))
	for _, cycle := range cycles {
		cycleGroups = append(cycleGroups, cycle.Cycle)
	}

	// Feed detected cycles back into a graph-derived context so the
	// coupling dimension sees them during scoring.
	if gctx, ok := input.Context.(*graph.Context); ok {
		gctx.MarkCyclic(cycleGroups)
	}

	levels := s.DependencyLevels(ctx, g)

	if err := s.scoreStrengths(ctx, g, input, levels); err != nil {
		return nil, fmt.Errorf("failed to score strengths: %w", err)
	}
	strength.ApplyAggregateBonuses(g)

	order, err := s.TopologicalOrder(ctx, g)
	if err != nil {
		return nil, err
	}

	classifier := patterns.NewClassifier(&patterns.Config{
		HighFanInThreshold: s.config.HighFanInThreshold,
		GodClassThreshold:  s.config.GodClassThreshold,
	})

	summary := metrics.NewAggregator().Aggregate(g, len(cycles))

	report := &Report{
		ID:              core.NewID(),
		ProjectID:       input.ProjectID,
		GeneratedAt:     time.Now(),
		Graph:           summary.Graph,
		Nodes:           summary.Nodes,
		Edges:           summary.Edges,
		Patterns:        classifier.DetectArchitecturalPatterns(g),
		AntiPatterns:    classifier.DetectAntiPatterns(g, cycleGroups),
		Cycles:          cycles,
		ProcessingOrder: order,
		Levels:          levels,
	}
	report.Duration = time.Since(startTime)

	logger.Info("graph analysis complete",
		"duration", report.Duration,
		"cycles", len(cycles),
		"anti_patterns", len(report.AntiPatterns))
	return report, nil
}

// scoreStrengths scores every edge, level by level. Nodes within a level
// share no edges, so their outgoing edges can be scored concurrently;
// level boundaries are the synchronization barriers.
func (s *service) scoreStrengths(
	ctx context.Context,
	g *graph.Graph,
	input *AnalysisInput,
	levels [][]core.ID,
) error {
	calc := strength.NewCalculator(input.Context, input.Detector)

	for _, level := range levels {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.config.MaxWorkers)
		for _, id := range level {
			id := id
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				for _, dep := range g.DependenciesOf(id) {
					calc.Score(g, dep)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
	}

	// Edges from dangling sources are not covered by any level
	for _, dep := range g.Dependencies() {
		if !g.HasNode(dep.SourceID) {
			calc.Score(g, dep)
		}
	}
	return nil
}

// FindCircularDependencies identifies dependency cycles with a white/gray/
// black DFS. Only the first cycle per DFS tree is reported; see
// CircularDependency for the documented limitation.
func (s *service) FindCircularDependencies(_ context.Context, g *graph.Graph) []*CircularDependency {
	cycleGroups := detectCycles(adjacency(g), sortedNodeIDs(g))

	cycles := make([]*CircularDependency, 0, len(cycleGroups))
	for _, cycle := range cycleGroups {
		cycles = append(cycles, &CircularDependency{
			Cycle:    cycle,
			Severity: cycleSeverity(len(cycle)),
		})
	}
	return cycles
}

// cycleSeverity grades a cycle by its length: tight cycles are worst
func cycleSeverity(length int) core.SeverityLevel {
	switch {
	case length <= 3:
		return core.SeverityHigh
	case length <= 5:
		return core.SeverityMedium
	default:
		return core.SeverityLow
	}
}

// TopologicalOrder returns an order where every dependency precedes its
// dependents, under the configured cycle handling policy.
func (s *service) TopologicalOrder(_ context.Context, g *graph.Graph) ([]core.ID, error) {
	adj := adjacency(g)
	roots := sortedNodeIDs(g)

	switch s.config.CycleHandling {
	case ThrowException:
		if cycles := detectCycles(adj, roots); len(cycles) > 0 {
			return nil, core.NewError(
				fmt.Errorf("graph contains %d dependency cycle(s)", len(cycles)),
				core.ErrorCodeCircularDependency,
				map[string]any{"first_cycle": cycles[0]})
		}
		return postOrder(adj, roots), nil
	case BreakCycles:
		for {
			cycles := detectCycles(adj, roots)
			if len(cycles) == 0 {
				break
			}
			// Remove the closing edge of each cycle: last node -> first node
			for _, cycle := range cycles {
				removeEdge(adj, cycle[len(cycle)-1], cycle[0])
			}
		}
		return postOrder(adj, roots), nil
	default: // IgnoreCycles and any unsupported mode
		return postOrder(adj, roots), nil
	}
}

// DependencyLevels peels nodes whose in-graph dependencies are all already
// leveled into successive waves. Level 0 has no in-scope dependencies.
// When a cycle leaves no peelable node, one node is forced into the current
// level to break the deadlock.
func (s *service) DependencyLevels(_ context.Context, g *graph.Graph) [][]core.ID {
	adj := adjacency(g)
	remaining := sortedNodeIDs(g)
	leveled := make(map[core.ID]bool, len(remaining))
	levels := make([][]core.ID, 0)

	for len(remaining) > 0 {
		current := make([]core.ID, 0)
		for _, id := range remaining {
			ready := true
			for _, dep := range adj[id] {
				if dep != id && !leveled[dep] {
					ready = false
					break
				}
			}
			if ready {
				current = append(current, id)
			}
		}
		if len(current) == 0 {
			// Cycle deadlock: force the first unleveled node
			current = append(current, remaining[0])
		}
		for _, id := range current {
			leveled[id] = true
		}
		next := remaining[:0]
		for _, id := range remaining {
			if !leveled[id] {
				next = append(next, id)
			}
		}
		remaining = next
		levels = append(levels, current)
	}
	return levels
}

// adjacency builds a "depends on" map over in-graph endpoints only;
// dangling edges are excluded from traversal.
func adjacency(g *graph.Graph) map[core.ID][]core.ID {
	adj := make(map[core.ID][]core.ID, g.NodeCount())
	for _, node := range g.Nodes() {
		seen := make(map[core.ID]bool)
		targets := make([]core.ID, 0)
		for _, dep := range g.DependenciesOf(node.ID) {
			if !seen[dep.TargetID] && g.HasNode(dep.TargetID) {
				seen[dep.TargetID] = true
				targets = append(targets, dep.TargetID)
			}
		}
		slices.Sort(targets)
		adj[node.ID] = targets
	}
	return adj
}

func sortedNodeIDs(g *graph.Graph) []core.ID {
	ids := make([]core.ID, 0, g.NodeCount())
	for _, node := range g.Nodes() {
		ids = append(ids, node.ID)
	}
	slices.Sort(ids)
	return ids
}

// detectCycles runs a white/gray/black DFS from each unvisited root and
// reports the path slice from the first occurrence of the revisited gray
// node to the top of the stack. At most one cycle per DFS tree.
func detectCycles(adj map[core.ID][]core.ID, roots []core.ID) [][]core.ID {
	var cycles [][]core.ID
	visited := make(map[core.ID]bool)
	inStack := make(map[core.ID]bool)
	path := []core.ID{}

	var visit func(node core.ID) bool
	visit = func(node core.ID) bool {
		visited[node] = true
		inStack[node] = true
		path = append(path, node)

		for _, next := range adj[node] {
			if !visited[next] {
				if visit(next) {
					return true
				}
			} else if inStack[next] {
				start := slices.Index(path, next)
				if start >= 0 {
					cycles = append(cycles, slices.Clone(path[start:]))
				}
				return true
			}
		}

		path = path[:len(path)-1]
		inStack[node] = false
		return false
	}

	for _, root := range roots {
		if !visited[root] {
			visit(root)
			// Reset the stack markers left behind by an aborted DFS
			for _, id := range path {
				inStack[id] = false
			}
			path = path[:0]
		}
	}
	return cycles
}

// postOrder appends each node after all of its dependencies, so every
// dependency precedes its dependents in the result.
func postOrder(adj map[core.ID][]core.ID, roots []core.ID) []core.ID {
	order := make([]core.ID, 0, len(roots))
	visited := make(map[core.ID]bool, len(roots))

	var visit func(node core.ID)
	visit = func(node core.ID) {
		if visited[node] {
			return
		}
		visited[node] = true
		for _, dep := range adj[node] {
			visit(dep)
		}
		order = append(order, node)
	}

	for _, root := range roots {
		visit(root)
	}
	return order
}

func removeEdge(adj map[core.ID][]core.ID, from, to core.ID) {
	targets := adj[from]
	for i, t := range targets {
		if t == to {
			adj[from] = append(targets[:i], targets[i+1:]...)
			return
		}
	}
}
