package analyzer

import (
	"context"
	"time"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/engine/metrics"
	"github.com/archscope/typegraph/engine/patterns"
	"github.com/archscope/typegraph/engine/strength"
)

// Analyzer defines the contract for graph analysis operations
type Analyzer interface {
	// AnalyzeGraph runs the full pipeline: cycle detection, strength
	// scoring, aggregate bonuses, pattern classification and metrics
	AnalyzeGraph(ctx context.Context, input *AnalysisInput) (*Report, error)

	// FindCircularDependencies detects dependency cycles
	FindCircularDependencies(ctx context.Context, g *graph.Graph) []*CircularDependency

	// TopologicalOrder returns a dependency-first processing order
	TopologicalOrder(ctx context.Context, g *graph.Graph) ([]core.ID, error)

	// DependencyLevels groups nodes into waves safe to process in parallel
	DependencyLevels(ctx context.Context, g *graph.Graph) [][]core.ID
}

// CycleHandling selects how topological ordering treats cycles
type CycleHandling string

const (
	// ThrowException fails the ordering on any cycle
	ThrowException CycleHandling = "throw"
	// BreakCycles removes the closing edge of each detected cycle and
	// re-runs the sort
	BreakCycles CycleHandling = "break"
	// IgnoreCycles accepts the partial order from a single DFS pass
	IgnoreCycles CycleHandling = "ignore"
)

// ParseCycleHandling parses a configured mode. Unsupported values fall back
// to IgnoreCycles rather than failing.
func ParseCycleHandling(s string) CycleHandling {
	switch CycleHandling(s) {
	case ThrowException, BreakCycles, IgnoreCycles:
		return CycleHandling(s)
	default:
		return IgnoreCycles
	}
}

// Config holds analyzer configuration
type Config struct {
	CycleHandling      CycleHandling // How topological ordering treats cycles
	HighFanInThreshold int           // Fan-in threshold for the HighFanIn pattern
	GodClassThreshold  int           // Fan-out threshold for the GodClass anti-pattern
	MaxWorkers         int           // Concurrent workers for per-level scoring
}

// DefaultConfig returns default analyzer configuration
func DefaultConfig() *Config {
	return &Config{
		CycleHandling:      BreakCycles,
		HighFanInThreshold: 10,
		GodClassThreshold:  15,
		MaxWorkers:         4,
	}
}

// AnalysisInput contains the input data for one analysis run
type AnalysisInput struct {
	ProjectID string                    // Project identifier
	Graph     *graph.Graph              // Constructed dependency graph
	Context   core.ArchitecturalContext // Architectural context collaborator
	Detector  strength.PatternDetector  // Optional weight profile pattern detector
}

// CircularDependency represents one detected cycle group.
//
// Detection reports the first cycle found per DFS tree: a node may belong
// to an overlapping cycle that is never reported because another cycle
// through it was found first. This is a documented limitation, not a bug.
type CircularDependency struct {
	Cycle    []core.ID          `json:"cycle"`
	Severity core.SeverityLevel `json:"severity"`
}

// Report contains the full analysis results
type Report struct {
	ID              core.ID                    `json:"id"`
	ProjectID       string                     `json:"project_id"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	Duration        time.Duration              `json:"duration"`
	Graph           metrics.GraphMetrics       `json:"graph"`
	Nodes           []metrics.NodeMetrics      `json:"nodes"`
	Edges           []metrics.EdgeMetrics      `json:"edges"`
	Patterns        []patterns.DetectedPattern `json:"patterns"`
	AntiPatterns    []patterns.AntiPattern     `json:"anti_patterns"`
	Cycles          []*CircularDependency      `json:"cycles"`
	ProcessingOrder []core.ID                  `json:"processing_order"`
	Levels          [][]core.ID                `json:"levels"`
}
