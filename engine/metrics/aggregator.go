package metrics

import (
	"sort"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
)

// NodeMetrics is the per-node slice of the outward metrics contract
type NodeMetrics struct {
	ID              core.ID `json:"id"`
	FanIn           int     `json:"fan_in"`
	FanOut          int     `json:"fan_out"`
	Stable          bool    `json:"stable"`
	Unstable        bool    `json:"unstable"`
	ImpactScore     int     `json:"impact_score"`
	DependencyScore int     `json:"dependency_score"`
}

// EdgeMetrics is the per-edge slice of the outward metrics contract
type EdgeMetrics struct {
	SourceID        core.ID                   `json:"source_id"`
	TargetID        core.ID                   `json:"target_id"`
	Kind            core.DependencyKind       `json:"kind"`
	MemberName      string                    `json:"member_name,omitempty"`
	Weight          int                       `json:"weight"`
	Strength        float64                   `json:"strength"`
	Composite       float64                   `json:"composite"`
	Profile         core.StrengthProfile      `json:"profile,omitempty"`
	DetectedPattern core.ArchitecturalPattern `json:"detected_pattern,omitempty"`
}

// GraphMetrics holds graph-level aggregates
type GraphMetrics struct {
	TotalNodes               int                          `json:"total_nodes"`
	TotalDependencies        int                          `json:"total_dependencies"`
	AverageStrength          float64                      `json:"average_strength"`
	AverageFanIn             float64                      `json:"average_fan_in"`
	AverageFanOut            float64                      `json:"average_fan_out"`
	MaxFanIn                 int                          `json:"max_fan_in"`
	MaxFanInType             core.ID                      `json:"max_fan_in_type,omitempty"`
	MaxFanOut                int                          `json:"max_fan_out"`
	MaxFanOutType            core.ID                      `json:"max_fan_out_type,omitempty"`
	ProfileCounts            map[core.StrengthProfile]int `json:"profile_counts"`
	CrossProjectDependencies int                          `json:"cross_project_dependencies"`
	CycleCount               int                          `json:"cycle_count"`
}

// Summary bundles the three metric views of one graph
type Summary struct {
	Graph GraphMetrics  `json:"graph"`
	Nodes []NodeMetrics `json:"nodes"`
	Edges []EdgeMetrics `json:"edges"`
}

// Aggregator rolls up counts, averages and maxima across a graph
type Aggregator struct{}

// NewAggregator creates a metrics aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes the full metrics summary. cycleCount is supplied by
// the caller's cycle detection pass. Node metrics are sorted by id for
// deterministic output.
func (a *Aggregator) Aggregate(g *graph.Graph, cycleCount int) *Summary {
	summary := &Summary{
		Graph: GraphMetrics{
			TotalNodes:        g.NodeCount(),
			TotalDependencies: g.DependencyCount(),
			ProfileCounts:     make(map[core.StrengthProfile]int),
			CycleCount:        cycleCount,
		},
		Nodes: make([]NodeMetrics, 0, g.NodeCount()),
		Edges: make([]EdgeMetrics, 0, g.DependencyCount()),
	}

	a.aggregateNodes(g, summary)
	a.aggregateEdges(g, summary)
	return summary
}

func (a *Aggregator) aggregateNodes(g *graph.Graph, summary *Summary) {
	totalIn, totalOut := 0, 0
	for _, node := range g.Nodes() {
		fanIn := g.FanIn(node.ID)
		fanOut := g.FanOut(node.ID)
		totalIn += fanIn
		totalOut += fanOut

		if fanIn > summary.Graph.MaxFanIn {
			summary.Graph.MaxFanIn = fanIn
			summary.Graph.MaxFanInType = node.ID
		}
		if fanOut > summary.Graph.MaxFanOut {
			summary.Graph.MaxFanOut = fanOut
			summary.Graph.MaxFanOutType = node.ID
		}

		summary.Nodes = append(summary.Nodes, NodeMetrics{
			ID:              node.ID,
			FanIn:           fanIn,
			FanOut:          fanOut,
			Stable:          g.IsStable(node.ID),
			Unstable:        g.IsUnstable(node.ID),
			ImpactScore:     g.ImpactScore(node.ID),
			DependencyScore: g.DependencyScore(node.ID),
		})
	}
	if n := g.NodeCount(); n > 0 {
		summary.Graph.AverageFanIn = float64(totalIn) / float64(n)
		summary.Graph.AverageFanOut = float64(totalOut) / float64(n)
	}
	sort.Slice(summary.Nodes, func(i, j int) bool {
		return summary.Nodes[i].ID < summary.Nodes[j].ID
	})
}

func (a *Aggregator) aggregateEdges(g *graph.Graph, summary *Summary) {
	totalStrength := 0.0
	for _, dep := range g.Dependencies() {
		metric := EdgeMetrics{
			SourceID:   dep.SourceID,
			TargetID:   dep.TargetID,
			Kind:       dep.Kind,
			MemberName: dep.MemberName,
			Weight:     dep.Weight,
			Strength:   dep.Strength,
		}
		if dep.Advanced != nil {
			metric.Composite = dep.Advanced.Composite
			metric.Profile = dep.Advanced.Profile
			metric.DetectedPattern = dep.Advanced.DetectedPattern
			summary.Graph.ProfileCounts[dep.Advanced.Profile]++
		}
		totalStrength += dep.Strength

		source := g.GetNode(dep.SourceID)
		target := g.GetNode(dep.TargetID)
		if source != nil && target != nil && source.ProjectID != target.ProjectID {
			summary.Graph.CrossProjectDependencies++
		}
		summary.Edges = append(summary.Edges, metric)
	}
	if n := len(summary.Edges); n > 0 {
		summary.Graph.AverageStrength = totalStrength / float64(n)
	}
	sort.Slice(summary.Edges, func(i, j int) bool {
		if summary.Edges[i].SourceID != summary.Edges[j].SourceID {
			return summary.Edges[i].SourceID < summary.Edges[j].SourceID
		}
		return summary.Edges[i].TargetID < summary.Edges[j].TargetID
	})
}
