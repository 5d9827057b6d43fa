package patterns

import (
	"fmt"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
)

// DetectedPattern is one architectural pattern occurrence. Patterns are
// non-exclusive; a type may appear in several.
type DetectedPattern struct {
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Severity    core.SeverityLevel `json:"severity"`
	NodeIDs     []core.ID          `json:"node_ids"`
}

// AntiPattern is one detected structural problem
type AntiPattern struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Severity    core.SeverityLevel     `json:"severity"`
	NodeIDs     []core.ID              `json:"node_ids,omitempty"`
	Edges       []*core.TypeDependency `json:"edges,omitempty"`
}

// Pattern and anti-pattern type names
const (
	PatternStableCore   = "StableCore"
	PatternUnstableLeaf = "UnstableLeaf"
	PatternHighFanIn    = "HighFanIn"

	AntiPatternHighRiskCoupling   = "HighRiskCoupling"
	AntiPatternTestingChallenge   = "TestingChallenge"
	AntiPatternWeakConnection     = "WeakConnection"
	AntiPatternGodClass           = "GodClass"
	AntiPatternDeadCode           = "DeadCode"
	AntiPatternCircularDependency = "CircularDependency"
)

// Config holds classifier thresholds
type Config struct {
	HighFanInThreshold int // Minimum fan-in for the HighFanIn pattern
	GodClassThreshold  int // Minimum fan-out for the GodClass anti-pattern
}

// DefaultConfig returns the default thresholds
func DefaultConfig() *Config {
	return &Config{
		HighFanInThreshold: 10,
		GodClassThreshold:  15,
	}
}

// Classifier evaluates pattern and anti-pattern rules over a graph
type Classifier struct {
	config *Config
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.HighFanInThreshold <= 0 {
		config.HighFanInThreshold = DefaultConfig().HighFanInThreshold
	}
	if config.GodClassThreshold <= 0 {
		config.GodClassThreshold = DefaultConfig().GodClassThreshold
	}
	return &Classifier{config: config}
}

// DetectArchitecturalPatterns evaluates each pattern rule independently
func (c *Classifier) DetectArchitecturalPatterns(g *graph.Graph) []DetectedPattern {
	detected := make([]DetectedPattern, 0)

	var stable, unstable, highFanIn []core.ID
	for _, node := range g.Nodes() {
		if g.IsStable(node.ID) {
			stable = append(stable, node.ID)
		}
		if g.IsUnstable(node.ID) {
			unstable = append(unstable, node.ID)
		}
		if g.FanIn(node.ID) >= c.config.HighFanInThreshold {
			highFanIn = append(highFanIn, node.ID)
		}
	}

	if len(stable) > 0 {
		detected = append(detected, DetectedPattern{
			Type:        PatternStableCore,
			Description: fmt.Sprintf("%d type(s) are widely depended on while depending on little", len(stable)),
			Severity:    core.SeverityLow,
			NodeIDs:     stable,
		})
	}
	if len(unstable) > 0 {
		detected = append(detected, DetectedPattern{
			Type:        PatternUnstableLeaf,
			Description: fmt.Sprintf("%d type(s) depend on much while little depends on them", len(unstable)),
			Severity:    core.SeverityLow,
			NodeIDs:     unstable,
		})
	}
	if len(highFanIn) > 0 {
		detected = append(detected, DetectedPattern{
			Type: PatternHighFanIn,
			Description: fmt.Sprintf("%d type(s) have fan-in of %d or more",
				len(highFanIn), c.config.HighFanInThreshold),
			Severity: core.SeverityMedium,
			NodeIDs:  highFanIn,
		})
	}
	return detected
}

// DetectAntiPatterns evaluates the anti-pattern rules: strength profile
// matches on edges, god classes, dead code, and circular dependency
// groups (one entry per cycle).
func (c *Classifier) DetectAntiPatterns(g *graph.Graph, cycles [][]core.ID) []AntiPattern {
	detected := make([]AntiPattern, 0)
	detected = append(detected, c.profileAntiPatterns(g)...)

	for _, node := range g.Nodes() {
		if g.FanOut(node.ID) >= c.config.GodClassThreshold {
			detected = append(detected, AntiPattern{
				Type: AntiPatternGodClass,
				Description: fmt.Sprintf("%s depends on %d other types",
					node.ID, g.FanOut(node.ID)),
				Severity: core.SeverityHigh,
				NodeIDs:  []core.ID{node.ID},
			})
		}
		if g.FanIn(node.ID) == 0 {
			detected = append(detected, AntiPattern{
				Type:        AntiPatternDeadCode,
				Description: fmt.Sprintf("nothing depends on %s", node.ID),
				Severity:    core.SeverityMedium,
				NodeIDs:     []core.ID{node.ID},
			})
		}
	}

	for _, cycle := range cycles {
		detected = append(detected, AntiPattern{
			Type:        AntiPatternCircularDependency,
			Description: fmt.Sprintf("dependency cycle through %d type(s)", len(cycle)),
			Severity:    core.SeverityHigh,
			NodeIDs:     cycle,
		})
	}
	return detected
}

// profileAntiPatterns groups scored edges by their strength profile
func (c *Classifier) profileAntiPatterns(g *graph.Graph) []AntiPattern {
	byProfile := make(map[core.StrengthProfile][]*core.TypeDependency)
	for _, dep := range g.Dependencies() {
		if dep.Advanced == nil {
			continue
		}
		switch dep.Advanced.Profile {
		case core.ProfileHighRiskCoupling, core.ProfileTestingChallenge, core.ProfileWeakConnection:
			byProfile[dep.Advanced.Profile] = append(byProfile[dep.Advanced.Profile], dep)
		}
	}

	result := make([]AntiPattern, 0, len(byProfile))
	for profile, severity := range map[core.StrengthProfile]core.SeverityLevel{
		core.ProfileHighRiskCoupling: core.SeverityHigh,
		core.ProfileTestingChallenge: core.SeverityMedium,
		core.ProfileWeakConnection:   core.SeverityLow,
	} {
		edges := byProfile[profile]
		if len(edges) == 0 {
			continue
		}
		result = append(result, AntiPattern{
			Type:        string(profile),
			Description: fmt.Sprintf("%d dependency edge(s) classified as %s", len(edges), profile),
			Severity:    severity,
			Edges:       edges,
		})
	}
	return result
}
