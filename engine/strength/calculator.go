package strength

import (
	"strings"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
)

// PatternDetector selects the architectural pattern that drives weight
// profile selection for one edge. It is injectable so the calculator stays
// testable independent of pattern detection rules.
type PatternDetector interface {
	DetectPattern(
		dep *core.TypeDependency,
		source, target *core.TypeNode,
		ctx core.ArchitecturalContext,
	) core.ArchitecturalPattern
}

// ContextPatternDetector resolves the pattern from the architectural
// context: the target's pattern wins, then the source's.
type ContextPatternDetector struct{}

// DetectPattern implements PatternDetector
func (ContextPatternDetector) DetectPattern(
	dep *core.TypeDependency,
	_, _ *core.TypeNode,
	ctx core.ArchitecturalContext,
) core.ArchitecturalPattern {
	if p := ctx.Pattern(dep.TargetID); p != core.PatternUnknown {
		return p
	}
	return ctx.Pattern(dep.SourceID)
}

// Calculator scores edges across the six strength dimensions
type Calculator struct {
	ctx      core.ArchitecturalContext
	detector PatternDetector
}

// NewCalculator creates a calculator. A nil detector falls back to the
// context-based default.
func NewCalculator(ctx core.ArchitecturalContext, detector PatternDetector) *Calculator {
	if detector == nil {
		detector = ContextPatternDetector{}
	}
	return &Calculator{ctx: ctx, detector: detector}
}

// Score computes the six dimensions, the composite, and the profile for one
// edge, attaches the result to the edge, and overwrites the edge's scalar
// strength with the composite. The graph is consulted for endpoint metadata
// and reverse edge detection; dangling endpoints score against zero-value
// metadata.
func (c *Calculator) Score(g *graph.Graph, dep *core.TypeDependency) *core.AdvancedStrength {
	source := g.GetNode(dep.SourceID)
	target := g.GetNode(dep.TargetID)
	if source == nil {
		source = &core.TypeNode{ID: dep.SourceID}
	}
	if target == nil {
		target = &core.TypeNode{ID: dep.TargetID}
	}

	hasReverse := g.HasDependency(dep.TargetID, dep.SourceID)

	advanced := &core.AdvancedStrength{
		Structural:  c.structuralScore(dep, source, target),
		Semantic:    c.semanticScore(dep, source, target),
		Coupling:    c.couplingScore(dep, hasReverse),
		Stability:   c.stabilityScore(dep, source, target),
		Criticality: c.criticalityScore(dep),
		Testability: c.testabilityScore(dep, target),
	}
	advanced.DetectedPattern = c.detector.DetectPattern(dep, source, target, c.ctx)
	advanced.Composite = core.WeightProfileFor(advanced.DetectedPattern).Composite(advanced)
	advanced.Profile = advanced.Classify()

	dep.Advanced = advanced
	dep.Strength = advanced.Composite
	return advanced
}

// structuralScore scales the base weight by role, pattern, layer and
// direction multipliers, with fixed bonuses for interface and constructor
// edges.
func (c *Calculator) structuralScore(dep *core.TypeDependency, source, target *core.TypeNode) float64 {
	score := float64(dep.Weight) / 10.0
	score *= c.roleMultiplier(source.ID, target.ID)
	score *= c.patternMultiplier(target.ID)
	score *= c.layerMultiplier(source.ID, target.ID)
	score *= c.directionMultiplier(source.ID, target.ID)

	switch dep.Kind {
	case core.KindInterface:
		score += 0.2
	case core.KindConstructor:
		score += 0.15
	}
	return core.Clamp01(score)
}

// roleMultiplier boosts edges into a domain core type, boosts edges from one
// less, and damps edges into infrastructure.
func (c *Calculator) roleMultiplier(sourceID, targetID core.ID) float64 {
	multiplier := 1.0
	if c.ctx.Pattern(targetID) == core.PatternDomainCore {
		multiplier *= 1.3
	} else if c.ctx.Pattern(sourceID) == core.PatternDomainCore {
		multiplier *= 1.2
	}
	if c.ctx.Pattern(targetID) == core.PatternInfrastructure {
		multiplier *= 0.8
	}
	return multiplier
}

// patternMultiplier rewards dependencies on creational and strategy
// patterns and penalizes singleton targets.
func (c *Calculator) patternMultiplier(targetID core.ID) float64 {
	switch c.ctx.Pattern(targetID) {
	case core.PatternFactory:
		return 1.2
	case core.PatternRepository:
		return 1.15
	case core.PatternStrategy:
		return 1.1
	case core.PatternSingleton:
		return 0.7
	default:
		return 1.0
	}
}

// layerRank orders layers outer to inner; lower rank is more outer
func layerRank(layer core.ArchitecturalLayer) int {
	switch layer {
	case core.LayerPresentation:
		return 0
	case core.LayerInfrastructure:
		return 1
	case core.LayerApplication:
		return 2
	case core.LayerDomain:
		return 3
	default:
		return -1
	}
}

// layerMultiplier boosts edges following the conventional outer-to-inner
// layering order and damps violations.
func (c *Calculator) layerMultiplier(sourceID, targetID core.ID) float64 {
	sourceRank := layerRank(c.ctx.Layer(sourceID))
	targetRank := layerRank(c.ctx.Layer(targetID))
	if sourceRank < 0 || targetRank < 0 {
		return 1.0
	}
	if sourceRank < targetRank {
		return 1.2
	}
	if sourceRank > targetRank {
		return 0.6
	}
	return 1.0
}

// directionMultiplier further damps edges leaving the domain layer outward
func (c *Calculator) directionMultiplier(sourceID, targetID core.ID) float64 {
	if c.ctx.Layer(sourceID) != core.LayerDomain {
		return 1.0
	}
	switch c.ctx.Layer(targetID) {
	case core.LayerPresentation:
		return 0.5
	case core.LayerApplication:
		return 0.7
	default:
		return 1.0
	}
}

// semanticScore averages purpose, cohesion, abstraction level and code
// intent sub-scores.
func (c *Calculator) semanticScore(dep *core.TypeDependency, source, target *core.TypeNode) float64 {
	sum := purposeScore(dep) +
		cohesionScore(source, target) +
		abstractionScore(target) +
		c.intentScore(source.ID, target.ID)
	return core.Clamp01(sum / 4.0)
}

func purposeScore(dep *core.TypeDependency) float64 {
	if name := strings.ToLower(dep.MemberName); name != "" {
		switch {
		case strings.Contains(name, "execute") ||
			strings.Contains(name, "process") ||
			strings.Contains(name, "handle"):
			return 0.9
		case strings.Contains(name, "helper") ||
			strings.Contains(name, "util") ||
			strings.Contains(name, "convert"):
			return 0.3
		case strings.Contains(name, "get") ||
			strings.Contains(name, "set") ||
			strings.Contains(name, "save") ||
			strings.Contains(name, "delete"):
			return 0.5
		}
	}
	switch dep.Kind {
	case core.KindInheritance, core.KindInterface:
		return 0.9
	case core.KindConstructor, core.KindField, core.KindProperty:
		return 0.7
	case core.KindMethod, core.KindMethodCall, core.KindEvent, core.KindDelegate:
		return 0.6
	case core.KindUsingDirective, core.KindNamespaceReference:
		return 0.2
	default:
		return 0.4
	}
}

func cohesionScore(source, target *core.TypeNode) float64 {
	if source.Namespace == "" || target.Namespace == "" {
		return 0.3
	}
	if source.Namespace == target.Namespace {
		return 0.9
	}
	if strings.HasPrefix(source.Namespace, target.Namespace) ||
		strings.HasPrefix(target.Namespace, source.Namespace) {
		return 0.6
	}
	return 0.3
}

// abstractionScore rewards depending on abstractions over concretions
func abstractionScore(target *core.TypeNode) float64 {
	switch {
	case target.Kind == core.TypeKindInterface:
		return 1.0
	case target.IsAbstract:
		return 0.8
	case target.IsSealed:
		return 0.3
	default:
		return 0.5
	}
}

func (c *Calculator) intentScore(sourceID, targetID core.ID) float64 {
	sourcePattern := c.ctx.Pattern(sourceID)
	targetPattern := c.ctx.Pattern(targetID)
	switch {
	case sourcePattern == core.PatternRepository && targetPattern == core.PatternDomainCore:
		return 0.95
	case sourcePattern == core.PatternApplicationService && targetPattern == core.PatternRepository:
		return 0.9
	default:
		return 0.5
	}
}

// couplingScore measures the combined coupling of the two endpoints. A zero
// total floors at 0.1 to distinguish "unmeasured" from "truly decoupled".
func (c *Calculator) couplingScore(dep *core.TypeDependency, hasReverse bool) float64 {
	total := c.ctx.AfferentCoupling(dep.TargetID) + c.ctx.EfferentCoupling(dep.TargetID)
	var score float64
	if total == 0 {
		score = 0.1
	} else {
		score = min(1.0, float64(total)/20.0)
	}
	if hasReverse {
		score += 0.2
	}
	if c.ctx.IsCyclic(dep.SourceID) || c.ctx.IsCyclic(dep.TargetID) {
		score *= 1.3
	}
	return core.Clamp01(score)
}

// stabilityScore averages a kind score with the target's abstraction
// stability, minus a change-frequency volatility penalty, floored at 0.1.
func (c *Calculator) stabilityScore(dep *core.TypeDependency, source, target *core.TypeNode) float64 {
	kindScore := 0.5
	if dep.Kind == core.KindInterface {
		kindScore = 0.9
	}
	abstractionStability := abstractionScore(target)
	score := (kindScore + abstractionStability) / 2.0

	avgChange := (c.ctx.ChangeFrequency(source.ID) + c.ctx.ChangeFrequency(target.ID)) / 2.0
	score -= min(0.5, avgChange*0.2)
	if score < 0.1 {
		score = 0.1
	}
	return core.Clamp01(score)
}

// criticalityScore averages execution path, business logic, failure impact
// and performance impact sub-scores.
func (c *Calculator) criticalityScore(dep *core.TypeDependency) float64 {
	executionPath := 0.4
	switch {
	case c.hasPattern(dep, core.PatternDomainCore):
		executionPath = 0.9
	case c.hasPattern(dep, core.PatternApplicationService):
		executionPath = 0.7
	case c.hasPattern(dep, core.PatternInfrastructure):
		executionPath = 0.5
	}

	businessLogic := 0.4
	if c.ctx.Pattern(dep.TargetID) == core.PatternDomainCore {
		businessLogic = 0.95
	} else if c.ctx.Pattern(dep.SourceID) == core.PatternDomainCore {
		businessLogic = 0.8
	}

	failureImpact := 0.4
	switch dep.Kind {
	case core.KindConstructor:
		failureImpact = 0.8
	case core.KindInterface, core.KindInheritance:
		failureImpact = 0.7
	}

	performanceImpact := 0.3
	switch dep.Kind {
	case core.KindMethod, core.KindMethodCall, core.KindProperty, core.KindPropertyAccess:
		performanceImpact = 0.6
	}

	return core.Clamp01((executionPath + businessLogic + failureImpact + performanceImpact) / 4.0)
}

func (c *Calculator) hasPattern(dep *core.TypeDependency, pattern core.ArchitecturalPattern) bool {
	return c.ctx.Pattern(dep.SourceID) == pattern || c.ctx.Pattern(dep.TargetID) == pattern
}

// testabilityScore averages mockability, inverse test complexity and
// inverse isolation difficulty.
func (c *Calculator) testabilityScore(dep *core.TypeDependency, target *core.TypeNode) float64 {
	mockability := 0.6
	switch {
	case target.Kind == core.TypeKindInterface:
		mockability = 1.0
	case target.IsAbstract:
		mockability = 0.8
	case target.IsSealed:
		mockability = 0.2
	}

	coupling := c.ctx.AfferentCoupling(target.ID) + c.ctx.EfferentCoupling(target.ID)
	testComplexity := min(1.0, float64(coupling)/10.0)

	isolationDifficulty := 0.3
	if target.IsStatic {
		isolationDifficulty = 0.9
	} else if dep.Kind == core.KindStaticReference {
		isolationDifficulty = 0.8
	}

	return core.Clamp01((mockability + (1 - testComplexity) + (1 - isolationDifficulty)) / 3.0)
}
