package strength

import (
	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
)

// pairKey is the ordered (source, target) grouping key for parallel edges
type pairKey struct {
	source core.ID
	target core.ID
}

// ApplyAggregateBonuses post-processes parallel edges between the same
// ordered type pair. Groups with more than one edge earn frequency and
// diversity bonuses on top of a weight factor; every edge in the group is
// raised to the aggregate if it is higher. Strength never decreases here.
func ApplyAggregateBonuses(g *graph.Graph) {
	groups := make(map[pairKey][]*core.TypeDependency)
	for _, dep := range g.Dependencies() {
		key := pairKey{source: dep.SourceID, target: dep.TargetID}
		groups[key] = append(groups[key], dep)
	}

	for _, deps := range groups {
		if len(deps) <= 1 {
			continue
		}
		aggregate := aggregateStrength(deps)
		for _, dep := range deps {
			if aggregate > dep.Strength {
				dep.Strength = aggregate
			}
		}
	}
}

func aggregateStrength(deps []*core.TypeDependency) float64 {
	totalWeight := 0
	maxWeight := 0
	kinds := make(map[core.DependencyKind]bool)
	for _, dep := range deps {
		totalWeight += dep.Weight
		if dep.Weight > maxWeight {
			maxWeight = dep.Weight
		}
		kinds[dep.Kind] = true
	}

	frequencyBonus := min(0.3, float64(len(deps))*0.05)
	diversityBonus := min(0.2, float64(len(kinds))*0.03)
	weightFactor := 0.0
	if maxWeight > 0 {
		weightFactor = min(1.0, float64(totalWeight)/float64(maxWeight)/10.0)
	}
	return min(1.0, weightFactor+frequencyBonus+diversityBonus)
}
