package core

// StrengthProfile is the categorical label derived from an edge's dimension
// scores. Classification is first-match in the order listed below.
type StrengthProfile string

const (
	ProfileHighQualityCore  StrengthProfile = "HighQualityCore"
	ProfileHighRiskCoupling StrengthProfile = "HighRiskCoupling"
	ProfileTestingChallenge StrengthProfile = "TestingChallenge"
	ProfileBusinessCritical StrengthProfile = "BusinessCritical"
	ProfileWeakConnection   StrengthProfile = "WeakConnection"
	ProfileBalanced         StrengthProfile = "Balanced"
)

// AdvancedStrength holds the six independent strength dimensions for one
// edge, each in [0,1], plus the composite and its classification.
type AdvancedStrength struct {
	Structural      float64              `json:"structural"`
	Semantic        float64              `json:"semantic"`
	Coupling        float64              `json:"coupling"`
	Stability       float64              `json:"stability"`
	Criticality     float64              `json:"criticality"`
	Testability     float64              `json:"testability"`
	Composite       float64              `json:"composite"`
	Profile         StrengthProfile      `json:"profile"`
	DetectedPattern ArchitecturalPattern `json:"detected_pattern"`
}

// Classify derives the strength profile from the dimension scores
func (s *AdvancedStrength) Classify() StrengthProfile {
	switch {
	case s.Structural > 0.8 && s.Semantic > 0.8:
		return ProfileHighQualityCore
	case s.Coupling > 0.8 && s.Stability < 0.4:
		return ProfileHighRiskCoupling
	case s.Testability < 0.3:
		return ProfileTestingChallenge
	case s.Criticality > 0.8:
		return ProfileBusinessCritical
	case s.Structural < 0.3 && s.Semantic < 0.3:
		return ProfileWeakConnection
	default:
		return ProfileBalanced
	}
}

// WeightProfile weights the six dimensions when computing the composite
type WeightProfile struct {
	Structural  float64 `json:"structural"`
	Semantic    float64 `json:"semantic"`
	Coupling    float64 `json:"coupling"`
	Stability   float64 `json:"stability"`
	Criticality float64 `json:"criticality"`
	Testability float64 `json:"testability"`
}

// Composite computes the dot product of the dimensions with the profile
// weights, clamped to [0,1].
func (w WeightProfile) Composite(s *AdvancedStrength) float64 {
	sum := s.Structural*w.Structural +
		s.Semantic*w.Semantic +
		s.Coupling*w.Coupling +
		s.Stability*w.Stability +
		s.Criticality*w.Criticality +
		s.Testability*w.Testability
	return Clamp01(sum)
}

// Named weight profile presets. The default profile sums to 1.0; the others
// bias the composite toward the concerns that matter for the detected
// pattern of the edge.
var (
	DefaultWeightProfile = WeightProfile{
		Structural: 0.25, Semantic: 0.20, Coupling: 0.15,
		Stability: 0.15, Criticality: 0.15, Testability: 0.10,
	}
	MicroservicesBoundaryWeightProfile = WeightProfile{
		Structural: 0.15, Semantic: 0.15, Coupling: 0.30,
		Stability: 0.25, Criticality: 0.10, Testability: 0.05,
	}
	DomainCoreWeightProfile = WeightProfile{
		Structural: 0.30, Semantic: 0.25, Coupling: 0.10,
		Stability: 0.10, Criticality: 0.20, Testability: 0.05,
	}
	InfrastructureWeightProfile = WeightProfile{
		Structural: 0.20, Semantic: 0.10, Coupling: 0.15,
		Stability: 0.30, Criticality: 0.10, Testability: 0.15,
	}
	ApplicationServiceWeightProfile = WeightProfile{
		Structural: 0.20, Semantic: 0.25, Coupling: 0.15,
		Stability: 0.15, Criticality: 0.20, Testability: 0.05,
	}
	TestingWeightProfile = WeightProfile{
		Structural: 0.10, Semantic: 0.10, Coupling: 0.15,
		Stability: 0.10, Criticality: 0.05, Testability: 0.50,
	}
)

// WeightProfileFor selects the weight profile preset for a detected pattern.
// Unknown patterns fall back to the default profile rather than failing.
func WeightProfileFor(pattern ArchitecturalPattern) WeightProfile {
	switch pattern {
	case PatternMicroservicesBoundary:
		return MicroservicesBoundaryWeightProfile
	case PatternDomainCore:
		return DomainCoreWeightProfile
	case PatternInfrastructure:
		return InfrastructureWeightProfile
	case PatternApplicationService:
		return ApplicationServiceWeightProfile
	case PatternTesting:
		return TestingWeightProfile
	default:
		return DefaultWeightProfile
	}
}

// Clamp01 clamps v to the [0,1] interval
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
