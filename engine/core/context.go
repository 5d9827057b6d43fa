package core

// ArchitecturalContext is the contract consumed from the architectural
// context collaborator. Implementations must tolerate unknown ids and
// answer with zero values.
type ArchitecturalContext interface {
	Pattern(id ID) ArchitecturalPattern
	Layer(id ID) ArchitecturalLayer
	AfferentCoupling(id ID) int
	EfferentCoupling(id ID) int
	IsCyclic(id ID) bool
	ChangeFrequency(id ID) float64
}

// StaticContext is a map-backed ArchitecturalContext, useful for tests and
// for configured overrides.
type StaticContext struct {
	Patterns          map[ID]ArchitecturalPattern
	Layers            map[ID]ArchitecturalLayer
	Afferent          map[ID]int
	Efferent          map[ID]int
	Cyclic            map[ID]bool
	ChangeFrequencies map[ID]float64
}

// NewStaticContext creates an empty static context
func NewStaticContext() *StaticContext {
	return &StaticContext{
		Patterns:          make(map[ID]ArchitecturalPattern),
		Layers:            make(map[ID]ArchitecturalLayer),
		Afferent:          make(map[ID]int),
		Efferent:          make(map[ID]int),
		Cyclic:            make(map[ID]bool),
		ChangeFrequencies: make(map[ID]float64),
	}
}

// Pattern returns the pattern for id, PatternUnknown if unset
func (c *StaticContext) Pattern(id ID) ArchitecturalPattern {
	if p, ok := c.Patterns[id]; ok {
		return p
	}
	return PatternUnknown
}

// Layer returns the layer for id, LayerUnknown if unset
func (c *StaticContext) Layer(id ID) ArchitecturalLayer {
	if l, ok := c.Layers[id]; ok {
		return l
	}
	return LayerUnknown
}

// AfferentCoupling returns the afferent coupling count for id
func (c *StaticContext) AfferentCoupling(id ID) int {
	return c.Afferent[id]
}

// EfferentCoupling returns the efferent coupling count for id
func (c *StaticContext) EfferentCoupling(id ID) int {
	return c.Efferent[id]
}

// IsCyclic reports whether id participates in a dependency cycle
func (c *StaticContext) IsCyclic(id ID) bool {
	return c.Cyclic[id]
}

// ChangeFrequency returns the change frequency for id
func (c *StaticContext) ChangeFrequency(id ID) float64 {
	return c.ChangeFrequencies[id]
}
