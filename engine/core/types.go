package core

import (
	"time"

	"github.com/google/uuid"
)

// ID identifies a type node by its fully-qualified name. Report and project
// identifiers reuse the same type but are uuid-generated.
type ID string

// NewID generates a new unique ID
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the string representation of the ID
func (id ID) String() string {
	return string(id)
}

// TypeKind represents the kind of a type node
type TypeKind string

const (
	TypeKindClass     TypeKind = "Class"
	TypeKindInterface TypeKind = "Interface"
	TypeKindStruct    TypeKind = "Struct"
	TypeKindEnum      TypeKind = "Enum"
)

// Accessibility represents the declared visibility of a type
type Accessibility string

const (
	AccessibilityPublic    Accessibility = "Public"
	AccessibilityInternal  Accessibility = "Internal"
	AccessibilityProtected Accessibility = "Protected"
	AccessibilityPrivate   Accessibility = "Private"
)

// ArchitecturalLayer represents the conventional layer a type belongs to
type ArchitecturalLayer string

const (
	LayerPresentation   ArchitecturalLayer = "Presentation"
	LayerApplication    ArchitecturalLayer = "Application"
	LayerDomain         ArchitecturalLayer = "Domain"
	LayerInfrastructure ArchitecturalLayer = "Infrastructure"
	LayerUnknown        ArchitecturalLayer = "Unknown"
)

// ArchitecturalPattern represents the role classification assigned to a type
type ArchitecturalPattern string

const (
	PatternDomainCore            ArchitecturalPattern = "DomainCore"
	PatternApplicationService    ArchitecturalPattern = "ApplicationService"
	PatternInfrastructure        ArchitecturalPattern = "Infrastructure"
	PatternRepository            ArchitecturalPattern = "Repository"
	PatternFactory               ArchitecturalPattern = "Factory"
	PatternStrategy              ArchitecturalPattern = "Strategy"
	PatternSingleton             ArchitecturalPattern = "Singleton"
	PatternMicroservicesBoundary ArchitecturalPattern = "MicroservicesBoundary"
	PatternTesting               ArchitecturalPattern = "Testing"
	PatternUnknown               ArchitecturalPattern = "Unknown"
)

// SeverityLevel indicates the severity of a detected issue
type SeverityLevel string

const (
	SeverityLow    SeverityLevel = "low"
	SeverityMedium SeverityLevel = "medium"
	SeverityHigh   SeverityLevel = "high"
)

// SourceSpan locates a declaration or usage in source code
type SourceSpan struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// TypeNode represents one type in the dependency graph. Dependencies and
// Dependents are views into the edge set owned by the graph: every element
// is the same *TypeDependency the graph indexes hold, never a copy.
type TypeNode struct {
	ID            ID                `json:"id"`
	Name          string            `json:"name"`
	Namespace     string            `json:"namespace"`
	ProjectID     string            `json:"project_id"`
	Kind          TypeKind          `json:"kind"`
	Accessibility Accessibility     `json:"accessibility"`
	IsAbstract    bool              `json:"is_abstract"`
	IsSealed      bool              `json:"is_sealed"`
	IsStatic      bool              `json:"is_static"`
	Span          *SourceSpan       `json:"span,omitempty"`
	Dependencies  []*TypeDependency `json:"-"`
	Dependents    []*TypeDependency `json:"-"`
}

// TypeDependency represents one directed dependency edge. Identity is not
// unique: multiple edges may exist between the same ordered pair with
// different kinds or member names, and duplicates are never merged.
type TypeDependency struct {
	SourceID   ID                `json:"source_id"`
	TargetID   ID                `json:"target_id"`
	Kind       DependencyKind    `json:"kind"`
	MemberName string            `json:"member_name,omitempty"`
	Location   *SourceSpan       `json:"location,omitempty"`
	Snippet    string            `json:"snippet,omitempty"`
	Weight     int               `json:"weight"`
	Strength   float64           `json:"strength"`
	Advanced   *AdvancedStrength `json:"advanced,omitempty"`
}

// NewTypeDependency creates an edge with the base weight and initial scalar
// strength derived from the dependency kind.
func NewTypeDependency(source, target ID, kind DependencyKind) *TypeDependency {
	weight := kind.BaseWeight()
	return &TypeDependency{
		SourceID: source,
		TargetID: target,
		Kind:     kind,
		Weight:   weight,
		Strength: float64(weight) / 10.0,
	}
}

// NodeFact is the node descriptor contract consumed from the semantic
// extraction collaborator.
type NodeFact struct {
	ID            ID            `json:"id"`
	SimpleName    string        `json:"simple_name"`
	Namespace     string        `json:"namespace"`
	ProjectID     string        `json:"project_id"`
	Kind          TypeKind      `json:"kind"`
	Accessibility Accessibility `json:"accessibility"`
	IsAbstract    bool          `json:"is_abstract"`
	IsSealed      bool          `json:"is_sealed"`
	IsStatic      bool          `json:"is_static"`
	Span          *SourceSpan   `json:"span,omitempty"`
}

// EdgeFact is the dependency tuple contract consumed from the semantic
// extraction collaborator.
type EdgeFact struct {
	SourceID   ID             `json:"source_id"`
	TargetID   ID             `json:"target_id"`
	Kind       DependencyKind `json:"kind"`
	MemberName string         `json:"member_name,omitempty"`
	Location   *SourceSpan    `json:"location,omitempty"`
	Snippet    string         `json:"snippet,omitempty"`
}

// AnalysisRun captures the identity and timing of one analysis pipeline run
type AnalysisRun struct {
	ID        ID        `json:"id"`
	ProjectID string    `json:"project_id"`
	StartedAt time.Time `json:"started_at"`
}

// NewAnalysisRun creates a run descriptor for the given project
func NewAnalysisRun(projectID string) *AnalysisRun {
	return &AnalysisRun{
		ID:        NewID(),
		ProjectID: projectID,
		StartedAt: time.Now(),
	}
}
