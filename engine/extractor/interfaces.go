package extractor

import (
	"context"

	"github.com/archscope/typegraph/engine/core"
)

// Extractor is the semantic extraction collaborator: it walks source code
// and yields the node and edge facts the graph engine consumes. The engine
// itself never depends on this package, only on the facts contract.
type Extractor interface {
	// ExtractProject extracts type facts from the Go module rooted at path
	ExtractProject(ctx context.Context, path string, projectID string) (*Facts, error)
}

// Facts is one extraction result
type Facts struct {
	Nodes []core.NodeFact `json:"nodes"`
	Edges []core.EdgeFact `json:"edges"`
}

// Config holds extractor configuration
type Config struct {
	IncludeTests bool // Include _test.go files in the load
}

// DefaultConfig returns default extractor configuration
func DefaultConfig() *Config {
	return &Config{
		IncludeTests: false,
	}
}
