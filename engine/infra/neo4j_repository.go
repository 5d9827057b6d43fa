package infra

import (
	"context"
	"fmt"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/pkg/errors"
	"github.com/archscope/typegraph/pkg/logger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig holds connection settings for the graph database
type Neo4jConfig struct {
	URI        string `json:"uri"         yaml:"uri"`
	Username   string `json:"username"    yaml:"username"`
	Password   string `json:"password"    yaml:"password"`
	Database   string `json:"database"    yaml:"database"`
	BatchSize  int    `json:"batch_size"  yaml:"batch_size"`
	MaxRetries uint   `json:"max_retries" yaml:"max_retries"`
}

// DefaultNeo4jConfig returns the default connection settings
func DefaultNeo4jConfig() *Neo4jConfig {
	return &Neo4jConfig{
		URI:        "bolt://localhost:7687",
		Username:   "neo4j",
		Password:   "password",
		Database:   "neo4j",
		BatchSize:  1000,
		MaxRetries: 3,
	}
}

// Repository persists analyzed type graphs
type Repository interface {
	// Connect establishes and verifies the database connection
	Connect(ctx context.Context) error
	// StoreGraph writes all nodes and scored dependencies of g under projectID
	StoreGraph(ctx context.Context, projectID string, g *graph.Graph) error
	// ClearProject removes all nodes and relationships for a project
	ClearProject(ctx context.Context, projectID string) error
	// ExecuteQuery runs a raw Cypher query and returns the result rows
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	// Close releases the underlying driver
	Close(ctx context.Context) error
}

type neo4jRepository struct {
	config *Neo4jConfig
	driver neo4j.DriverWithContext
}

// NewNeo4jRepository creates a repository against the configured instance
func NewNeo4jRepository(config *Neo4jConfig) Repository {
	if config == nil {
		config = DefaultNeo4jConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultNeo4jConfig().BatchSize
	}
	return &neo4jRepository{config: config}
}

// Connect establishes the driver and verifies connectivity with retries
func (r *neo4jRepository) Connect(ctx context.Context) error {
	driver, err := neo4j.NewDriverWithContext(
		r.config.URI,
		neo4j.BasicAuth(r.config.Username, r.config.Password, ""),
	)
	if err != nil {
		return core.NewError(err, core.ErrorCodeGraphConnection, map[string]any{
			"uri": r.config.URI,
		})
	}
	r.driver = driver

	retryConfig := errors.DefaultRetryConfig()
	retryConfig.MaxAttempts = r.config.MaxRetries
	return errors.WithRetry(ctx, "neo4j_connect", retryConfig, func() error {
		if err := r.driver.VerifyConnectivity(ctx); err != nil {
			return core.NewError(err, core.ErrorCodeGraphConnection, map[string]any{
				"uri": r.config.URI,
			})
		}
		return nil
	})
}

// StoreGraph writes the graph in UNWIND batches: nodes first, then the
// dependency relationships with their strength properties.
func (r *neo4jRepository) StoreGraph(ctx context.Context, projectID string, g *graph.Graph) error {
	if r.driver == nil {
		return core.NewError(
			fmt.Errorf("repository is not connected"),
			core.ErrorCodeGraphConnection, nil)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: r.config.Database})
	defer session.Close(ctx)

	nodes := g.Nodes()
	deps := g.Dependencies()

	if err := r.writeNodes(ctx, session, projectID, nodes); err != nil {
		return err
	}
	if err := r.writeDependencies(ctx, session, projectID, deps); err != nil {
		return err
	}

	logger.Info("graph stored",
		"project_id", projectID,
		"nodes", len(nodes),
		"dependencies", len(deps))
	return nil
}

func (r *neo4jRepository) writeNodes(
	ctx context.Context,
	session neo4j.SessionWithContext,
	projectID string,
	nodes []*core.TypeNode,
) error {
	for start := 0; start < len(nodes); start += r.config.BatchSize {
		end := min(start+r.config.BatchSize, len(nodes))
		batch := make([]map[string]any, 0, end-start)
		for _, node := range nodes[start:end] {
			batch = append(batch, nodeProperties(node, projectID))
		}

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, `
				UNWIND $batch AS props
				MERGE (t:Type {id: props.id, project_id: props.project_id})
				SET t += props`,
				map[string]any{"batch": batch})
		})
		if err != nil {
			return core.NewError(err, core.ErrorCodeGraphWrite, map[string]any{
				"project_id": projectID,
				"batch":      start / r.config.BatchSize,
				"entity":     "nodes",
			})
		}
	}
	return nil
}

func (r *neo4jRepository) writeDependencies(
	ctx context.Context,
	session neo4j.SessionWithContext,
	projectID string,
	deps []*core.TypeDependency,
) error {
	for start := 0; start < len(deps); start += r.config.BatchSize {
		end := min(start+r.config.BatchSize, len(deps))
		batch := make([]map[string]any, 0, end-start)
		for _, dep := range deps[start:end] {
			batch = append(batch, dependencyProperties(dep))
		}

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, `
				UNWIND $batch AS props
				MATCH (s:Type {id: props.source_id, project_id: $project_id})
				MATCH (t:Type {id: props.target_id, project_id: $project_id})
				CREATE (s)-[r:DEPENDS_ON]->(t)
				SET r += props`,
				map[string]any{"batch": batch, "project_id": projectID})
		})
		if err != nil {
			return core.NewError(err, core.ErrorCodeGraphWrite, map[string]any{
				"project_id": projectID,
				"batch":      start / r.config.BatchSize,
				"entity":     "dependencies",
			})
		}
	}
	return nil
}

// ClearProject removes every node and relationship stored for a project
func (r *neo4jRepository) ClearProject(ctx context.Context, projectID string) error {
	if r.driver == nil {
		return core.NewError(
			fmt.Errorf("repository is not connected"),
			core.ErrorCodeGraphConnection, nil)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: r.config.Database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx,
			`MATCH (t:Type {project_id: $project_id}) DETACH DELETE t`,
			map[string]any{"project_id": projectID})
	})
	if err != nil {
		return core.NewError(err, core.ErrorCodeGraphWrite, map[string]any{
			"project_id": projectID,
		})
	}

	logger.Info("project cleared", "project_id", projectID)
	return nil
}

// ExecuteQuery runs a read query and collects the records as maps
func (r *neo4jRepository) ExecuteQuery(
	ctx context.Context,
	query string,
	params map[string]any,
) ([]map[string]any, error) {
	if r.driver == nil {
		return nil, core.NewError(
			fmt.Errorf("repository is not connected"),
			core.ErrorCodeGraphConnection, nil)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: r.config.Database})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records := make([]map[string]any, 0)
		for result.Next(ctx) {
			records = append(records, result.Record().AsMap())
		}
		return records, result.Err()
	})
	if err != nil {
		return nil, core.NewError(err, core.ErrorCodeGraphQuery, map[string]any{
			"query": query,
		})
	}
	return rows.([]map[string]any), nil
}

// Close releases the driver
func (r *neo4jRepository) Close(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Close(ctx)
}

func nodeProperties(node *core.TypeNode, projectID string) map[string]any {
	props := map[string]any{
		"id":            string(node.ID),
		"project_id":    projectID,
		"name":          node.Name,
		"namespace":     node.Namespace,
		"kind":          string(node.Kind),
		"accessibility": string(node.Accessibility),
		"is_abstract":   node.IsAbstract,
		"is_sealed":     node.IsSealed,
		"is_static":     node.IsStatic,
	}
	if node.Span != nil {
		props["file"] = node.Span.File
		props["start_line"] = node.Span.StartLine
		props["end_line"] = node.Span.EndLine
	}
	return props
}

func dependencyProperties(dep *core.TypeDependency) map[string]any {
	props := map[string]any{
		"source_id":   string(dep.SourceID),
		"target_id":   string(dep.TargetID),
		"kind":        string(dep.Kind),
		"member_name": dep.MemberName,
		"weight":      dep.Weight,
		"strength":    dep.Strength,
	}
	if dep.Advanced != nil {
		props["structural"] = dep.Advanced.Structural
		props["semantic"] = dep.Advanced.Semantic
		props["coupling"] = dep.Advanced.Coupling
		props["stability"] = dep.Advanced.Stability
		props["criticality"] = dep.Advanced.Criticality
		props["testability"] = dep.Advanced.Testability
		props["composite"] = dep.Advanced.Composite
		props["profile"] = string(dep.Advanced.Profile)
	}
	return props
}
