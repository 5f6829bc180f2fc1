// Package graphstore is the graph writer (C5): it upserts ArtifactBundles
// produced by the orchestrator into Neo4j with MERGE-by-identity-key
// batches, so re-running the analyzer over an unchanged tree is a no-op
// and re-running it over a changed tree only touches what changed
// (spec invariant I1).
package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codegraph-labs/springgraph/internal/config"
)

// Client wraps the Neo4j driver and exposes the graph write operations the
// orchestrator and resolver need.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient creates a new Neo4j client from configuration.
func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver, database: cfg.Database}, nil
}

// ExecuteWrite runs work in a managed write transaction against the
// client's configured database. It satisfies resolver.Querier so the
// resolver can issue its own declarative Cypher without going through
// the bundle-shaped Apply path.
func (c *Client) ExecuteWrite(ctx context.Context, work func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	session := c.session(ctx, c.database)
	defer session.Close(ctx)
	return neo4j.ExecuteWrite(ctx, session, work)
}

// Close releases the Neo4j driver resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity to Neo4j.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) session(ctx context.Context, database string) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: database,
	})
}

// EnsureProject upserts the single root Project node a run's Package
// nodes attach to via HAS_PACKAGE. Project is not part of any per-file
// bundle (it is run-scoped, not file-scoped), so it must exist before the
// orchestrator starts streaming bundles whose edges reference it.
func (c *Client) EnsureProject(ctx context.Context, projectName string) error {
	_, err := c.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MERGE (p:Project {name: $name}) SET p.projectName = $name`, map[string]any{"name": projectName})
		return nil, err
	})
	return err
}

// EnsureIndexes creates a range index on every node label's identity-key
// fields, so the per-bundle MERGE batches in apply.go resolve in O(log n)
// instead of a label scan. Indexes, not uniqueness constraints: several
// identity keys are composite, and composite uniqueness constraints are
// an enterprise-only Neo4j feature this project does not require.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, stmt := range indexStatements {
			if _, err := tx.Run(ctx, stmt, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// ClearProject removes all graph data for a project, used by the
// analyze command's --clean mode.
func (c *Client) ClearProject(ctx context.Context, projectName string) error {
	_, err := c.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MATCH (n {projectName: $projectName}) DETACH DELETE n`,
			map[string]any{"projectName": projectName})
		return nil, err
	})
	return err
}
