package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codegraph-labs/springgraph/pkg/models"
)

// allEdgeLabels is the fixed edge vocabulary from pkg/models/edge.go,
// needed here because (unlike nodes) edges carry no per-label registry
// of their own to range over.
var allEdgeLabels = []models.EdgeLabel{
	models.EdgeHasPackage, models.EdgeContains, models.EdgeHasMethod, models.EdgeHasField,
	models.EdgeExtends, models.EdgeImplements, models.EdgeHasAnnotation, models.EdgeDeclaresBean,
	models.EdgeHasEndpoint, models.EdgeDependsOn, models.EdgeHasSqlStatement, models.EdgeCalls,
	models.EdgeUsesTable, models.EdgeHasColumn, models.EdgeMapsToTable,
}

// CountsByLabel queries the graph store for the authoritative node and
// edge counts of a completed project, for the run summary (C7): a
// post-write query rather than an in-flight tally, so retries and
// batch-splits during the run never cause double counting (spec.md §4.7).
func (c *Client) CountsByLabel(ctx context.Context, projectName string) (map[models.NodeLabel]int64, map[models.EdgeLabel]int64, error) {
	nodes := map[models.NodeLabel]int64{}
	edges := map[models.EdgeLabel]int64{}

	_, err := c.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for label := range identityFields {
			n, err := countWithQuery(ctx, tx,
				fmt.Sprintf("MATCH (n:%s {projectName: $projectName}) RETURN count(n) AS n", label),
				projectName)
			if err != nil {
				return nil, err
			}
			nodes[label] = n
		}
		projectCount, err := countWithQuery(ctx, tx,
			"MATCH (n:Project {name: $projectName}) RETURN count(n) AS n", projectName)
		if err != nil {
			return nil, err
		}
		nodes[models.LabelProject] = projectCount

		for _, label := range allEdgeLabels {
			n, err := countWithQuery(ctx, tx,
				fmt.Sprintf("MATCH ({projectName: $projectName})-[r:%s]->() RETURN count(r) AS n", label),
				projectName)
			if err != nil {
				return nil, err
			}
			edges[label] = n
		}
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

func countWithQuery(ctx context.Context, tx neo4j.ManagedTransaction, query, projectName string) (int64, error) {
	res, err := tx.Run(ctx, query, map[string]any{"projectName": projectName})
	if err != nil {
		return 0, err
	}
	record, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := record.Get("n")
	count, _ := n.(int64)
	return count, nil
}
