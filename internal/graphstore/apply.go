package graphstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codegraph-labs/springgraph/pkg/models"
	"github.com/codegraph-labs/springgraph/pkg/apperr"
)

const (
	maxRetries       = 3
	retryBaseDelay   = 500 * time.Millisecond
	txTimeout        = 60 * time.Second
)

// writerFor wraps a Client, implementing the orchestrator's Writer
// interface so the orchestrator stays decoupled from the driver.
type writerFor struct {
	client *Client
	logger *slog.Logger
}

func NewWriter(client *Client, logger *slog.Logger) *writerFor {
	return &writerFor{client: client, logger: logger}
}

// Apply upserts one bundle's nodes and edges in a single write transaction,
// batching each node kind into its own UNWIND..MERGE statement, and falls
// back to retryWithSplit on failure.
func (w *writerFor) Apply(ctx context.Context, bundle *models.ArtifactBundle) error {
	return w.retryWithSplit(ctx, bundle, 0)
}

func (w *writerFor) retryWithSplit(ctx context.Context, bundle *models.ArtifactBundle, depth int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperr.CancellationError(ctx.Err())
			case <-time.After(retryBaseDelay * time.Duration(1<<attempt)):
			}
		}
		err := w.applyOnce(ctx, bundle)
		if err == nil {
			return nil
		}
		lastErr = err
		if !apperr.IsTransientWrite(err) {
			break
		}
		w.logger.Warn("write retry", slog.Int("attempt", attempt+1), slog.Any("error", err))
	}

	half1, half2, ok := splitBundle(bundle)
	if !ok || depth >= 20 {
		w.logger.Error("write failed permanently, bundle isolated", slog.Any("error", lastErr))
		return apperr.WriteErrorPermanent(lastErr)
	}
	err1 := w.retryWithSplit(ctx, half1, depth+1)
	err2 := w.retryWithSplit(ctx, half2, depth+1)
	return errors.Join(err1, err2)
}

func (w *writerFor) applyOnce(ctx context.Context, bundle *models.ArtifactBundle) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	_, err := w.client.ExecuteWrite(txCtx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, stmt := range nodeUpsertStatements(bundle) {
			if len(stmt.rows) == 0 {
				continue
			}
			if _, err := tx.Run(txCtx, stmt.cypher, map[string]any{"rows": stmt.rows}); err != nil {
				return nil, err
			}
		}
		for gk, rows := range edgeRowsByGroup(bundle.Edges) {
			if len(rows) == 0 {
				continue
			}
			cypher := edgeUpsertCypher(gk)
			if _, err := tx.Run(txCtx, cypher, map[string]any{"rows": rows}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return apperr.WriteErrorTransient(err)
	}
	return nil
}

// splitBundle halves bundle's classes (the dominant node kind in practice)
// along with all other node slices proportionally, so a persistently
// failing batch degrades toward single-bundle isolation rather than
// failing the whole project (spec.md §4.5's "split in half recursively").
func splitBundle(bundle *models.ArtifactBundle) (*models.ArtifactBundle, *models.ArtifactBundle, bool) {
	if bundle.Empty() {
		return nil, nil, false
	}
	total := len(bundle.Packages) + len(bundle.Classes) + len(bundle.Annotations) + len(bundle.Methods) +
		len(bundle.Fields) + len(bundle.Beans) + len(bundle.Endpoints) + len(bundle.JpaEntities) +
		len(bundle.JpaRepositories) + len(bundle.JpaQueries) + len(bundle.MyBatisMappers) +
		len(bundle.SqlStatements) + len(bundle.Databases) + len(bundle.Tables) + len(bundle.Columns) +
		len(bundle.Indexes) + len(bundle.Constraints) + len(bundle.TestClasses) + len(bundle.ConfigFiles) +
		len(bundle.Edges)
	if total <= 1 {
		return nil, nil, false
	}

	a, b := &models.ArtifactBundle{}, &models.ArtifactBundle{}
	splitSlice(bundle.Packages, &a.Packages, &b.Packages)
	splitSlice(bundle.Classes, &a.Classes, &b.Classes)
	splitSlice(bundle.Annotations, &a.Annotations, &b.Annotations)
	splitSlice(bundle.Methods, &a.Methods, &b.Methods)
	splitSlice(bundle.Fields, &a.Fields, &b.Fields)
	splitSlice(bundle.Beans, &a.Beans, &b.Beans)
	splitSlice(bundle.Endpoints, &a.Endpoints, &b.Endpoints)
	splitSlice(bundle.JpaEntities, &a.JpaEntities, &b.JpaEntities)
	splitSlice(bundle.JpaRepositories, &a.JpaRepositories, &b.JpaRepositories)
	splitSlice(bundle.JpaQueries, &a.JpaQueries, &b.JpaQueries)
	splitSlice(bundle.MyBatisMappers, &a.MyBatisMappers, &b.MyBatisMappers)
	splitSlice(bundle.SqlStatements, &a.SqlStatements, &b.SqlStatements)
	splitSlice(bundle.Databases, &a.Databases, &b.Databases)
	splitSlice(bundle.Tables, &a.Tables, &b.Tables)
	splitSlice(bundle.Columns, &a.Columns, &b.Columns)
	splitSlice(bundle.Indexes, &a.Indexes, &b.Indexes)
	splitSlice(bundle.Constraints, &a.Constraints, &b.Constraints)
	splitSlice(bundle.TestClasses, &a.TestClasses, &b.TestClasses)
	splitSlice(bundle.ConfigFiles, &a.ConfigFiles, &b.ConfigFiles)
	splitSlice(bundle.Edges, &a.Edges, &b.Edges)
	return a, b, true
}

func splitSlice[T any](src []T, a, b *[]T) {
	mid := len(src) / 2
	*a = append(*a, src[:mid]...)
	*b = append(*b, src[mid:]...)
}
