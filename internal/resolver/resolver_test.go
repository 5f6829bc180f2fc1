package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// fakeResult is a minimal neo4j.ResultWithContext backed by a fixed set of
// records, enough for the resolver's Next/Record/Err/Single usage.
type fakeResult struct {
	records []*db.Record
	pos     int
}

func (r *fakeResult) Keys() ([]string, error) { return nil, nil }

func (r *fakeResult) NextRecord(ctx context.Context, record **db.Record) bool {
	if !r.Next(ctx) {
		return false
	}
	*record = r.Record()
	return true
}

func (r *fakeResult) Next(ctx context.Context) bool {
	if r.pos >= len(r.records) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeResult) PeekRecord(ctx context.Context, record **db.Record) bool { return false }
func (r *fakeResult) Peek(ctx context.Context) bool                          { return r.pos < len(r.records) }
func (r *fakeResult) Err() error                                             { return nil }

func (r *fakeResult) Record() *db.Record {
	if r.pos == 0 || r.pos > len(r.records) {
		return nil
	}
	return r.records[r.pos-1]
}

func (r *fakeResult) Collect(ctx context.Context) ([]*db.Record, error) { return r.records, nil }

func (r *fakeResult) Single(ctx context.Context) (*db.Record, error) {
	if len(r.records) != 1 {
		return nil, errors.New("result does not contain exactly one record")
	}
	r.pos = 1
	return r.records[0], nil
}

func (r *fakeResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) { return nil, nil }
func (r *fakeResult) IsOpen() bool                                            { return true }

func countRecord(n int64) *db.Record {
	return &db.Record{Keys: []string{"n"}, Values: []any{n}}
}

// fakeTx records every Cypher statement it ran and returns the next
// pre-programmed result in sequence, so each resolver pass can be driven
// independently of the others.
type fakeTx struct {
	queries []string
	results []neo4j.ResultWithContext
	next    int
}

func (tx *fakeTx) Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
	tx.queries = append(tx.queries, cypher)
	if tx.next >= len(tx.results) {
		return &fakeResult{records: []*db.Record{countRecord(0)}}, nil
	}
	res := tx.results[tx.next]
	tx.next++
	return res, nil
}

// fakeStore implements Querier by running work against a single shared
// fakeTx, so successive ExecuteWrite calls (one per resolver pass) each
// get the next queued result.
type fakeStore struct {
	tx  *fakeTx
	err error
}

func (s *fakeStore) ExecuteWrite(ctx context.Context, work func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return work(s.tx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveRunsAllFivePassesInOrder(t *testing.T) {
	tx := &fakeTx{results: []neo4j.ResultWithContext{
		&fakeResult{records: []*db.Record{countRecord(2)}},
		&fakeResult{records: []*db.Record{countRecord(1)}},
		&fakeResult{records: []*db.Record{countRecord(3)}},
		&fakeResult{records: []*db.Record{countRecord(5)}},
		&fakeResult{records: []*db.Record{countRecord(0)}},
	}}
	engine := NewEngine(&fakeStore{tx: tx}, testLogger())

	results := engine.Resolve(context.Background(), "demo")

	if len(results) != 5 {
		t.Fatalf("got %d pass results, want 5", len(results))
	}
	wantOrder := []string{"bean_field_injection", "bean_constructor_injection", "method_sql_binding", "intra_project_method_call", "sql_table_reference"}
	wantCounts := []int{2, 1, 3, 5, 0}
	for i, pr := range results {
		if pr.Pass != wantOrder[i] {
			t.Errorf("pass[%d] = %q, want %q", i, pr.Pass, wantOrder[i])
		}
		if pr.Err != nil {
			t.Errorf("pass[%d] (%s) unexpected error: %v", i, pr.Pass, pr.Err)
		}
		if pr.EdgesCreated != wantCounts[i] {
			t.Errorf("pass[%d] (%s) edges = %d, want %d", i, pr.Pass, pr.EdgesCreated, wantCounts[i])
		}
	}
	if len(tx.queries) != 5 {
		t.Fatalf("ran %d queries, want 5", len(tx.queries))
	}
	if !strings.Contains(tx.queries[0], "DECLARES_BEAN") {
		t.Errorf("first query should target bean injection, got %q", tx.queries[0])
	}
	if !strings.Contains(tx.queries[2], "ENDS WITH 'Mapper'") {
		t.Errorf("third query should bind methods to SQL statements, got %q", tx.queries[2])
	}
	if !strings.Contains(tx.queries[3], "calledMethodNames") {
		t.Errorf("fourth query should resolve intra-project method calls, got %q", tx.queries[3])
	}
}

func TestResolveOnePassFailureDoesNotStopTheOthers(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	engine := NewEngine(store, testLogger())

	results := engine.Resolve(context.Background(), "demo")

	if len(results) != 5 {
		t.Fatalf("got %d pass results, want 5 even when every pass fails", len(results))
	}
	for _, pr := range results {
		if pr.Err == nil {
			t.Errorf("pass %s: expected an error", pr.Pass)
		}
	}
}

func TestMissingTableReferencesReportsUndeclaredTables(t *testing.T) {
	rec := &db.Record{
		Keys:   []string{"mapperName", "statementId", "tableName"},
		Values: []any{"OrderMapper", "selectById", "orders_archive"},
	}
	tx := &fakeTx{results: []neo4j.ResultWithContext{&fakeResult{records: []*db.Record{rec}}}}
	engine := NewEngine(&fakeStore{tx: tx}, testLogger())

	missing, err := engine.MissingTableReferences(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(missing) != 1 || !strings.Contains(missing[0], "orders_archive") {
		t.Fatalf("missing = %v", missing)
	}
}

func TestMissingTableReferencesEmptyWhenNothingMissing(t *testing.T) {
	tx := &fakeTx{results: []neo4j.ResultWithContext{&fakeResult{records: nil}}}
	engine := NewEngine(&fakeStore{tx: tx}, testLogger())

	missing, err := engine.MissingTableReferences(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
}
