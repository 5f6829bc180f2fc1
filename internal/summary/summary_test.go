package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/codegraph-labs/springgraph/internal/orchestrate"
	"github.com/codegraph-labs/springgraph/internal/resolver"
	"github.com/codegraph-labs/springgraph/pkg/apperr"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCounter struct {
	nodes map[models.NodeLabel]int64
	edges map[models.EdgeLabel]int64
	err   error
}

func (f fakeCounter) CountsByLabel(ctx context.Context, projectName string) (map[models.NodeLabel]int64, map[models.EdgeLabel]int64, error) {
	return f.nodes, f.edges, f.err
}

func TestFinishSuccessfulRunExitsZero(t *testing.T) {
	run := NewRun("demo", testLogger())
	run.StartPhase("ingest")
	time.Sleep(time.Millisecond)
	run.StartPhase("resolve")

	stats := &orchestrate.RunStats{FilesTotal: 3, FilesOK: 3, FilesFailed: 0}
	passes := []resolver.PassResult{{Pass: "bean_field_injection", EdgesCreated: 2}}
	counter := fakeCounter{
		nodes: map[models.NodeLabel]int64{models.LabelClass: 2},
		edges: map[models.EdgeLabel]int64{models.EdgeDependsOn: 2},
	}

	s := run.Finish(context.Background(), stats, passes, nil, counter)

	if s.ExitCode != apperr.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", s.ExitCode, apperr.ExitSuccess)
	}
	if len(s.DurationPerPhase) != 2 {
		t.Fatalf("duration_per_phase = %+v, want 2 phases", s.DurationPerPhase)
	}
	if s.NodesByKind[models.LabelClass] != 2 {
		t.Fatalf("nodes by kind = %+v", s.NodesByKind)
	}
	if s.RunID == "" {
		t.Fatal("expected a non-empty run id")
	}
}

func TestFinishWithFailedFilesIsPartial(t *testing.T) {
	run := NewRun("demo", testLogger())
	run.StartPhase("ingest")

	stats := &orchestrate.RunStats{FilesTotal: 3, FilesOK: 2, FilesFailed: 1, Diagnostics: []string{"bad.java: parse error"}}

	s := run.Finish(context.Background(), stats, nil, nil, nil)

	if s.ExitCode != apperr.ExitPartialFailure {
		t.Fatalf("exit code = %d, want %d", s.ExitCode, apperr.ExitPartialFailure)
	}
	if len(s.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v", s.Diagnostics)
	}
}

func TestFinishWithFailedResolverPassIsPartial(t *testing.T) {
	run := NewRun("demo", testLogger())
	stats := &orchestrate.RunStats{FilesTotal: 1, FilesOK: 1}
	passes := []resolver.PassResult{{Pass: "sql_table_reference", Err: apperr.ResolverError("sql_table_reference", errors.New("boom"))}}

	s := run.Finish(context.Background(), stats, passes, nil, nil)

	if s.ExitCode != apperr.ExitPartialFailure {
		t.Fatalf("exit code = %d, want %d", s.ExitCode, apperr.ExitPartialFailure)
	}
	if len(s.Diagnostics) != 1 {
		t.Fatalf("expected the resolver failure to surface as a diagnostic, got %v", s.Diagnostics)
	}
}

func TestFinishIncludesMissingTableDiagnostics(t *testing.T) {
	run := NewRun("demo", testLogger())
	stats := &orchestrate.RunStats{FilesTotal: 1, FilesOK: 1}
	missing := []string{"OrderMapper.selectById references undeclared table orders_archive"}

	s := run.Finish(context.Background(), stats, nil, missing, nil)

	if s.ExitCode != apperr.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (a missing-table diagnostic alone is not a failure)", s.ExitCode, apperr.ExitSuccess)
	}
	if len(s.Diagnostics) != 1 || s.Diagnostics[0] != "missing_table: "+missing[0] {
		t.Fatalf("diagnostics = %v", s.Diagnostics)
	}
}

func TestFinishCountQueryFailureIsRecordedNotFatal(t *testing.T) {
	run := NewRun("demo", testLogger())
	stats := &orchestrate.RunStats{FilesTotal: 1, FilesOK: 1}

	s := run.Finish(context.Background(), stats, nil, nil, fakeCounter{err: errors.New("store unreachable")})

	if s.ExitCode != apperr.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (count failure alone is not a file or resolver failure)", s.ExitCode, apperr.ExitSuccess)
	}
	if len(s.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want the count error recorded", s.Diagnostics)
	}
}

func TestNoopWriterDiscardsBundles(t *testing.T) {
	var w NoopWriter
	if err := w.Apply(context.Background(), &models.ArtifactBundle{Classes: []models.Class{{Name: "X"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
