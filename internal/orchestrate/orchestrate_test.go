package orchestrate

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/codegraph-labs/springgraph/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	mu      sync.Mutex
	applied []*models.ArtifactBundle
}

func (w *fakeWriter) Apply(ctx context.Context, bundle *models.ArtifactBundle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applied = append(w.applied, bundle)
	return nil
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a concurrency-safe io.Writer, since ProgressLogger.Observe
// is called from multiple worker goroutines in normal use.
type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) lineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) == 0 {
		return 0
	}
	n := 0
	for _, c := range b.buf {
		if c == '\n' {
			n++
		}
	}
	return n
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestRunStreamingProcessesJavaAndDDL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "User.java", `
package com.example.domain;

@Entity
public class User {
    @Id
    private Long id;
}
`)
	writeFile(t, dir, "schema.sql", `CREATE TABLE users (id BIGINT PRIMARY KEY);`)

	writer := &fakeWriter{}
	o := New("demo", Config{WorkerCount: 2, BatchSize: 10, Streaming: true}, writer, silentLogger())

	stats, err := o.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesTotal != 2 || stats.FilesOK != 2 || stats.FilesFailed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(writer.applied) != 2 {
		t.Fatalf("applied %d bundles, want 2", len(writer.applied))
	}
}

func TestRunBatchedCombinesBundles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", "package a;\npublic class A {}\n")
	writeFile(t, dir, "B.java", "package b;\npublic class B {}\n")
	writeFile(t, dir, "C.java", "package c;\npublic class C {}\n")

	writer := &fakeWriter{}
	o := New("demo", Config{WorkerCount: 3, BatchSize: 10, Streaming: false}, writer, silentLogger())

	stats, err := o.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesOK != 3 {
		t.Fatalf("files ok = %d, want 3", stats.FilesOK)
	}
	if len(writer.applied) != 1 {
		t.Fatalf("applied %d combined bundles, want 1", len(writer.applied))
	}
	if len(writer.applied[0].Classes) != 3 {
		t.Fatalf("combined classes = %d, want 3", len(writer.applied[0].Classes))
	}
}

func TestRunSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Keep.java", "package k;\npublic class Keep {}\n")
	buildDir := filepath.Join(dir, "build")
	if err := os.Mkdir(buildDir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, buildDir, "Generated.java", "package g;\npublic class Generated {}\n")

	writer := &fakeWriter{}
	o := New("demo", Config{WorkerCount: 1, BatchSize: 10, Streaming: true}, writer, silentLogger())

	stats, err := o.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesTotal != 1 {
		t.Fatalf("files total = %d, want 1 (build dir should be skipped)", stats.FilesTotal)
	}
}

func TestRunClassNameFilterLimitsToMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UserService.java", "package a;\npublic class UserService {}\n")
	writeFile(t, dir, "OrderService.java", "package a;\npublic class OrderService {}\n")

	writer := &fakeWriter{}
	o := New("demo", Config{WorkerCount: 2, BatchSize: 10, Streaming: true, ClassNameFilter: "UserService"}, writer, silentLogger())

	stats, err := o.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesTotal != 1 {
		t.Fatalf("files total = %d, want 1 (OrderService should be filtered out)", stats.FilesTotal)
	}
	if len(writer.applied) != 1 || len(writer.applied[0].Classes) != 1 || writer.applied[0].Classes[0].Name != "UserService" {
		t.Fatalf("applied = %+v", writer.applied)
	}
}

func TestRunRecordsParseFailureAsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Bad.sql", `CREATE TABLE ((( not valid sql`)

	writer := &fakeWriter{}
	o := New("demo", Config{WorkerCount: 1, BatchSize: 10, Streaming: true}, writer, silentLogger())

	stats, err := o.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesFailed != 1 {
		t.Fatalf("files failed = %d, want 1", stats.FilesFailed)
	}
	if len(stats.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for the bad file")
	}
}

func TestProgressLoggerLogsOnEachNewDecile(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	pl := NewProgressLogger(logger, 10)

	for i := 1; i <= 10; i++ {
		pl.Observe(i)
	}

	lines := buf.lineCount()
	if lines != 10 {
		t.Fatalf("logged %d progress lines, want one per decile (10)", lines)
	}
}

func TestProgressLoggerNoopsWhenTotalIsZero(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	pl := NewProgressLogger(logger, 0)

	pl.Observe(1)

	if buf.lineCount() != 0 {
		t.Fatalf("expected no progress logs when total is 0")
	}
}

func TestGracePeriodDefaultsWhenUnset(t *testing.T) {
	if got := (Config{}).gracePeriod(); got != defaultGracePeriod {
		t.Fatalf("gracePeriod() = %v, want default %v", got, defaultGracePeriod)
	}
	if got := (Config{GracePeriod: 5 * time.Second}).gracePeriod(); got != 5*time.Second {
		t.Fatalf("gracePeriod() = %v, want configured 5s", got)
	}
}

func TestWithGracePeriodDelaysDoneUntilGraceElapses(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	defer cancelParent()
	drainCtx, cancelDrain := withGracePeriod(parent, 40*time.Millisecond)
	defer cancelDrain()

	cancelParent()

	select {
	case <-drainCtx.Done():
		t.Fatal("drainCtx should stay alive during the grace period")
	case <-time.After(10 * time.Millisecond):
	}

	select {
	case <-drainCtx.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("drainCtx should be cancelled once the grace period elapses")
	}
}

func TestWithGracePeriodCancelIsImmediate(t *testing.T) {
	drainCtx, cancelDrain := withGracePeriod(context.Background(), time.Hour)
	cancelDrain()

	select {
	case <-drainCtx.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("cancelDrain should cancel drainCtx without waiting for the grace period")
	}
}
