// Package summary implements the run summary and lifecycle component
// (C7): it wraps a run with a correlation ID, times each phase, and
// emits the structured diagnostics record spec.md §7 defines (files_total,
// files_ok, files_failed, nodes_by_kind, edges_by_kind, duration_per_phase,
// diagnostics[]). Grounded on internal/ingestion/pipeline.go's "stage
// started"/"stage completed" idiom and its IndexRunContext stat counters,
// adapted from a Postgres-backed IndexRun row (this engine has no staging
// datastore) to an in-memory record the caller logs and returns.
package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/codegraph-labs/springgraph/internal/orchestrate"
	"github.com/codegraph-labs/springgraph/internal/resolver"
	"github.com/codegraph-labs/springgraph/pkg/apperr"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

// Counter queries the graph store for authoritative post-run node and
// edge counts, since spec.md §4.7 requires the final tallies to be
// "queried back from the graph store after completion" rather than taken
// on faith from in-flight bundle accumulation (a retried or split write
// can otherwise double-count).
type Counter interface {
	CountsByLabel(ctx context.Context, projectName string) (map[models.NodeLabel]int64, map[models.EdgeLabel]int64, error)
}

// RunSummary is the structured record emitted at the end of an analyze
// run, per spec.md §7's propagation policy ("user-visible output is a
// structured run summary").
type RunSummary struct {
	RunID       string
	ProjectName string
	StartedAt   time.Time
	FinishedAt  time.Time

	DurationPerPhase map[string]time.Duration

	FilesTotal  int
	FilesOK     int
	FilesFailed int

	NodesByKind map[models.NodeLabel]int64
	EdgesByKind map[models.EdgeLabel]int64

	ResolverPasses []resolver.PassResult
	Diagnostics    []string

	ExitCode int
}

// Run tracks one analyze invocation end to end: phase timings, the
// orchestrator's stats, the resolver's pass results, and the final
// counts queried back from the store.
type Run struct {
	id          string
	projectName string
	logger      *slog.Logger
	started     time.Time

	phaseDurations map[string]time.Duration
	phaseStarted   time.Time
	currentPhase   string
}

// NewRun starts a new run record, logging "pipeline started" in the
// teacher's idiom.
func NewRun(projectName string, logger *slog.Logger) *Run {
	r := &Run{
		id:             uuid.NewString(),
		projectName:    projectName,
		logger:         logger,
		started:        time.Now(),
		phaseDurations: map[string]time.Duration{},
	}
	r.logger.Info("pipeline started", slog.String("run_id", r.id), slog.String("project", projectName))
	return r
}

// StartPhase closes out whatever phase was previously open and begins
// timing name, logging "stage started" per the teacher's pipeline idiom.
func (r *Run) StartPhase(name string) {
	r.closeCurrentPhase()
	r.currentPhase = name
	r.phaseStarted = time.Now()
	r.logger.Info("stage started", slog.String("run_id", r.id), slog.String("stage", name))
}

func (r *Run) closeCurrentPhase() {
	if r.currentPhase == "" {
		return
	}
	d := time.Since(r.phaseStarted)
	r.phaseDurations[r.currentPhase] += d
	r.logger.Info("stage completed", slog.String("run_id", r.id),
		slog.String("stage", r.currentPhase), slog.Duration("elapsed", d))
	r.currentPhase = ""
}

// Finish closes the run: stops the active phase, queries the graph
// store for authoritative counts via counter (nil skips the query, e.g.
// when the run aborted before the store was usable), and assembles the
// final RunSummary. It never returns an error itself — a counting
// failure is recorded as a diagnostic so the summary is still emitted.
// missingTables carries spec.md §4.6.3's missing_table diagnostic
// (resolver.Engine.MissingTableReferences), one entry per statement that
// referenced a table with no matching DDL declaration.
func (r *Run) Finish(ctx context.Context, stats *orchestrate.RunStats, passes []resolver.PassResult, missingTables []string, counter Counter) *RunSummary {
	r.closeCurrentPhase()
	finished := time.Now()

	summary := &RunSummary{
		RunID:            r.id,
		ProjectName:      r.projectName,
		StartedAt:        r.started,
		FinishedAt:       finished,
		DurationPerPhase: r.phaseDurations,
		ResolverPasses:   passes,
	}

	if stats != nil {
		summary.FilesTotal = stats.FilesTotal
		summary.FilesOK = stats.FilesOK
		summary.FilesFailed = stats.FilesFailed
		summary.Diagnostics = append(summary.Diagnostics, stats.Diagnostics...)
	}
	for _, p := range passes {
		if p.Err != nil {
			summary.Diagnostics = append(summary.Diagnostics, p.Err.Error())
		}
	}
	for _, m := range missingTables {
		summary.Diagnostics = append(summary.Diagnostics, "missing_table: "+m)
	}

	summary.NodesByKind = map[models.NodeLabel]int64{}
	summary.EdgesByKind = map[models.EdgeLabel]int64{}
	if counter != nil {
		nodes, edges, err := counter.CountsByLabel(ctx, r.projectName)
		if err != nil {
			summary.Diagnostics = append(summary.Diagnostics, "count query failed: "+err.Error())
		} else {
			summary.NodesByKind, summary.EdgesByKind = nodes, edges
		}
	}

	summary.ExitCode = exitCodeFor(summary)

	r.logger.Info("pipeline completed",
		slog.String("run_id", r.id),
		slog.Int("files_ok", summary.FilesOK), slog.Int("files_failed", summary.FilesFailed),
		slog.Int("exit_code", summary.ExitCode))
	return summary
}

// exitCodeFor maps a completed run's outcome to spec.md §6's exit codes.
// A run that reaches Finish already cleared ConfigError/fatal territory
// (those abort before a summary exists); the remaining distinction is
// success versus a partial run (file or resolver-pass failures).
func exitCodeFor(s *RunSummary) int {
	if s.FilesFailed > 0 {
		return apperr.ExitPartialFailure
	}
	for _, p := range s.ResolverPasses {
		if p.Err != nil {
			return apperr.ExitPartialFailure
		}
	}
	return apperr.ExitSuccess
}

// NoopWriter discards every bundle instead of writing it, for --dry-run:
// the orchestrator still walks, parses, and extracts every file and
// tallies its RunStats from what it produced, it just never reaches the
// graph store (spec.md §4.7).
type NoopWriter struct{}

func (NoopWriter) Apply(context.Context, *models.ArtifactBundle) error { return nil }
