// cmd/analyze is the engine's one in-scope entry point (spec.md §6):
// it wires configuration, the parser registry, the orchestrator, the
// graph writer, and the resolver together behind the `analyze`
// subcommand. Flag parsing, help text, and the downstream `sequence`/
// `crud-matrix`/`db-call-chain` subcommands are external collaborators
// this package only stubs enough of to keep the surface honest.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codegraph-labs/springgraph/internal/config"
	"github.com/codegraph-labs/springgraph/internal/graphstore"
	"github.com/codegraph-labs/springgraph/internal/orchestrate"
	"github.com/codegraph-labs/springgraph/internal/resolver"
	"github.com/codegraph-labs/springgraph/internal/summary"
	"github.com/codegraph-labs/springgraph/pkg/apperr"
)

var analyzeFlags struct {
	javaObject  bool
	dbObject    bool
	allObjects  bool
	clean       bool
	update      bool
	className   string
	projectName string
	dryRun      bool
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "springgraph",
		Short: "Statically analyzes a Spring-Boot Java tree and DDL scripts into a graph",
	}
	root.AddCommand(newAnalyzeCmd(logger))
	root.AddCommand(newDownstreamStubCmd("sequence"), newDownstreamStubCmd("crud-matrix"), newDownstreamStubCmd("db-call-chain"))

	// analyze's own exit code (spec.md §6: 0/2/3/4) is set by os.Exit
	// inside runAnalyze; a non-nil error here means cobra itself rejected
	// the invocation (unknown flag, unknown subcommand) before runAnalyze
	// ran, which is a usage/configuration problem.
	if err := root.Execute(); err != nil {
		os.Exit(apperr.ExitConfigError)
	}
}

func newAnalyzeCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Parse source and DDL trees and materialize the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runAnalyze(cmd.Context(), logger))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&analyzeFlags.javaObject, "java-object", false, "analyze the Java source tree")
	flags.BoolVar(&analyzeFlags.dbObject, "db-object", false, "analyze the DDL script tree")
	flags.BoolVar(&analyzeFlags.allObjects, "all-objects", false, "analyze both trees (implies --java-object --db-object)")
	flags.BoolVar(&analyzeFlags.clean, "clean", false, "wipe the project subgraph before rebuilding")
	flags.BoolVar(&analyzeFlags.update, "update", false, "upsert only, never wipe existing state")
	flags.StringVar(&analyzeFlags.className, "class-name", "", "limit parsing to files matching this class name; disables resolver passes")
	flags.StringVar(&analyzeFlags.projectName, "project-name", "", "project identity the graph is keyed under (required)")
	flags.BoolVar(&analyzeFlags.dryRun, "dry-run", false, "run ingestion but discard writes")
	return cmd
}

func newDownstreamStubCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s is a downstream consumer of the graph (out of scope here)", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%s is not implemented by this engine; it reads the graph this engine produces", name)
		},
	}
}

// runAnalyze runs one analyze invocation end to end and returns the
// process exit code spec.md §6 defines, logging the reason for anything
// other than success along the way.
func runAnalyze(ctx context.Context, logger *slog.Logger) int {
	if analyzeFlags.clean && analyzeFlags.update {
		err := apperr.ConfigError("--clean and --update are mutually exclusive")
		logger.Error("invalid flags", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}
	if analyzeFlags.projectName == "" {
		err := apperr.ConfigError("--project-name is required")
		logger.Error("invalid flags", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}
	if analyzeFlags.allObjects {
		analyzeFlags.javaObject, analyzeFlags.dbObject = true, true
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		err = apperr.ConfigError(err.Error())
		logger.Error("failed to load config", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}

	client, err := graphstore.NewClient(cfg.Neo4j)
	if err != nil {
		err = apperr.ConfigError(err.Error())
		logger.Error("failed to create graph store client", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}
	defer client.Close(ctx)

	if err := client.Verify(ctx); err != nil {
		err = apperr.ConfigError(err.Error())
		logger.Error("graph store unreachable", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		logger.Warn("ensure indexes failed, writes may be slow", slog.Any("error", err))
	}

	run := summary.NewRun(analyzeFlags.projectName, logger)

	if analyzeFlags.clean {
		run.StartPhase("clean")
		if err := client.ClearProject(ctx, analyzeFlags.projectName); err != nil {
			err = apperr.WriteErrorPermanent(err)
			logger.Error("clean failed", slog.Any("error", err))
			return apperr.ExitCodeFor(err)
		}
	}
	if err := client.EnsureProject(ctx, analyzeFlags.projectName); err != nil {
		err = apperr.WriteErrorPermanent(err)
		logger.Error("ensure project failed", slog.Any("error", err))
		return apperr.ExitCodeFor(err)
	}

	var roots []string
	if analyzeFlags.javaObject {
		roots = append(roots, cfg.Sources.JavaRoot)
	}
	if analyzeFlags.dbObject {
		roots = append(roots, cfg.Sources.DDLRoot)
	}
	if len(roots) == 0 {
		roots = []string{cfg.Sources.JavaRoot, cfg.Sources.DDLRoot}
	}

	var writer orchestrate.Writer = graphstore.NewWriter(client, logger)
	if analyzeFlags.dryRun {
		writer = summary.NoopWriter{}
	}

	orchConfig := orchestrate.Config{
		WorkerCount:     cfg.Worker.Count,
		BatchSize:       cfg.Worker.BatchSize,
		Streaming:       cfg.Worker.Streaming,
		ClassNameFilter: analyzeFlags.className,
		GracePeriod:     cfg.Worker.GracePeriod,
	}
	orch := orchestrate.New(analyzeFlags.projectName, orchConfig, writer, logger)

	run.StartPhase("ingest")
	stats, runErr := orch.Run(ctx, roots)

	// --class-name narrows the run to matching files and disables the
	// resolver passes (spec.md §6); a failed ingest also skips them,
	// since resolver passes assume a complete file stream.
	var passes []resolver.PassResult
	var missingTables []string
	if runErr == nil && analyzeFlags.className == "" {
		run.StartPhase("resolve")
		engine := resolver.NewEngine(client, logger)
		passes = engine.Resolve(ctx, analyzeFlags.projectName)
		if missing, err := engine.MissingTableReferences(ctx, analyzeFlags.projectName); err != nil {
			logger.Warn("missing-table diagnostic query failed", slog.Any("error", err))
		} else {
			missingTables = missing
		}
	}

	var counter summary.Counter
	if !analyzeFlags.dryRun {
		counter = client
	}
	result := run.Finish(ctx, stats, passes, missingTables, counter)

	if runErr != nil {
		logger.Error("analyze failed", slog.Any("error", runErr))
		return apperr.ExitCodeFor(runErr)
	}
	return result.ExitCode
}
