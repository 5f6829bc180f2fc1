package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USER", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("WORKER_COUNT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neo4j.URI != "bolt://localhost:7687" {
		t.Fatalf("URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Worker.Count != 8 {
		t.Fatalf("WorkerCount = %d, want 8", cfg.Worker.Count)
	}
	if !cfg.Worker.Streaming {
		t.Fatalf("Streaming = false, want true by default")
	}
	if cfg.Worker.GracePeriod != 30*time.Second {
		t.Fatalf("GracePeriod = %v, want 30s default", cfg.Worker.GracePeriod)
	}
}

func TestLoadGracePeriodFromEnv(t *testing.T) {
	t.Setenv("GRACE_PERIOD_SECONDS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Worker.GracePeriod != 10*time.Second {
		t.Fatalf("GracePeriod = %v, want 10s", cfg.Worker.GracePeriod)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://neo4j.internal:7687")
	t.Setenv("WORKER_COUNT", "16")
	t.Setenv("STREAMING", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neo4j.URI != "bolt://neo4j.internal:7687" {
		t.Fatalf("URI = %q", cfg.Neo4j.URI)
	}
	if cfg.Worker.Count != 16 {
		t.Fatalf("WorkerCount = %d, want 16", cfg.Worker.Count)
	}
	if cfg.Worker.Streaming {
		t.Fatalf("Streaming = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want lowercased", cfg.LogLevel)
	}
}
