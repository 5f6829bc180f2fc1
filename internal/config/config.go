// Package config loads runtime configuration from the environment (and an
// optional .env file), the same getEnv/getEnvInt/getEnvBool-over-godotenv
// pattern the teacher uses for its service configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration for the analyze command.
type Config struct {
	Neo4j   Neo4jConfig
	Sources SourceConfig
	Worker  WorkerConfig
	LogLevel string
}

// Neo4jConfig holds the graph store connection settings.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	Database string
}

// SourceConfig points at the Java and DDL trees to walk.
type SourceConfig struct {
	JavaRoot string
	DDLRoot  string
}

// WorkerConfig bounds the orchestrator's concurrency and batching.
type WorkerConfig struct {
	Count       int
	BatchSize   int
	Streaming   bool
	GracePeriod time.Duration
}

// Load reads configuration from the environment, seeding it first from a
// .env file in the working directory if one is present. A missing .env is
// not an error — the zero-config default is production environment
// variables set directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "springgraph"),
			Database: getEnv("NEO4J_DATABASE", "neo4j"),
		},
		Sources: SourceConfig{
			JavaRoot: getEnv("JAVA_SOURCE_ROOT", "."),
			DDLRoot:  getEnv("DDL_SOURCE_ROOT", "."),
		},
		Worker: WorkerConfig{
			Count:       getEnvInt("WORKER_COUNT", 8),
			BatchSize:   getEnvInt("BATCH_SIZE", 200),
			Streaming:   getEnvBool("STREAMING", true),
			GracePeriod: time.Duration(getEnvInt("GRACE_PERIOD_SECONDS", 30)) * time.Second,
		},
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
