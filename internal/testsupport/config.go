package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config rooted in a unique temp directory
// per test. The scan root is the temp directory itself; output, logs, and
// data live beneath it the way a default run lays them out.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ScanRoot = base
	cfg.Paths.OutputDir = filepath.Join(base, "roms")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DataDir = filepath.Join(base, ".romaudit")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}

// WithAlgorithms overrides the hash algorithm set.
func WithAlgorithms(algos ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Hashing.Algorithms = algos
	}
}

// WithTolerance overrides the name similarity tolerance.
func WithTolerance(tolerance float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Naming.SimilarityTolerance = tolerance
	}
}

// WithWorkers pins the hashing worker count.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Hashing.Workers = workers
	}
}
