package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, _, exists, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if cfg.Holding.DuplicatePrefix != "duplicates" || cfg.Holding.UnknownPrefix != "unknown" {
		t.Fatalf("unexpected holding defaults: %+v", cfg.Holding)
	}
	if got := cfg.Algorithms(); len(got) != 3 {
		t.Fatalf("expected 3 default algorithms, got %v", got)
	}
	if cfg.BufferSize() != 1024*1024 {
		t.Fatalf("unexpected buffer size %d", cfg.BufferSize())
	}
	if cfg.MmapThreshold() != 10*1024*1024 {
		t.Fatalf("unexpected mmap threshold %d", cfg.MmapThreshold())
	}
}

func TestLoadResolvesRelativePathsAgainstScanRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "romaudit.toml")
	content := "[paths]\nscan_root = \"" + dir + "\"\noutput_dir = \"sorted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%s", exists, resolved)
	}
	if want := filepath.Join(dir, "sorted"); cfg.Paths.OutputDir != want {
		t.Fatalf("OutputDir = %s, want %s", cfg.Paths.OutputDir, want)
	}
	if want := filepath.Join(dir, ".romaudit"); cfg.Paths.DataDir != want {
		t.Fatalf("DataDir = %s, want %s", cfg.Paths.DataDir, want)
	}
	if cfg.StatePath() != filepath.Join(cfg.Paths.DataDir, "placements.json") {
		t.Fatalf("unexpected state path %s", cfg.StatePath())
	}
}

func TestLoadRejectsBadAlgorithm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "romaudit.toml")
	content := "[hashing]\nalgorithms = [\"sha512\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestValidateRejectsBadTolerance(t *testing.T) {
	cfg := config.Default()
	cfg.Naming.SimilarityTolerance = 1.5
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for tolerance above 1")
	}
}

func TestValidateRejectsEqualHoldingPrefixes(t *testing.T) {
	cfg := config.Default()
	cfg.Holding.UnknownPrefix = cfg.Holding.DuplicatePrefix
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for equal holding prefixes")
	}
}

func TestAlgorithmAliases(t *testing.T) {
	algo, err := catalog.ParseAlgorithm("CRC")
	if err != nil || algo != catalog.CRC32 {
		t.Fatalf("ParseAlgorithm(CRC) = %v, %v", algo, err)
	}
	if _, err := catalog.ParseAlgorithm("whirlpool"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected sample config content")
	}
}
