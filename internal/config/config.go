package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of a run.
type Paths struct {
	// ScanRoot is the tree scanned for candidate files.
	ScanRoot string `toml:"scan_root"`
	// OutputDir receives organized placements (per-group containers or
	// flat files). Relative values resolve against ScanRoot.
	OutputDir string `toml:"output_dir"`
	// LogDir receives log output and per-run reports.
	LogDir string `toml:"log_dir"`
	// DataDir holds the state store snapshot, fingerprint cache blob,
	// scan markers, run history, and the run lock.
	DataDir string `toml:"data_dir"`
	// Catalog optionally pins the catalog file; empty means auto-detect
	// in ScanRoot.
	Catalog string `toml:"catalog"`
}

// Hashing contains the content hashing strategy.
type Hashing struct {
	// Algorithms is the set of digests to compute per file.
	Algorithms []string `toml:"algorithms"`
	// BufferSizeKiB sizes the sequential read buffer for small files.
	BufferSizeKiB int `toml:"buffer_size_kib"`
	// MmapThresholdMiB is the file size at which hashing switches from
	// buffered reads to a mapped view.
	MmapThresholdMiB int `toml:"mmap_threshold_mib"`
	// Workers bounds the hashing pool; 0 means available parallelism.
	Workers int `toml:"workers"`
}

// Naming contains the single-member placement similarity settings.
type Naming struct {
	StopWords           []string `toml:"stop_words"`
	SimilarityTolerance float64  `toml:"similarity_tolerance"`
}

// Holding contains the numbered holding-area prefixes.
type Holding struct {
	DuplicatePrefix string `toml:"duplicate_prefix"`
	UnknownPrefix   string `toml:"unknown_prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for romaudit.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Hashing Hashing `toml:"hashing"`
	Naming  Naming  `toml:"naming"`
	Holding Holding `toml:"holding"`
	Logging Logging `toml:"logging"`

	algorithms []catalog.Algorithm
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/romaudit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("romaudit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run mutates.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Algorithms returns the parsed hash algorithm set in canonical order.
func (c *Config) Algorithms() []catalog.Algorithm {
	return c.algorithms
}

// BufferSize returns the sequential read buffer size in bytes.
func (c *Config) BufferSize() int {
	return c.Hashing.BufferSizeKiB * 1024
}

// MmapThreshold returns the mapped-view size threshold in bytes.
func (c *Config) MmapThreshold() int64 {
	return int64(c.Hashing.MmapThresholdMiB) * 1024 * 1024
}

// StatePath returns the placement snapshot location.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.DataDir, "placements.json")
}

// MarkersPath returns the scan-marker snapshot location.
func (c *Config) MarkersPath() string {
	return filepath.Join(c.Paths.DataDir, "scan_markers.json")
}

// CachePath returns the fingerprint cache blob location.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.DataDir, "fingerprints.cache")
}

// HistoryPath returns the run-history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LockPath returns the single-instance run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "romaudit.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
