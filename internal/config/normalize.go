package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Normalize expands and resolves every path field and canonicalizes the
// hash algorithm set. Relative directories resolve against the scan root.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHashing(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScanRoot) == "" {
		c.Paths.ScanRoot = defaultScanRoot
	}
	if c.Paths.ScanRoot, err = expandPath(c.Paths.ScanRoot); err != nil {
		return fmt.Errorf("paths.scan_root: %w", err)
	}
	if c.Paths.OutputDir, err = c.resolveAgainstRoot(c.Paths.OutputDir, defaultOutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = c.resolveAgainstRoot(c.Paths.LogDir, defaultLogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DataDir, err = c.resolveAgainstRoot(c.Paths.DataDir, defaultDataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Catalog) != "" {
		if c.Paths.Catalog, err = c.resolveAgainstRoot(c.Paths.Catalog, ""); err != nil {
			return fmt.Errorf("paths.catalog: %w", err)
		}
	}
	return nil
}

func (c *Config) resolveAgainstRoot(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if strings.HasPrefix(value, "~") {
		return expandPath(value)
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value), nil
	}
	return filepath.Join(c.Paths.ScanRoot, value), nil
}

func (c *Config) normalizeHashing() error {
	if len(c.Hashing.Algorithms) == 0 {
		c.Hashing.Algorithms = defaultAlgorithms()
	}
	if c.Hashing.BufferSizeKiB <= 0 {
		c.Hashing.BufferSizeKiB = defaultBufferSizeKiB
	}
	if c.Hashing.MmapThresholdMiB <= 0 {
		c.Hashing.MmapThresholdMiB = defaultMmapThresholdMiB
	}
	if c.Hashing.Workers < 0 {
		c.Hashing.Workers = 0
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
