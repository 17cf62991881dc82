package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

// Validate ensures the configuration is usable and caches derived values.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateHashing(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateHolding(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == c.Paths.ScanRoot {
		return errors.New("paths.output_dir must not equal paths.scan_root")
	}
	return nil
}

func (c *Config) validateHashing() error {
	parsed := make([]catalog.Algorithm, 0, len(c.Hashing.Algorithms))
	seen := make(map[catalog.Algorithm]struct{}, len(c.Hashing.Algorithms))
	for _, raw := range c.Hashing.Algorithms {
		algo, err := catalog.ParseAlgorithm(raw)
		if err != nil {
			return fmt.Errorf("hashing.algorithms: %w", err)
		}
		if _, dup := seen[algo]; dup {
			return fmt.Errorf("hashing.algorithms: %q listed twice", raw)
		}
		seen[algo] = struct{}{}
		parsed = append(parsed, algo)
	}
	if len(parsed) == 0 {
		return errors.New("hashing.algorithms must list at least one algorithm")
	}
	c.algorithms = parsed
	return nil
}

func (c *Config) validateNaming() error {
	if c.Naming.SimilarityTolerance < 0 || c.Naming.SimilarityTolerance > 1 {
		return errors.New("naming.similarity_tolerance must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateHolding() error {
	dup := strings.TrimSpace(c.Holding.DuplicatePrefix)
	unk := strings.TrimSpace(c.Holding.UnknownPrefix)
	if dup == "" || unk == "" {
		return errors.New("holding prefixes must not be empty")
	}
	if dup == unk {
		return errors.New("holding.duplicate_prefix and holding.unknown_prefix must differ")
	}
	if strings.ContainsAny(dup, "/\\") || strings.ContainsAny(unk, "/\\") {
		return errors.New("holding prefixes must be bare directory name prefixes")
	}
	c.Holding.DuplicatePrefix = dup
	c.Holding.UnknownPrefix = unk
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
