// Package scanner walks the scan root and produces the ordered list of
// candidate files for a run. The walk excludes the catalog source, the
// output, log, and data directories, prior runs' holding areas, and
// leftover temporary files, so downstream stages never see the engine's
// own artifacts.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kotae42/romaudit-cli/internal/organizer"
)

// Options controls which paths a walk yields.
type Options struct {
	// CatalogPath is the catalog source file to skip; may be empty.
	CatalogPath string
	// ExcludeDirs lists directory trees to skip entirely, as absolute
	// paths. The output, log, and data directories belong here.
	ExcludeDirs []string
	// HoldingPrefixes lists the numbered holding-area name prefixes.
	// Directories under the root whose name starts with a prefix
	// followed by digits are skipped.
	HoldingPrefixes []string
}

// Walk returns every candidate file beneath root in case-insensitive
// lexical order. Directories are traversed depth-first; unreadable
// directories abort the walk with an error rather than silently dropping
// files.
func Walk(root string, opts Options) ([]string, error) {
	excluded := make(map[string]struct{}, len(opts.ExcludeDirs))
	for _, dir := range opts.ExcludeDirs {
		excluded[filepath.Clean(dir)] = struct{}{}
	}
	catalogPath := filepath.Clean(opts.CatalogPath)

	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := excluded[filepath.Clean(path)]; skip {
				return filepath.SkipDir
			}
			if filepath.Dir(path) == root && organizer.IsHoldingArea(entry.Name(), opts.HoldingPrefixes) {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.CatalogPath != "" && filepath.Clean(path) == catalogPath {
			return nil
		}
		if strings.HasSuffix(entry.Name(), ".tmp") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		a, b := strings.ToLower(files[i]), strings.ToLower(files[j])
		if a != b {
			return a < b
		}
		return files[i] < files[j]
	})
	return files, nil
}
