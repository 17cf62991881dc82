package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kotae42/romaudit-cli/internal/fileutil"
)

// Holding manages one numbered holding area, e.g. duplicates1, duplicates2.
// The directory is allocated on first use so an empty run leaves nothing
// behind, and numbering probes upward so prior runs' areas are never
// clobbered. A single writer drives Route, matching the aggregation model.
type Holding struct {
	root   string
	prefix string
	dir    string
	routed int
}

// NewHolding prepares a holding area under root with the given name prefix.
func NewHolding(root, prefix string) *Holding {
	return &Holding{root: root, prefix: prefix}
}

// Dir returns the allocated directory, or the empty string when nothing
// has been routed yet.
func (h *Holding) Dir() string { return h.dir }

// Count returns how many files have been routed this run.
func (h *Holding) Count() int { return h.routed }

// Route moves source into the holding area, allocating the numbered
// directory on first call. Name collisions inside the area get a numeric
// suffix rather than overwriting.
func (h *Holding) Route(source string) (string, error) {
	if h.dir == "" {
		dir, err := h.allocate()
		if err != nil {
			return "", err
		}
		h.dir = dir
	}

	dest, err := h.freeName(filepath.Base(source))
	if err != nil {
		return "", err
	}
	if err := fileutil.MoveFile(source, dest); err != nil {
		return "", fmt.Errorf("move %s to holding: %w", source, err)
	}
	h.routed++
	return dest, nil
}

// allocate claims the lowest unused numbered directory. Mkdir is the probe:
// it either creates the directory or reports that the number is taken.
func (h *Holding) allocate() (string, error) {
	for n := 1; ; n++ {
		dir := filepath.Join(h.root, fmt.Sprintf("%s%d", h.prefix, n))
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return "", fmt.Errorf("allocate holding area: %w", err)
	}
}

// IsHoldingArea reports whether name is a numbered holding directory for
// any of the prefixes, i.e. a prefix followed by one or more digits. Both
// the scan walk and the empty-directory sweep use it so areas left by
// prior runs are never re-scanned or removed.
func IsHoldingArea(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		digits := true
		for _, r := range rest {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			return true
		}
	}
	return false
}

func (h *Holding) freeName(base string) (string, error) {
	candidate := filepath.Join(h.dir, base)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe holding name: %w", err)
		}
		candidate = filepath.Join(h.dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}
