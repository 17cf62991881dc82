package organizer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fileutil"
	"github.com/kotae42/romaudit-cli/internal/hashing"
	"github.com/kotae42/romaudit-cli/internal/logging"
	"github.com/kotae42/romaudit-cli/internal/state"
	"github.com/kotae42/romaudit-cli/internal/textutil"
)

// ErrVerification marks a post-copy digest mismatch. The copy is removed
// and the placement abandoned; the run continues.
var ErrVerification = errors.New("placement verification failed")

// Options configures an Organizer.
type Options struct {
	OutputDir     string
	Layout        *Layout
	BufferSize    int
	MmapThreshold int64
	Logger        *slog.Logger
}

// Organizer copies verified files into the output tree. It is driven from
// the single aggregation goroutine, so placements within one run never
// race on a destination path.
type Organizer struct {
	outputDir     string
	layout        *Layout
	bufferSize    int
	mmapThreshold int64
	logger        *slog.Logger
}

// New returns an Organizer writing beneath opts.OutputDir.
func New(opts Options) *Organizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Organizer{
		outputDir:     opts.OutputDir,
		layout:        opts.Layout,
		bufferSize:    opts.BufferSize,
		mmapThreshold: opts.MmapThreshold,
		logger:        logger.With(logging.String(logging.FieldComponent, "organizer")),
	}
}

// Destination returns the output-relative path an entry would be placed at.
func (o *Organizer) Destination(entry *catalog.Entry) string {
	name := textutil.SanitizeFileName(entry.Name)
	if !o.layout.Container(entry.Group) {
		return name
	}
	parts := []string{textutil.SanitizeFileName(entry.Group)}
	if entry.SubPath != "" {
		for _, component := range strings.Split(entry.SubPath, "/") {
			if sanitized := textutil.SanitizeFileName(component); sanitized != "" {
				parts = append(parts, sanitized)
			}
		}
	}
	parts = append(parts, name)
	return filepath.Join(parts...)
}

// Place copies source to the entry's destination and verifies the copy
// against every digest the catalog declares before returning a placement
// record. A mismatch removes the copy and returns ErrVerification; the
// source file is never modified.
func (o *Organizer) Place(entry *catalog.Entry, source string) (state.PlacementRecord, error) {
	rel := o.Destination(entry)
	dest := filepath.Join(o.outputDir, rel)

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return state.PlacementRecord{}, fmt.Errorf("create destination directory: %w", err)
		}
	}
	if err := fileutil.CopyFile(source, dest); err != nil {
		return state.PlacementRecord{}, fmt.Errorf("copy %s to %s: %w", source, rel, err)
	}
	if err := o.verify(entry, dest); err != nil {
		if removeErr := os.Remove(dest); removeErr != nil {
			o.logger.Warn("could not remove unverified copy",
				logging.String(logging.FieldPath, dest),
				logging.Error(removeErr))
		}
		return state.PlacementRecord{}, err
	}

	return state.PlacementRecord{
		Group:       entry.Group,
		Member:      entry.Name,
		Destination: rel,
		Hashes:      entry.Hashes.Clone(),
		PlacedAt:    time.Now().UTC(),
	}, nil
}

// verify re-hashes the destination with exactly the algorithms the entry
// declares and compares every digest.
func (o *Organizer) verify(entry *catalog.Entry, dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("stat placed copy: %w", err)
	}
	algos := make([]catalog.Algorithm, 0, len(entry.Hashes))
	for _, algo := range catalog.Algorithms {
		if _, declared := entry.Hashes[algo]; declared {
			algos = append(algos, algo)
		}
	}
	digests, err := hashing.File(dest, info.Size(), algos, o.bufferSize, o.mmapThreshold)
	if err != nil {
		return fmt.Errorf("%w: rehash %s: %w", ErrVerification, entry.Key(), err)
	}
	if !digests.Equal(entry.Hashes) {
		return fmt.Errorf("%w: %s digests diverge at destination", ErrVerification, entry.Key())
	}
	return nil
}
