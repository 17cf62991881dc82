package audit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/config"
	"github.com/kotae42/romaudit-cli/internal/dat"
	"github.com/kotae42/romaudit-cli/internal/fingerprint"
	"github.com/kotae42/romaudit-cli/internal/hashing"
	"github.com/kotae42/romaudit-cli/internal/history"
	"github.com/kotae42/romaudit-cli/internal/logging"
	"github.com/kotae42/romaudit-cli/internal/match"
	"github.com/kotae42/romaudit-cli/internal/organizer"
	"github.com/kotae42/romaudit-cli/internal/report"
	"github.com/kotae42/romaudit-cli/internal/scanner"
	"github.com/kotae42/romaudit-cli/internal/state"
	"github.com/kotae42/romaudit-cli/internal/textutil"
)

// checkpointInterval is how many new placements accumulate between interim
// store commits.
const checkpointInterval = 250

// Engine wires every component of a run together.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New returns an Engine for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run executes one full audit pass. Per-file failures are counted in the
// returned summary; the error return is reserved for fatal conditions
// (catalog load, store durability, instance lock).
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := e.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	if err := e.cfg.EnsureDirectories(); err != nil {
		return summary, Wrap(ErrStore, "prepare", "create directories", err)
	}

	lock := flock.New(e.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return summary, Wrap(ErrStore, "lock", e.cfg.LockPath(), err)
	}
	if !locked {
		return summary, Wrap(ErrLocked, "lock", "another instance holds "+e.cfg.LockPath(), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("could not release run lock", logging.Error(err))
		}
	}()

	index, catalogPath, err := e.loadCatalog(logger)
	if err != nil {
		return summary, err
	}
	summary.CatalogPath = catalogPath
	summary.GroupsTotal = index.GroupCount()
	summary.EntriesTotal = index.EntryCount()

	store, err := state.Load(e.cfg.StatePath(), e.cfg.MarkersPath())
	if err != nil {
		return summary, Wrap(ErrStore, "load", "placement snapshot", err)
	}
	e.reconcile(store, logger)

	cache := fingerprint.Open(e.cfg.CachePath())

	stop := textutil.NewStopWords(e.cfg.Naming.StopWords)
	layout := organizer.NewLayout(index, stop, e.cfg.Naming.SimilarityTolerance)
	org := organizer.New(organizer.Options{
		OutputDir:     e.cfg.Paths.OutputDir,
		Layout:        layout,
		BufferSize:    e.cfg.BufferSize(),
		MmapThreshold: e.cfg.MmapThreshold(),
		Logger:        logger,
	})
	matcher := match.New(index, store)
	duplicates := organizer.NewHolding(e.cfg.Paths.ScanRoot, e.cfg.Holding.DuplicatePrefix)
	unknowns := organizer.NewHolding(e.cfg.Paths.ScanRoot, e.cfg.Holding.UnknownPrefix)

	identities := e.collect(store, catalogPath, summary, logger)

	if err := e.process(ctx, identities, cache, matcher, org, store, duplicates, unknowns, summary, logger); err != nil {
		return summary, err
	}

	if err := store.Commit(); err != nil {
		return summary, Wrap(ErrStore, "commit", "final snapshot", err)
	}
	if err := cache.Save(); err != nil {
		logger.Warn("could not persist fingerprint cache", logging.Error(err))
	}

	removed, err := organizer.SweepEmptyDirs(e.cfg.Paths.ScanRoot,
		[]string{
			e.cfg.Paths.OutputDir,
			e.cfg.Paths.LogDir,
			e.cfg.Paths.DataDir,
		},
		[]string{
			e.cfg.Holding.DuplicatePrefix,
			e.cfg.Holding.UnknownPrefix,
		})
	if err != nil {
		logger.Warn("empty directory sweep failed", logging.Error(err))
	}
	summary.EmptyDirsRemoved = removed

	e.finish(index, store, layout, cache, duplicates, unknowns, summary, logger)

	if summary.Interrupted {
		logger.Info("run interrupted, state committed",
			logging.Int("placed", summary.Placed))
	}
	return summary, nil
}

func (e *Engine) loadCatalog(logger *slog.Logger) (*catalog.Index, string, error) {
	catalogPath, err := dat.Detect(e.cfg.Paths.ScanRoot, e.cfg.Paths.Catalog)
	if err != nil {
		return nil, "", Wrap(ErrCatalog, "detect", e.cfg.Paths.ScanRoot, err)
	}
	parsed, err := dat.ParseFile(catalogPath)
	if err != nil {
		return nil, "", Wrap(ErrCatalog, "parse", catalogPath, err)
	}
	if parsed.Skipped > 0 {
		logger.Warn("catalog entries rejected",
			logging.Int("skipped", parsed.Skipped),
			logging.String(logging.FieldPath, catalogPath))
	}
	index, err := catalog.NewIndex(parsed.Entries)
	if err != nil {
		return nil, "", Wrap(ErrCatalog, "index", catalogPath, err)
	}
	logger.Info("catalog loaded",
		logging.String(logging.FieldPath, catalogPath),
		logging.Int("groups", index.GroupCount()),
		logging.Int("entries", index.EntryCount()))
	return index, catalogPath, nil
}

// reconcile drops placement records whose destination file no longer
// exists. When anything is dropped the placed markers are cleared too, so
// the affected source files get reclassified instead of skipped.
func (e *Engine) reconcile(store *state.Store, logger *slog.Logger) {
	dropped := 0
	for _, record := range store.Placements() {
		dest := filepath.Join(e.cfg.Paths.OutputDir, record.Destination)
		if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
			store.DropPlacement(record.Group, record.Member)
			dropped++
		}
	}
	if dropped > 0 {
		store.DropMarkers(state.MarkerPlaced)
		logger.Info("dropped placements with missing destinations",
			logging.Int("dropped", dropped))
	}
}

// collect walks the scan tree and resolves file identities, honoring scan
// markers from prior runs.
func (e *Engine) collect(store *state.Store, catalogPath string, summary *Summary, logger *slog.Logger) []fingerprint.Identity {
	files, err := scanner.Walk(e.cfg.Paths.ScanRoot, scanner.Options{
		CatalogPath: catalogPath,
		ExcludeDirs: []string{
			e.cfg.Paths.OutputDir,
			e.cfg.Paths.LogDir,
			e.cfg.Paths.DataDir,
		},
		HoldingPrefixes: []string{
			e.cfg.Holding.DuplicatePrefix,
			e.cfg.Holding.UnknownPrefix,
		},
	})
	if err != nil {
		summary.InputErrors++
		logger.Warn("scan walk failed", logging.Error(err))
		return nil
	}

	identities := make([]fingerprint.Identity, 0, len(files))
	for _, path := range files {
		id, err := fingerprint.IdentityOf(path)
		if err != nil {
			summary.InputErrors++
			logger.Warn("unreadable source skipped",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			continue
		}
		summary.FilesScanned++
		if _, marked := store.Marker(id); marked {
			summary.SkippedMarked++
			continue
		}
		identities = append(identities, id)
	}
	return identities
}

// process drains the hashing pool from a single goroutine, owning every
// store mutation and holding-area allocation. Cancellation is observed
// between files; in-flight files finish and their results are still
// recorded so the final commit reflects all completed work.
func (e *Engine) process(
	ctx context.Context,
	identities []fingerprint.Identity,
	cache *fingerprint.Cache,
	matcher *match.Matcher,
	org *organizer.Organizer,
	store *state.Store,
	duplicates, unknowns *organizer.Holding,
	summary *Summary,
	logger *slog.Logger,
) error {
	pool := &hashing.Pool{
		Algorithms:    e.cfg.Algorithms(),
		BufferSize:    e.cfg.BufferSize(),
		MmapThreshold: e.cfg.MmapThreshold(),
		Workers:       e.cfg.Hashing.Workers,
		Cache:         cache,
	}

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := pool.Run(poolCtx, identities)

	var fatal error
	uncommitted := 0
	for result := range results {
		if fatal != nil {
			continue // drain after a fatal store failure
		}
		if result.Err != nil {
			summary.InputErrors++
			logger.Warn("could not hash file",
				logging.String(logging.FieldPath, result.Identity.Path),
				logging.Error(result.Err))
			continue
		}
		if !result.FromCache {
			summary.BytesHashed += result.Identity.Size
		}

		switch outcome := matcher.Classify(result.Digests); outcome.Kind {
		case match.KindUnknown:
			e.route(unknowns, result.Identity, state.MarkerUnknown, store, summary, logger)
			summary.UnknownDir = unknowns.Dir()
		case match.KindKnownDuplicate:
			e.route(duplicates, result.Identity, state.MarkerDuplicate, store, summary, logger)
			summary.DuplicateDir = duplicates.Dir()
		case match.KindKnownUnplaced:
			uncommitted += e.place(outcome.Entries, result.Identity, org, store, summary, logger)
		}

		if uncommitted >= checkpointInterval {
			if err := store.Commit(); err != nil {
				fatal = Wrap(ErrStore, "commit", "checkpoint", err)
				cancel()
				continue
			}
			uncommitted = 0
		}
	}
	if fatal != nil {
		return fatal
	}
	if ctx.Err() != nil {
		summary.Interrupted = true
	}

	summary.CacheHits = cache.Hits()
	summary.CacheMisses = cache.Misses()
	return nil
}

func (e *Engine) route(
	holding *organizer.Holding,
	id fingerprint.Identity,
	kind state.MarkerKind,
	store *state.Store,
	summary *Summary,
	logger *slog.Logger,
) {
	dest, err := holding.Route(id.Path)
	if err != nil {
		summary.InputErrors++
		logger.Warn("could not move file to holding",
			logging.String(logging.FieldPath, id.Path),
			logging.Error(err))
		return
	}
	store.SetMarker(id, kind)
	switch kind {
	case state.MarkerDuplicate:
		summary.Duplicates++
	default:
		summary.Unknowns++
	}
	logger.Debug("routed to holding",
		logging.String(logging.FieldPath, id.Path),
		logging.String("destination", dest),
		logging.String("kind", string(kind)))
}

// place copies one source into every group still awaiting it and returns
// the number of new placement records.
func (e *Engine) place(
	entries []*catalog.Entry,
	id fingerprint.Identity,
	org *organizer.Organizer,
	store *state.Store,
	summary *Summary,
	logger *slog.Logger,
) int {
	placed := 0
	for _, entry := range entries {
		record, err := org.Place(entry, id.Path)
		if err != nil {
			if errors.Is(err, organizer.ErrVerification) {
				summary.VerificationFailures++
				logger.Warn("placement failed verification",
					logging.String(logging.FieldGroup, entry.Group),
					logging.String(logging.FieldMember, entry.Name),
					logging.Error(err))
			} else {
				summary.InputErrors++
				logger.Warn("placement failed",
					logging.String(logging.FieldGroup, entry.Group),
					logging.String(logging.FieldMember, entry.Name),
					logging.Error(err))
			}
			continue
		}
		store.SetPlacement(record)
		placed++
		summary.Placed++
		logger.Info("placed",
			logging.String(logging.FieldGroup, entry.Group),
			logging.String(logging.FieldMember, entry.Name),
			logging.String("destination", record.Destination))
	}
	if placed > 0 {
		store.SetMarker(id, state.MarkerPlaced)
	}
	return placed
}

// finish computes the final presence counts, writes the text reports, and
// records the run in history. None of these can fail the run.
func (e *Engine) finish(
	index *catalog.Index,
	store *state.Store,
	layout *organizer.Layout,
	cache *fingerprint.Cache,
	duplicates, unknowns *organizer.Holding,
	summary *Summary,
	logger *slog.Logger,
) {
	for _, group := range index.Groups() {
		if store.HasGroup(group.ID) {
			summary.GroupsPresent++
		}
	}
	summary.FinishedAt = time.Now().UTC()

	if err := report.NewWriter(e.cfg.Paths.LogDir).WriteAll(index, store, layout.Container); err != nil {
		logger.Warn("could not write reports", logging.Error(err))
	}

	ctx, cancelHistory := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelHistory()
	if hist, err := history.Open(ctx, e.cfg.HistoryPath()); err != nil {
		logger.Warn("could not open run history", logging.Error(err))
	} else {
		defer hist.Close()
		err := hist.Record(ctx, history.Run{
			ID:                   summary.RunID,
			StartedAt:            summary.StartedAt,
			FinishedAt:           summary.FinishedAt,
			CatalogPath:          summary.CatalogPath,
			GroupsTotal:          summary.GroupsTotal,
			EntriesTotal:         summary.EntriesTotal,
			FilesScanned:         summary.FilesScanned,
			Placed:               summary.Placed,
			Duplicates:           summary.Duplicates,
			Unknowns:             summary.Unknowns,
			InputErrors:          summary.InputErrors,
			VerificationFailures: summary.VerificationFailures,
			CacheHits:            summary.CacheHits,
			CacheMisses:          summary.CacheMisses,
			BytesHashed:          summary.BytesHashed,
			Interrupted:          summary.Interrupted,
		})
		if err != nil {
			logger.Warn("could not record run history", logging.Error(err))
		}
	}

	logger.Info("run complete",
		logging.Int("groups_present", summary.GroupsPresent),
		logging.Int("groups_missing", summary.GroupsMissing()),
		logging.Int("placed", summary.Placed),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("unknowns", summary.Unknowns),
		logging.Uint64("cache_hits", summary.CacheHits),
		logging.String("hashed", summary.HashedSize()),
		logging.Duration("duration", summary.Duration()))
}
