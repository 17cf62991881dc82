package match

import (
	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/state"
)

// Matcher resolves computed digests against the catalog and the placement
// store. The index is immutable and the store serializes its own access, so
// a single Matcher is safe to use from the aggregation goroutine.
type Matcher struct {
	index *catalog.Index
	store *state.Store
}

// New returns a matcher over the given index and store.
func New(index *catalog.Index, store *state.Store) *Matcher {
	return &Matcher{index: index, store: store}
}

// Classify resolves one file's digests. A candidate entry matches only when
// the computed set covers every algorithm the entry declares and every one
// of those digests agrees; partial agreement under a subset of algorithms is
// not a match. When every matched entry already has a placement the file is
// a duplicate, otherwise the result carries the entries still awaiting a
// copy.
func (m *Matcher) Classify(hashes catalog.HashSet) Result {
	var matched, unplaced []*catalog.Entry
	for _, entry := range m.index.Candidates(hashes) {
		common, agree := hashes.AgreesOn(entry.Hashes)
		if !agree || common != len(entry.Hashes) {
			continue
		}
		matched = append(matched, entry)
		if _, placed := m.store.Placement(entry.Group, entry.Name); !placed {
			unplaced = append(unplaced, entry)
		}
	}
	switch {
	case len(matched) == 0:
		return Result{Kind: KindUnknown}
	case len(unplaced) == 0:
		return Result{Kind: KindKnownDuplicate}
	default:
		return Result{Kind: KindKnownUnplaced, Entries: unplaced}
	}
}
