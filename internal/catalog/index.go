package catalog

import (
	"fmt"
	"sort"
)

// Index is the read-only lookup structure built once from parsed entries.
type Index struct {
	byHash  map[Algorithm]map[string][]*Entry
	groups  map[string]*Group
	order   []string
	entries int
}

// NewIndex builds an index from parsed entries. Entries failing validation
// are rejected and abort construction; the catalog parser is expected to
// have filtered malformed records already.
func NewIndex(entries []Entry) (*Index, error) {
	ix := &Index{
		byHash: make(map[Algorithm]map[string][]*Entry),
		groups: make(map[string]*Group),
	}
	for i := range entries {
		entry := &entries[i]
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		group, ok := ix.groups[entry.Group]
		if !ok {
			group = &Group{ID: entry.Group}
			ix.groups[entry.Group] = group
			ix.order = append(ix.order, entry.Group)
		}
		group.Members = append(group.Members, entry)
		for algo, digest := range entry.Hashes {
			bucket := ix.byHash[algo]
			if bucket == nil {
				bucket = make(map[string][]*Entry)
				ix.byHash[algo] = bucket
			}
			bucket[digest] = append(bucket[digest], entry)
		}
		ix.entries++
	}
	return ix, nil
}

// Lookup returns the entries declaring the given digest under the given
// algorithm. The returned slice is shared and must not be mutated.
func (ix *Index) Lookup(algo Algorithm, digest string) []*Entry {
	bucket := ix.byHash[algo]
	if bucket == nil {
		return nil
	}
	return bucket[digest]
}

// Candidates returns the de-duplicated set of entries reachable from any of
// the supplied digests, in deterministic (group, member) order.
func (ix *Index) Candidates(hashes HashSet) []*Entry {
	seen := make(map[*Entry]struct{})
	var out []*Entry
	for algo, digest := range hashes {
		for _, entry := range ix.Lookup(algo, digest) {
			if _, dup := seen[entry]; dup {
				continue
			}
			seen[entry] = struct{}{}
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Group returns the group aggregate for the given identifier.
func (ix *Index) Group(id string) (*Group, bool) {
	group, ok := ix.groups[id]
	return group, ok
}

// Groups returns every group in catalog order.
func (ix *Index) Groups() []*Group {
	out := make([]*Group, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.groups[id])
	}
	return out
}

// GroupCount returns the number of distinct groups.
func (ix *Index) GroupCount() int { return len(ix.groups) }

// EntryCount returns the number of indexed entries.
func (ix *Index) EntryCount() int { return ix.entries }
