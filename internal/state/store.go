package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fileutil"
	"github.com/kotae42/romaudit-cli/internal/fingerprint"
)

const snapshotVersion = 1

// Key identifies one catalog member.
type Key struct {
	Group  string
	Member string
}

// PlacementRecord records a verified placement. Records are never mutated;
// a later run's record for the same key supersedes the old one.
type PlacementRecord struct {
	Group       string          `json:"group"`
	Member      string          `json:"member"`
	Destination string          `json:"destination"` // relative to the output root
	Hashes      catalog.HashSet `json:"hashes"`
	PlacedAt    time.Time       `json:"placed_at"`
}

// Key returns the record's (group, member) identity.
func (r PlacementRecord) Key() Key {
	return Key{Group: r.Group, Member: r.Member}
}

// MarkerKind is the classification outcome recorded for a scanned identity.
type MarkerKind string

const (
	MarkerPlaced    MarkerKind = "placed"
	MarkerDuplicate MarkerKind = "duplicate"
	MarkerUnknown   MarkerKind = "unknown"
)

// Marker ties a classification outcome to the exact file state it was
// decided for.
type Marker struct {
	Identity fingerprint.Identity `json:"identity"`
	Kind     MarkerKind           `json:"kind"`
}

type placementSnapshot struct {
	Version int `json:"version"`
	// group -> member -> record
	Placements map[string]map[string]PlacementRecord `json:"placements"`
}

type markerSnapshot struct {
	Version int      `json:"version"`
	Markers []Marker `json:"markers"`
}

// Store is the durable record of organized placements and scan markers.
// Mutations are expected from a single writer; reads are safe concurrently.
type Store struct {
	mu          sync.RWMutex
	statePath   string
	markersPath string
	placements  map[Key]PlacementRecord
	markers     map[string]Marker
}

// Load reads both snapshots. A missing file is an empty store. A corrupt
// placement snapshot is an error; corrupt markers degrade to an empty set.
func Load(statePath, markersPath string) (*Store, error) {
	store := &Store{
		statePath:   statePath,
		markersPath: markersPath,
		placements:  make(map[Key]PlacementRecord),
		markers:     make(map[string]Marker),
	}

	if data, err := os.ReadFile(statePath); err == nil {
		var snapshot placementSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("decode placement snapshot %s: %w", statePath, err)
		}
		for group, members := range snapshot.Placements {
			for member, record := range members {
				record.Group = group
				record.Member = member
				store.placements[record.Key()] = record
			}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read placement snapshot: %w", err)
	}

	if data, err := os.ReadFile(markersPath); err == nil {
		var snapshot markerSnapshot
		if err := json.Unmarshal(data, &snapshot); err == nil && snapshot.Version == snapshotVersion {
			for _, marker := range snapshot.Markers {
				store.markers[marker.Identity.Key()] = marker
			}
		}
	}

	return store, nil
}

// Placement returns the committed record for a (group, member) pair.
func (s *Store) Placement(group, member string) (PlacementRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.placements[Key{Group: group, Member: member}]
	return record, ok
}

// SetPlacement records a verified placement, superseding any prior record
// for the same key.
func (s *Store) SetPlacement(record PlacementRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements[record.Key()] = record
}

// DropPlacement removes the record for a (group, member) pair, typically
// because its destination file no longer exists.
func (s *Store) DropPlacement(group, member string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.placements, Key{Group: group, Member: member})
}

// DropMarkers removes every marker of the given kind, forcing the affected
// files through classification again on the next pass.
func (s *Store) DropMarkers(kind MarkerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, marker := range s.markers {
		if marker.Kind == kind {
			delete(s.markers, key)
		}
	}
}

// HasGroup reports whether at least one member of the group has been placed.
func (s *Store) HasGroup(group string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key := range s.placements {
		if key.Group == group {
			return true
		}
	}
	return false
}

// MembersPlaced returns how many distinct members of the group are placed.
func (s *Store) MembersPlaced(group string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.placements {
		if key.Group == group {
			count++
		}
	}
	return count
}

// Placements returns every record sorted by group then member.
func (s *Store) Placements() []PlacementRecord {
	s.mu.RLock()
	out := make([]PlacementRecord, 0, len(s.placements))
	for _, record := range s.placements {
		out = append(out, record)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Member < out[j].Member
	})
	return out
}

// Len returns the number of placement records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.placements)
}

// Marker returns the recorded classification for an identity, matching only
// when the stored identity equals the queried one exactly.
func (s *Store) Marker(id fingerprint.Identity) (MarkerKind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marker, ok := s.markers[id.Key()]
	if !ok || marker.Identity != id {
		return "", false
	}
	return marker.Kind, true
}

// SetMarker records the classification outcome for an identity.
func (s *Store) SetMarker(id fingerprint.Identity, kind MarkerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[id.Key()] = Marker{Identity: id, Kind: kind}
}

// Commit persists both snapshots atomically. Either snapshot failing is an
// error the caller must treat as fatal: a silently stale store would
// desynchronize the next run's incremental behavior.
func (s *Store) Commit() error {
	s.mu.RLock()
	placements := placementSnapshot{
		Version:    snapshotVersion,
		Placements: make(map[string]map[string]PlacementRecord, len(s.placements)),
	}
	for key, record := range s.placements {
		members := placements.Placements[key.Group]
		if members == nil {
			members = make(map[string]PlacementRecord)
			placements.Placements[key.Group] = members
		}
		members[key.Member] = record
	}
	markers := markerSnapshot{Version: snapshotVersion, Markers: make([]Marker, 0, len(s.markers))}
	for _, marker := range s.markers {
		markers.Markers = append(markers.Markers, marker)
	}
	s.mu.RUnlock()

	sort.Slice(markers.Markers, func(i, j int) bool {
		return markers.Markers[i].Identity.Path < markers.Markers[j].Identity.Path
	})

	stateData, err := json.MarshalIndent(placements, "", "  ")
	if err != nil {
		return fmt.Errorf("encode placement snapshot: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.statePath, stateData, 0o644); err != nil {
		return fmt.Errorf("commit placement snapshot: %w", err)
	}

	markerData, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encode marker snapshot: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.markersPath, markerData, 0o644); err != nil {
		return fmt.Errorf("commit marker snapshot: %w", err)
	}
	return nil
}
