package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm identifies a content hash algorithm declared by a catalog.
type Algorithm string

const (
	CRC32 Algorithm = "crc32"
	MD5   Algorithm = "md5"
	SHA1  Algorithm = "sha1"
)

// Algorithms lists every supported algorithm in canonical order.
var Algorithms = []Algorithm{CRC32, MD5, SHA1}

// ParseAlgorithm maps a config or catalog token to an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "crc", "crc32":
		return CRC32, nil
	case "md5":
		return MD5, nil
	case "sha1", "sha-1":
		return SHA1, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", value)
	}
}

// HashSet maps algorithms to lowercase hex digests.
type HashSet map[Algorithm]string

// Clone returns an independent copy of the hash set.
func (h HashSet) Clone() HashSet {
	if h == nil {
		return nil
	}
	out := make(HashSet, len(h))
	for algo, digest := range h {
		out[algo] = digest
	}
	return out
}

// Equal reports whether both sets declare the same algorithms with the
// same digests.
func (h HashSet) Equal(other HashSet) bool {
	if len(h) != len(other) {
		return false
	}
	for algo, digest := range h {
		if other[algo] != digest {
			return false
		}
	}
	return true
}

// AgreesOn reports whether every algorithm present in both sets carries an
// equal digest, along with the number of algorithms compared. Zero common
// algorithms never counts as agreement.
func (h HashSet) AgreesOn(other HashSet) (common int, agree bool) {
	for algo, digest := range h {
		theirs, ok := other[algo]
		if !ok {
			continue
		}
		common++
		if theirs != digest {
			return common, false
		}
	}
	return common, common > 0
}

// Entry is a single expected file within a group. Entries are immutable
// once loaded from a catalog.
type Entry struct {
	// Group is the logical owner, e.g. a game title.
	Group string
	// Name is the member file name declared by the catalog.
	Name string
	// Size is the declared byte size.
	Size int64
	// Hashes holds at least one declared digest.
	Hashes HashSet
	// SubPath is an optional relative directory preserved beneath the
	// group container. Always slash-separated.
	SubPath string
}

// Key returns the (group, member) identity of the entry.
func (e *Entry) Key() string {
	return e.Group + "/" + e.Name
}

// Validate rejects structurally broken entries before they reach the index.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Group) == "" {
		return errors.New("entry missing group")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("entry in group %q missing name", e.Group)
	}
	if e.Size < 0 {
		return fmt.Errorf("entry %s declares negative size %d", e.Key(), e.Size)
	}
	if len(e.Hashes) == 0 {
		return fmt.Errorf("entry %s declares no hashes", e.Key())
	}
	for algo, digest := range e.Hashes {
		if digest == "" {
			return fmt.Errorf("entry %s declares empty %s digest", e.Key(), algo)
		}
		if digest != strings.ToLower(digest) {
			return fmt.Errorf("entry %s declares non-canonical %s digest %q", e.Key(), algo, digest)
		}
	}
	return nil
}

// Group aggregates every entry sharing a group identifier. Members keep
// catalog order.
type Group struct {
	ID      string
	Members []*Entry
}
