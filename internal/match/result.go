package match

import "github.com/kotae42/romaudit-cli/internal/catalog"

// Kind tags a classification outcome. The organizer switches over Kind
// exhaustively; adding a value means every switch must be revisited.
type Kind int

const (
	// KindUnknown means no catalog entry matched the file's digests.
	KindUnknown Kind = iota
	// KindKnownUnplaced means at least one matched entry still needs a
	// physical copy.
	KindKnownUnplaced
	// KindKnownDuplicate means every matched entry is already satisfied by
	// a prior placement.
	KindKnownDuplicate
)

// String returns the lower-case label used in markers and logs.
func (k Kind) String() string {
	switch k {
	case KindKnownUnplaced:
		return "known"
	case KindKnownDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Result is the classification of a single scanned file.
type Result struct {
	Kind Kind
	// Entries lists the catalog entries the file must still satisfy. Only
	// populated for KindKnownUnplaced; a shared digest can list entries
	// from several groups, each needing its own copy.
	Entries []*catalog.Entry
}
