// Package catalog defines the immutable data model for a parsed catalog:
// entries, groups, hash sets, and the in-memory index used for content
// lookups.
//
// The Index is built once from parsed entries and is read-only afterwards,
// so it can be shared across hashing and matching goroutines without
// synchronization. Lookups are keyed by digest per algorithm; a single
// digest may legitimately resolve to entries in several groups when content
// is shared between them.
package catalog
