// Package organizer materializes matched files into the output tree.
//
// Placement copies, never moves: one physical source can satisfy members
// in several groups, and the scanned file stays untouched either way. A
// copy only becomes durable after its digests are re-verified against the
// catalog at the destination. Duplicates and unknowns are moved into
// numbered holding directories allocated lazily per run.
package organizer
