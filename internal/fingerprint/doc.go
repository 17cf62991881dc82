// Package fingerprint caches computed content digests against file
// identities so unchanged files are never re-hashed across runs.
//
// An Identity is (path, size, mtime); a cached record is returned only when
// the stored identity matches the queried one byte for byte, and any
// mismatch evicts the stale record. The cache persists as an opaque
// zstd-compressed CBOR blob replaced atomically on save; a missing, corrupt,
// or version-mismatched blob is simply a cold cache, never an error.
package fingerprint
