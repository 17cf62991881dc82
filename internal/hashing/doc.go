// Package hashing computes content digests for candidate files.
//
// Every configured algorithm is fed from a single read pass over the bytes.
// Small files stream through a buffered reader; files at or above the
// configured threshold are hashed through a read-only mapped view to avoid
// buffer-copy overhead. A fixed-size worker pool fans work out across
// files; each worker owns a file end to end, and per-file failures are
// reported in-band without aborting the batch.
package hashing
