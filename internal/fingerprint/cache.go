package fingerprint

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fileutil"
)

// blobVersion is bumped when the on-disk record shape changes. A version
// mismatch loads as an empty cache.
const blobVersion = 1

// Record pairs an identity with the digests computed for that file state.
// Records are superseded, never mutated: a stale identity evicts the record.
type Record struct {
	Identity Identity                     `cbor:"identity"`
	Digests  map[catalog.Algorithm]string `cbor:"digests"`
}

type blob struct {
	Version int               `cbor:"version"`
	Entries map[string]Record `cbor:"entries"`
}

// Cache maps file identities to previously computed digests. Safe for
// concurrent use by hashing workers.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Record
	dirty   bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Open loads the cache blob at path. Any read or decode failure yields an
// empty cache: the blob is a performance artifact, never a correctness one.
func Open(path string) *Cache {
	cache := &Cache{path: path, entries: make(map[string]Record)}

	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return cache
	}
	defer decoder.Close()
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return cache
	}
	var decoded blob
	if err := cbor.Unmarshal(raw, &decoded); err != nil {
		return cache
	}
	if decoded.Version != blobVersion || decoded.Entries == nil {
		return cache
	}
	cache.entries = decoded.Entries
	return cache
}

// Lookup returns the cached digests for the identity. It returns a value
// only when the stored identity equals the queried one exactly; a mismatch
// at the same path evicts the stale record and misses.
func (c *Cache) Lookup(id Identity) (catalog.HashSet, bool) {
	key := id.Key()

	c.mu.Lock()
	record, ok := c.entries[key]
	if ok && record.Identity != id {
		// Key collision or stale record under a recycled identity.
		delete(c.entries, key)
		c.dirty = true
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	digests := make(catalog.HashSet, len(record.Digests))
	for algo, digest := range record.Digests {
		digests[algo] = digest
	}
	return digests, true
}

// Store records digests computed for the identity, superseding any previous
// record at the same key.
func (c *Cache) Store(id Identity, digests catalog.HashSet) {
	stored := make(map[catalog.Algorithm]string, len(digests))
	for algo, digest := range digests {
		stored[algo] = digest
	}

	c.mu.Lock()
	c.entries[id.Key()] = Record{Identity: id, Digests: stored}
	c.dirty = true
	c.mu.Unlock()
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns the number of successful lookups since Open.
func (c *Cache) Hits() uint64 { return c.hits.Load() }

// Misses returns the number of failed lookups since Open.
func (c *Cache) Misses() uint64 { return c.misses.Load() }

// Save persists the cache as a zstd-compressed CBOR blob via an atomic
// replace, compacting superseded records first. Save is a no-op when
// nothing changed since Open.
func (c *Cache) Save() error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	c.compactLocked()
	snapshot := blob{Version: blobVersion, Entries: make(map[string]Record, len(c.entries))}
	for key, record := range c.entries {
		snapshot.Entries[key] = record
	}
	c.mu.Unlock()

	raw, err := cbor.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("init zstd: %w", err)
	}
	compressed := encoder.EncodeAll(raw, nil)
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close zstd: %w", err)
	}

	if err := fileutil.WriteFileAtomic(c.path, compressed, 0o644); err != nil {
		return fmt.Errorf("write cache blob: %w", err)
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// compactLocked drops records for files that are gone or whose path now
// stats to a different identity. A changed file gets a fresh key, so
// without compaction its old record would sit in the blob forever.
// Caller holds mu.
func (c *Cache) compactLocked() {
	for key, record := range c.entries {
		current, err := IdentityOf(record.Identity.Path)
		if err != nil || current != record.Identity {
			delete(c.entries, key)
		}
	}
}
