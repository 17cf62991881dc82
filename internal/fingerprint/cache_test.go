package fingerprint_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fingerprint"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := writeFixture(t, dir, "a.bin", "content")
	blobPath := filepath.Join(dir, "fingerprints.cache")

	id, err := fingerprint.IdentityOf(file)
	if err != nil {
		t.Fatal(err)
	}

	cache := fingerprint.Open(blobPath)
	if _, ok := cache.Lookup(id); ok {
		t.Fatal("cold cache should miss")
	}

	digests := catalog.HashSet{catalog.CRC32: "aabbccdd", catalog.SHA1: "deadbeef"}
	cache.Store(id, digests)
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := fingerprint.Open(blobPath)
	got, ok := reopened.Lookup(id)
	if !ok {
		t.Fatal("expected hit after reopen")
	}
	if !got.Equal(digests) {
		t.Fatalf("digests = %v, want %v", got, digests)
	}
	if reopened.Hits() != 1 || reopened.Misses() != 0 {
		t.Fatalf("unexpected counters: hits=%d misses=%d", reopened.Hits(), reopened.Misses())
	}
}

func TestCacheMissesOnChangedIdentity(t *testing.T) {
	dir := t.TempDir()
	file := writeFixture(t, dir, "a.bin", "content")
	cache := fingerprint.Open(filepath.Join(dir, "cache"))

	id, err := fingerprint.IdentityOf(file)
	if err != nil {
		t.Fatal(err)
	}
	cache.Store(id, catalog.HashSet{catalog.CRC32: "aabbccdd"})

	// Same path, different size and mtime: a different identity.
	if err := os.WriteFile(file, []byte("content changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(file, future, future); err != nil {
		t.Fatal(err)
	}
	changed, err := fingerprint.IdentityOf(file)
	if err != nil {
		t.Fatal(err)
	}
	if changed == id {
		t.Fatal("fixture failed to change identity")
	}
	if _, ok := cache.Lookup(changed); ok {
		t.Fatal("changed identity must miss")
	}
}

func TestSaveCompactsSupersededRecords(t *testing.T) {
	dir := t.TempDir()
	blobPath := filepath.Join(dir, "cache")
	kept := writeFixture(t, dir, "kept.bin", "stable")
	changed := writeFixture(t, dir, "changed.bin", "original")
	removed := writeFixture(t, dir, "removed.bin", "doomed")

	cache := fingerprint.Open(blobPath)
	for _, path := range []string{kept, changed, removed} {
		id, err := fingerprint.IdentityOf(path)
		if err != nil {
			t.Fatal(err)
		}
		cache.Store(id, catalog.HashSet{catalog.CRC32: "aabbccdd"})
	}

	if err := os.WriteFile(changed, []byte("rewritten bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(changed, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(removed); err != nil {
		t.Fatal(err)
	}

	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := fingerprint.Open(blobPath)
	if reopened.Len() != 1 {
		t.Fatalf("Len after compaction = %d, want 1", reopened.Len())
	}
	keptID, err := fingerprint.IdentityOf(kept)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.Lookup(keptID); !ok {
		t.Fatal("record for an unchanged file was compacted away")
	}
}

func TestOpenTreatsCorruptBlobAsEmpty(t *testing.T) {
	dir := t.TempDir()
	blobPath := writeFixture(t, dir, "cache", "not a zstd blob")

	cache := fingerprint.Open(blobPath)
	if cache.Len() != 0 {
		t.Fatalf("corrupt blob should load empty, got %d entries", cache.Len())
	}
}

func TestIdentityKeyDistinguishesStates(t *testing.T) {
	a := fingerprint.Identity{Path: "x", Size: 10, ModTime: 1}
	b := fingerprint.Identity{Path: "x", Size: 11, ModTime: 1}
	c := fingerprint.Identity{Path: "x", Size: 10, ModTime: 2}
	if a.Key() == b.Key() || a.Key() == c.Key() {
		t.Fatal("distinct identities must produce distinct keys")
	}
	if a.Key() != (fingerprint.Identity{Path: "x", Size: 10, ModTime: 1}).Key() {
		t.Fatal("equal identities must produce equal keys")
	}
}
