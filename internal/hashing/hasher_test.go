package hashing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fingerprint"
	"github.com/kotae42/romaudit-cli/internal/hashing"
)

var allAlgorithms = []catalog.Algorithm{catalog.CRC32, catalog.MD5, catalog.SHA1}

// Digests of "Hello, World!".
const (
	helloCRC  = "ec4ac3d0"
	helloMD5  = "65a8e27d8879283831b664bd8b7f0ad4"
	helloSHA1 = "0a0a9f2a6772942557ab5355d76af442f8f65e01"
)

func writeFixture(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileBufferedPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "hello.bin", []byte("Hello, World!"))

	digests, err := hashing.File(path, 13, allAlgorithms, 1024, 1<<20)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	want := catalog.HashSet{catalog.CRC32: helloCRC, catalog.MD5: helloMD5, catalog.SHA1: helloSHA1}
	if !digests.Equal(want) {
		t.Fatalf("digests = %v, want %v", digests, want)
	}
}

func TestFileMappedPathMatchesBuffered(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "hello.bin", []byte("Hello, World!"))

	// Threshold of 1 forces the mapped view.
	mapped, err := hashing.File(path, 13, allAlgorithms, 1024, 1)
	if err != nil {
		t.Fatalf("File (mapped) failed: %v", err)
	}
	buffered, err := hashing.File(path, 13, allAlgorithms, 1024, 1<<20)
	if err != nil {
		t.Fatalf("File (buffered) failed: %v", err)
	}
	if !mapped.Equal(buffered) {
		t.Fatalf("mapped %v != buffered %v", mapped, buffered)
	}
}

func TestFileSubsetOfAlgorithms(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "hello.bin", []byte("Hello, World!"))

	digests, err := hashing.File(path, 13, []catalog.Algorithm{catalog.SHA1}, 1024, 1<<20)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if len(digests) != 1 || digests[catalog.SHA1] != helloSHA1 {
		t.Fatalf("digests = %v", digests)
	}
}

func TestPoolReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir, "good.bin", []byte("data"))
	goodID, err := fingerprint.IdentityOf(good)
	if err != nil {
		t.Fatal(err)
	}
	missingID := fingerprint.Identity{Path: filepath.Join(dir, "missing.bin"), Size: 4}

	pool := &hashing.Pool{Algorithms: allAlgorithms, BufferSize: 1024, MmapThreshold: 1 << 20, Workers: 2}
	var okCount, errCount int
	for res := range pool.Run(context.Background(), []fingerprint.Identity{goodID, missingID}) {
		if res.Err != nil {
			errCount++
		} else {
			okCount++
		}
	}
	if okCount != 1 || errCount != 1 {
		t.Fatalf("ok=%d err=%d, want 1/1", okCount, errCount)
	}
}

func TestPoolUsesCacheOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.bin", []byte("cached content"))
	id, err := fingerprint.IdentityOf(path)
	if err != nil {
		t.Fatal(err)
	}

	cache := fingerprint.Open(filepath.Join(dir, "cache"))
	pool := &hashing.Pool{Algorithms: allAlgorithms, BufferSize: 1024, MmapThreshold: 1 << 20, Workers: 1, Cache: cache}

	first := <-pool.Run(context.Background(), []fingerprint.Identity{id})
	if first.Err != nil || first.FromCache {
		t.Fatalf("first run: %+v", first)
	}
	second := <-pool.Run(context.Background(), []fingerprint.Identity{id})
	if second.Err != nil || !second.FromCache {
		t.Fatalf("second run should hit cache: %+v", second)
	}
	if !first.Digests.Equal(second.Digests) {
		t.Fatalf("cache returned different digests: %v vs %v", first.Digests, second.Digests)
	}
}

func TestPoolRecomputesWhenCacheLacksAlgorithm(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.bin", []byte("partial"))
	id, err := fingerprint.IdentityOf(path)
	if err != nil {
		t.Fatal(err)
	}

	cache := fingerprint.Open(filepath.Join(dir, "cache"))
	cache.Store(id, catalog.HashSet{catalog.CRC32: "aabbccdd"})

	pool := &hashing.Pool{Algorithms: allAlgorithms, BufferSize: 1024, MmapThreshold: 1 << 20, Workers: 1, Cache: cache}
	res := <-pool.Run(context.Background(), []fingerprint.Identity{id})
	if res.Err != nil {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.FromCache {
		t.Fatal("partial cache record must not satisfy a wider algorithm set")
	}
	if len(res.Digests) != 3 {
		t.Fatalf("expected full recompute, got %v", res.Digests)
	}
}
