package hashing

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

type digester struct {
	algo catalog.Algorithm
	hash hash.Hash
}

func newDigesters(algos []catalog.Algorithm) ([]digester, error) {
	out := make([]digester, 0, len(algos))
	for _, algo := range algos {
		switch algo {
		case catalog.CRC32:
			out = append(out, digester{algo: algo, hash: crc32.NewIEEE()})
		case catalog.MD5:
			out = append(out, digester{algo: algo, hash: md5.New()})
		case catalog.SHA1:
			out = append(out, digester{algo: algo, hash: sha1.New()})
		default:
			return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
		}
	}
	return out, nil
}

func finalize(digesters []digester) catalog.HashSet {
	digests := make(catalog.HashSet, len(digesters))
	for _, d := range digesters {
		digests[d.algo] = hex.EncodeToString(d.hash.Sum(nil))
	}
	return digests
}

// File computes the requested digests for path in a single read pass.
// Files of at least mmapThreshold bytes are hashed through a mapped view;
// everything else streams through a buffer of bufferSize bytes.
func File(path string, size int64, algos []catalog.Algorithm, bufferSize int, mmapThreshold int64) (catalog.HashSet, error) {
	digesters, err := newDigesters(algos)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if size >= mmapThreshold && size > 0 {
		if digests, err := hashMapped(file, size, digesters); err == nil {
			return digests, nil
		}
		// Mapping can fail on exotic filesystems; the buffered path
		// reads the same bytes.
		for _, d := range digesters {
			d.hash.Reset()
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	return hashBuffered(file, digesters, bufferSize)
}

func hashMapped(file *os.File, size int64, digesters []digester) (catalog.HashSet, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	defer func() { _ = unix.Munmap(data) }()

	for _, d := range digesters {
		_, _ = d.hash.Write(data)
	}
	return finalize(digesters), nil
}

func hashBuffered(file *os.File, digesters []digester, bufferSize int) (catalog.HashSet, error) {
	if bufferSize <= 0 {
		bufferSize = 64 * 1024
	}
	writers := make([]io.Writer, len(digesters))
	for i, d := range digesters {
		writers[i] = d.hash
	}
	reader := bufio.NewReaderSize(file, bufferSize)
	if _, err := io.Copy(io.MultiWriter(writers...), reader); err != nil {
		return nil, err
	}
	return finalize(digesters), nil
}
