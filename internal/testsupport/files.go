package testsupport

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// HashesOf computes the full digest set for literal content, for building
// catalog fixtures that match written files.
func HashesOf(content string) catalog.HashSet {
	data := []byte(content)
	crc := crc32.NewIEEE()
	crc.Write(data)
	md := md5.Sum(data)
	sha := sha1.Sum(data)
	return catalog.HashSet{
		catalog.CRC32: hex.EncodeToString(crc.Sum(nil)),
		catalog.MD5:   hex.EncodeToString(md[:]),
		catalog.SHA1:  hex.EncodeToString(sha[:]),
	}
}

// CatalogGame describes one group in a generated catalog fixture.
type CatalogGame struct {
	Name string
	Roms []CatalogRom
}

// CatalogRom describes one member; Content derives its size and digests.
type CatalogRom struct {
	Name    string
	Content string
}

// WriteCatalog renders games as a Logiqx DAT file at path.
func WriteCatalog(t testing.TB, path string, games ...CatalogGame) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<datafile>\n\t<header>\n\t\t<name>fixture</name>\n\t</header>\n")
	for _, game := range games {
		fmt.Fprintf(&b, "\t<game name=%q>\n", game.Name)
		for _, rom := range game.Roms {
			hashes := HashesOf(rom.Content)
			fmt.Fprintf(&b, "\t\t<rom name=%q size=\"%d\" crc=%q md5=%q sha1=%q/>\n",
				rom.Name, len(rom.Content),
				hashes[catalog.CRC32], hashes[catalog.MD5], hashes[catalog.SHA1])
		}
		b.WriteString("\t</game>\n")
	}
	b.WriteString("</datafile>\n")
	return WriteFile(t, path, b.String())
}
