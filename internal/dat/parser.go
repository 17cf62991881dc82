package dat

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

// Result is the outcome of parsing one catalog file.
type Result struct {
	// Entries holds every structurally valid record in document order.
	Entries []catalog.Entry
	// Groups is the number of distinct game or machine elements seen,
	// including ones that declared no usable members.
	Groups int
	// Skipped counts records dropped for missing a name or any digest.
	Skipped int
}

type romElement struct {
	Name string `xml:"name,attr"`
	Size string `xml:"size,attr"`
	CRC  string `xml:"crc,attr"`
	MD5  string `xml:"md5,attr"`
	SHA1 string `xml:"sha1,attr"`
}

type diskElement struct {
	Name string `xml:"name,attr"`
	SHA1 string `xml:"sha1,attr"`
}

type gameElement struct {
	Name  string        `xml:"name,attr"`
	Roms  []romElement  `xml:"rom"`
	Disks []diskElement `xml:"disk"`
}

// ParseFile parses the catalog at path.
func ParseFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	result, err := Parse(bufio.NewReaderSize(file, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return result, nil
}

// Parse reads a DAT or XML catalog stream. Game and machine elements are
// decoded one at a time so arcade catalogs in the hundred-megabyte range
// never get materialized whole.
func Parse(r io.Reader) (*Result, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false

	result := &Result{}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog element: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "game" && start.Name.Local != "machine" {
			continue
		}
		var game gameElement
		if err := decoder.DecodeElement(&game, &start); err != nil {
			return nil, fmt.Errorf("decode %s element: %w", start.Name.Local, err)
		}
		result.Groups++
		if strings.TrimSpace(game.Name) == "" {
			result.Skipped += len(game.Roms) + len(game.Disks)
			continue
		}
		for _, rom := range game.Roms {
			entry, ok := romEntry(game.Name, rom)
			if !ok {
				result.Skipped++
				continue
			}
			result.Entries = append(result.Entries, entry)
		}
		for _, disk := range game.Disks {
			entry, ok := diskEntry(game.Name, disk)
			if !ok {
				result.Skipped++
				continue
			}
			result.Entries = append(result.Entries, entry)
		}
	}
	return result, nil
}

func romEntry(group string, rom romElement) (catalog.Entry, bool) {
	hashes := catalog.HashSet{}
	if digest := normalizeCRC(rom.CRC); digest != "" {
		hashes[catalog.CRC32] = digest
	}
	if digest := normalizeDigest(rom.MD5, 32); digest != "" {
		hashes[catalog.MD5] = digest
	}
	if digest := normalizeDigest(rom.SHA1, 40); digest != "" {
		hashes[catalog.SHA1] = digest
	}
	name, subPath := splitMemberPath(rom.Name)
	if name == "" || len(hashes) == 0 {
		return catalog.Entry{}, false
	}

	var size int64
	if rom.Size != "" {
		parsed, err := strconv.ParseInt(rom.Size, 10, 64)
		if err == nil && parsed >= 0 {
			size = parsed
		}
	}

	return catalog.Entry{
		Group:   group,
		Name:    name,
		Size:    size,
		Hashes:  hashes,
		SubPath: subPath,
	}, true
}

// diskEntry maps a CHD declaration. Disks only ever declare a SHA-1.
func diskEntry(group string, disk diskElement) (catalog.Entry, bool) {
	digest := normalizeDigest(disk.SHA1, 40)
	name, subPath := splitMemberPath(disk.Name)
	if name == "" || digest == "" {
		return catalog.Entry{}, false
	}
	if path.Ext(name) == "" {
		name += ".chd"
	}
	return catalog.Entry{
		Group:   group,
		Name:    name,
		Hashes:  catalog.HashSet{catalog.SHA1: digest},
		SubPath: subPath,
	}, true
}

// splitMemberPath separates a declared member name from its optional
// slash-separated directory prefix.
func splitMemberPath(declared string) (name, subPath string) {
	cleaned := path.Clean(strings.ReplaceAll(strings.TrimSpace(declared), "\\", "/"))
	if cleaned == "." || cleaned == "/" || strings.HasPrefix(cleaned, "..") {
		return "", ""
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	dir, base := path.Split(cleaned)
	return base, strings.Trim(dir, "/")
}

// normalizeCRC canonicalizes a CRC32 value to 8 lowercase hex characters.
// Some catalog generators strip leading zeros, so short values are padded.
func normalizeCRC(value string) string {
	digest := strings.ToLower(strings.TrimSpace(value))
	if digest == "" || len(digest) > 8 {
		return ""
	}
	digest = strings.Repeat("0", 8-len(digest)) + digest
	return normalizeDigest(digest, 8)
}

// normalizeDigest lowercases a hex digest and rejects values of the wrong
// length or with non-hex characters.
func normalizeDigest(value string, width int) string {
	digest := strings.ToLower(strings.TrimSpace(value))
	if len(digest) != width {
		return ""
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return ""
		}
	}
	return digest
}
