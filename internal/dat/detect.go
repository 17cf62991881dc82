package dat

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Detect locates the catalog file for a run. A pinned path wins; otherwise
// the scan root is searched for .dat and .xml files, preferring .dat. More
// than one candidate of the preferred extension is an error the operator
// has to resolve by pinning.
func Detect(scanRoot, pinned string) (string, error) {
	if pinned != "" {
		info, err := os.Stat(pinned)
		if err != nil {
			return "", fmt.Errorf("catalog %s: %w", pinned, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("catalog %s is a directory", pinned)
		}
		return pinned, nil
	}

	entries, err := os.ReadDir(scanRoot)
	if err != nil {
		return "", fmt.Errorf("read scan root: %w", err)
	}

	var dats, xmls []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".dat":
			dats = append(dats, filepath.Join(scanRoot, entry.Name()))
		case ".xml":
			xmls = append(xmls, filepath.Join(scanRoot, entry.Name()))
		}
	}
	sort.Strings(dats)
	sort.Strings(xmls)

	candidates := dats
	if len(candidates) == 0 {
		candidates = xmls
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no catalog file found in %s", scanRoot)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("multiple catalog files in %s (%s); pin one in the configuration",
			scanRoot, strings.Join(candidates, ", "))
	}
}
