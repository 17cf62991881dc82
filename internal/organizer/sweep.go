package organizer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SweepEmptyDirs removes directories left empty beneath root after files
// moved out of the scan tree, deepest first so emptied parents collapse in
// the same pass. Trees listed in exclude are never touched, nor is root
// itself, nor any numbered holding area directly under root, including
// emptied ones left by earlier runs. Removal failures are ignored: a
// directory that gained a file between collection and removal simply stays.
func SweepEmptyDirs(root string, exclude, holdingPrefixes []string) (int, error) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, dir := range exclude {
		excluded[filepath.Clean(dir)] = struct{}{}
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		if _, skip := excluded[filepath.Clean(path)]; skip {
			return filepath.SkipDir
		}
		if filepath.Dir(path) == root && IsHoldingArea(entry.Name(), holdingPrefixes) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if os.Remove(dir) == nil {
			removed++
		}
	}
	return removed, nil
}
