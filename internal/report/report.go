// Package report writes the per-run text reports the operator reads after a
// run: present and missing groups, members still wanted from present
// groups, digests shared across groups, and the container layout.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/state"
)

// Writer renders reports into a log directory.
type Writer struct {
	logDir string
}

// NewWriter returns a Writer targeting logDir.
func NewWriter(logDir string) *Writer {
	return &Writer{logDir: logDir}
}

// WriteAll renders every report from the final index and store state.
func (w *Writer) WriteAll(index *catalog.Index, store *state.Store, containers func(string) bool) error {
	present, missing := splitGroups(index, store)
	if err := w.writeHave(present, index.GroupCount()); err != nil {
		return err
	}
	if err := w.writeMissing(missing, index.GroupCount()); err != nil {
		return err
	}
	if err := w.writeWanted(index, store); err != nil {
		return err
	}
	if err := w.writeShared(index); err != nil {
		return err
	}
	return w.writeContainers(index, containers)
}

func splitGroups(index *catalog.Index, store *state.Store) (present, missing []string) {
	for _, group := range index.Groups() {
		if store.HasGroup(group.ID) {
			present = append(present, group.ID)
		} else {
			missing = append(missing, group.ID)
		}
	}
	sort.Strings(present)
	sort.Strings(missing)
	return present, missing
}

func (w *Writer) writeHave(present []string, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Groups found: %d / %d\n\n", len(present), total)
	for _, name := range present {
		fmt.Fprintln(&b, name)
	}
	return w.write("have.txt", b.String())
}

func (w *Writer) writeMissing(missing []string, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Groups missing: %d / %d\n\n", len(missing), total)
	for _, name := range missing {
		fmt.Fprintln(&b, name)
	}
	return w.write("missing.txt", b.String())
}

// writeWanted lists the (group, member) pairs still absent from groups that
// are at least partially present.
func (w *Writer) writeWanted(index *catalog.Index, store *state.Store) error {
	var wanted []string
	for _, group := range index.Groups() {
		if !store.HasGroup(group.ID) {
			continue
		}
		for _, member := range group.Members {
			if _, placed := store.Placement(group.ID, member.Name); !placed {
				wanted = append(wanted, member.Key())
			}
		}
	}
	sort.Strings(wanted)

	var b strings.Builder
	fmt.Fprintf(&b, "Members still wanted from present groups: %d\n\n", len(wanted))
	for _, key := range wanted {
		fmt.Fprintln(&b, key)
	}
	return w.write("wanted.txt", b.String())
}

// writeShared lists digests declared by entries in more than one group.
// Each owning group receives its own physical copy at placement time.
func (w *Writer) writeShared(index *catalog.Index) error {
	type sharing struct {
		algo   catalog.Algorithm
		digest string
		groups []string
	}
	var shared []sharing
	seenDigest := make(map[string]struct{})
	for _, group := range index.Groups() {
		for _, member := range group.Members {
			for algo, digest := range member.Hashes {
				if _, done := seenDigest[string(algo)+digest]; done {
					continue
				}
				owners := index.Lookup(algo, digest)
				groups := make(map[string]struct{})
				for _, owner := range owners {
					groups[owner.Group] = struct{}{}
				}
				if len(groups) < 2 {
					continue
				}
				seenDigest[string(algo)+digest] = struct{}{}
				names := make([]string, 0, len(groups))
				for name := range groups {
					names = append(names, name)
				}
				sort.Strings(names)
				shared = append(shared, sharing{algo: algo, digest: digest, groups: names})
			}
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].algo != shared[j].algo {
			return shared[i].algo < shared[j].algo
		}
		return shared[i].digest < shared[j].digest
	})

	var b strings.Builder
	fmt.Fprintln(&b, "Content shared across groups (each group gets its own copy):")
	fmt.Fprintln(&b)
	for _, entry := range shared {
		fmt.Fprintf(&b, "%s %s\n", entry.algo, entry.digest)
		for _, name := range entry.groups {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintf(&b, "Total shared digests: %d\n", len(shared))
	return w.write("shared.txt", b.String())
}

func (w *Writer) writeContainers(index *catalog.Index, containers func(string) bool) error {
	var names []string
	for _, group := range index.Groups() {
		if containers(group.ID) {
			names = append(names, group.ID)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintln(&b, "Groups placed in container directories:")
	fmt.Fprintln(&b, "- groups declaring multiple members or sub-paths")
	fmt.Fprintln(&b, "- single-member groups whose member name diverges from the group name")
	fmt.Fprintln(&b)
	for _, name := range names {
		fmt.Fprintln(&b, name)
	}
	return w.write("containers.txt", b.String())
}

func (w *Writer) write(name, content string) error {
	path := filepath.Join(w.logDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", name, err)
	}
	return nil
}
