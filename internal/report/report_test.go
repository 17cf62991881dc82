package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/report"
	"github.com/kotae42/romaudit-cli/internal/state"
)

func TestWriteAll(t *testing.T) {
	shared := catalog.HashSet{catalog.CRC32: "deadbeef"}
	index, err := catalog.NewIndex([]catalog.Entry{
		{Group: "Alpha", Name: "alpha.bin", Size: 1, Hashes: catalog.HashSet{catalog.CRC32: "11111111"}},
		{Group: "Beta", Name: "beta1.bin", Size: 1, Hashes: shared.Clone()},
		{Group: "Beta", Name: "beta2.bin", Size: 1, Hashes: catalog.HashSet{catalog.CRC32: "22222222"}},
		{Group: "Gamma", Name: "gamma.bin", Size: 1, Hashes: shared.Clone()},
	})
	if err != nil {
		t.Fatalf("catalog.NewIndex: %v", err)
	}

	dataDir := t.TempDir()
	store, err := state.Load(filepath.Join(dataDir, "p.json"), filepath.Join(dataDir, "m.json"))
	if err != nil {
		t.Fatalf("state.Load: %v", err)
	}
	store.SetPlacement(state.PlacementRecord{Group: "Beta", Member: "beta1.bin"})

	logDir := t.TempDir()
	writer := report.NewWriter(logDir)
	containers := func(group string) bool { return group == "Beta" }
	if err := writer.WriteAll(index, store, containers); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	read := func(name string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(logDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}

	have := read("have.txt")
	if !strings.Contains(have, "Groups found: 1 / 3") || !strings.Contains(have, "Beta") {
		t.Fatalf("have.txt content:\n%s", have)
	}

	missing := read("missing.txt")
	if !strings.Contains(missing, "Groups missing: 2 / 3") ||
		!strings.Contains(missing, "Alpha") || !strings.Contains(missing, "Gamma") {
		t.Fatalf("missing.txt content:\n%s", missing)
	}

	wanted := read("wanted.txt")
	if !strings.Contains(wanted, "Beta/beta2.bin") || strings.Contains(wanted, "Alpha/") {
		t.Fatalf("wanted.txt content:\n%s", wanted)
	}

	sharedReport := read("shared.txt")
	if !strings.Contains(sharedReport, "deadbeef") ||
		!strings.Contains(sharedReport, "- Beta") || !strings.Contains(sharedReport, "- Gamma") {
		t.Fatalf("shared.txt content:\n%s", sharedReport)
	}

	containersReport := read("containers.txt")
	if !strings.Contains(containersReport, "Beta") || strings.Contains(containersReport, "Alpha") {
		t.Fatalf("containers.txt content:\n%s", containersReport)
	}
}
