package catalog_test

import (
	"testing"

	"github.com/kotae42/romaudit-cli/internal/catalog"
)

func entryFixture(group, name, crc string) catalog.Entry {
	return catalog.Entry{
		Group:  group,
		Name:   name,
		Size:   4,
		Hashes: catalog.HashSet{catalog.CRC32: crc},
	}
}

func TestNewIndexGroupsMembersInOrder(t *testing.T) {
	entries := []catalog.Entry{
		entryFixture("Alpha", "alpha-1.bin", "11111111"),
		entryFixture("Beta", "beta.bin", "22222222"),
		entryFixture("Alpha", "alpha-2.bin", "33333333"),
	}
	ix, err := catalog.NewIndex(entries)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	if ix.GroupCount() != 2 || ix.EntryCount() != 3 {
		t.Fatalf("unexpected counts: groups=%d entries=%d", ix.GroupCount(), ix.EntryCount())
	}
	group, ok := ix.Group("Alpha")
	if !ok {
		t.Fatal("group Alpha missing")
	}
	if len(group.Members) != 2 || group.Members[0].Name != "alpha-1.bin" || group.Members[1].Name != "alpha-2.bin" {
		t.Fatalf("unexpected members: %#v", group.Members)
	}
	groups := ix.Groups()
	if groups[0].ID != "Alpha" || groups[1].ID != "Beta" {
		t.Fatalf("unexpected group order: %v, %v", groups[0].ID, groups[1].ID)
	}
}

func TestLookupSharedDigestReturnsAllOwners(t *testing.T) {
	entries := []catalog.Entry{
		entryFixture("G1", "shared.bin", "aabbccdd"),
		entryFixture("G2", "shared.bin", "aabbccdd"),
	}
	ix, err := catalog.NewIndex(entries)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	matches := ix.Lookup(catalog.CRC32, "aabbccdd")
	if len(matches) != 2 {
		t.Fatalf("expected 2 owners for shared digest, got %d", len(matches))
	}
}

func TestCandidatesDeduplicatesAcrossAlgorithms(t *testing.T) {
	entries := []catalog.Entry{
		{
			Group: "G1",
			Name:  "a.bin",
			Size:  4,
			Hashes: catalog.HashSet{
				catalog.CRC32: "aabbccdd",
				catalog.SHA1:  "0a0a9f2a6772942557ab5355d76af442f8f65e01",
			},
		},
	}
	ix, err := catalog.NewIndex(entries)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	candidates := ix.Candidates(catalog.HashSet{
		catalog.CRC32: "aabbccdd",
		catalog.SHA1:  "0a0a9f2a6772942557ab5355d76af442f8f65e01",
	})
	if len(candidates) != 1 {
		t.Fatalf("expected a single deduplicated candidate, got %d", len(candidates))
	}
}

func TestNewIndexRejectsInvalidEntry(t *testing.T) {
	entries := []catalog.Entry{{Group: "G", Name: "a.bin", Size: 1}}
	if _, err := catalog.NewIndex(entries); err == nil {
		t.Fatal("expected error for entry without hashes")
	}
}

func TestHashSetAgreesOn(t *testing.T) {
	declared := catalog.HashSet{catalog.CRC32: "aabbccdd", catalog.MD5: "ffff", catalog.SHA1: "eeee"}

	common, agree := declared.AgreesOn(catalog.HashSet{catalog.CRC32: "aabbccdd", catalog.MD5: "ffff"})
	if !agree || common != 2 {
		t.Fatalf("expected agreement on 2 algorithms, got common=%d agree=%v", common, agree)
	}

	// Partial agreement is not agreement.
	if _, agree := declared.AgreesOn(catalog.HashSet{catalog.CRC32: "aabbccdd", catalog.MD5: "0000"}); agree {
		t.Fatal("expected disagreement when one common algorithm differs")
	}

	// No shared algorithms is not agreement either.
	if _, agree := (catalog.HashSet{catalog.CRC32: "aabbccdd"}).AgreesOn(catalog.HashSet{catalog.SHA1: "eeee"}); agree {
		t.Fatal("expected no agreement with zero common algorithms")
	}
}
