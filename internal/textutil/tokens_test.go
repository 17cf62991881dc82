package textutil

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsStopWordsAndPunctuation(t *testing.T) {
	stop := NewStopWords([]string{"the", "of"})
	got := Tokenize("Sonic the Hedgehog", stop)
	want := []string{"sonic", "hedgehog"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}

	got = Tokenize("Memory (Japan)", nil)
	want = []string{"memory", "japan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeCaseFolds(t *testing.T) {
	if got := Tokenize("MEMORY", nil); !reflect.DeepEqual(got, []string{"memory"}) {
		t.Fatalf("Tokenize = %v", got)
	}
}

func TestStem(t *testing.T) {
	if got := Stem("MEMORY.ASF"); got != "MEMORY" {
		t.Fatalf("Stem = %q", got)
	}
	if got := Stem("no-extension"); got != "no-extension" {
		t.Fatalf("Stem = %q", got)
	}
}

func TestOverlapRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"sonic", "hedgehog"}, []string{"sonic", "hedgehog"}, 1},
		{"half", []string{"memory"}, []string{"memory", "japan"}, 0.5},
		{"disjoint", []string{"alpha"}, []string{"beta"}, 0},
		{"both empty", nil, nil, 1},
		{"one empty", []string{"alpha"}, nil, 0},
		{"multiset counts", []string{"a", "a"}, []string{"a"}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapRatio(tc.a, tc.b); got != tc.want {
				t.Fatalf("OverlapRatio(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName("a/b:c*d?e"); got != "a-b-c-de" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("  plain  "); got != "plain" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
}
