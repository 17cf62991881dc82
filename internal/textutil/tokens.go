package textutil

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

var caseFolder = cases.Fold()

// StopWords is a case-insensitive filter for tokens that carry no naming
// signal (articles, connectives).
type StopWords map[string]struct{}

// NewStopWords builds a filter from the configured word list.
func NewStopWords(words []string) StopWords {
	set := make(StopWords, len(words))
	for _, word := range words {
		word = caseFolder.String(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// Tokenize case-folds text, splits it on non-alphanumeric boundaries, and
// drops stop words. The extension of a file name should be stripped by the
// caller before tokenizing.
func Tokenize(text string, stop StopWords) []string {
	folded := caseFolder.String(text)
	raw := tokenSplitPattern.Split(folded, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		if _, skip := stop[token]; skip {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Stem returns the file name without its final extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OverlapRatio compares two token multisets and returns the size of their
// intersection divided by the size of their union. Two empty multisets
// yield 1; one empty multiset yields 0.
func OverlapRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	counts := make(map[string]int, len(a))
	for _, token := range a {
		counts[token]++
	}
	intersection := 0
	for _, token := range b {
		if counts[token] > 0 {
			counts[token]--
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a name used as a
// directory or file component. Slashes, backslashes, colons, and asterisks
// become dashes; other unsafe characters are removed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
