// Package textutil provides the text processing used for placement naming:
// tokenization, stop-word filtering, token-multiset similarity, and
// filesystem-safe name sanitization.
//
// Tokenization case-folds with Unicode rules, splits on non-alphanumeric
// boundaries, and drops configured stop words, so similarity decisions are
// insensitive to case, punctuation, and filler words.
package textutil
