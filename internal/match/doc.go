// Package match classifies scanned files against the catalog index and the
// placement store. Every file resolves to exactly one of three outcomes:
// known and not yet placed, known but already satisfied, or unknown.
package match
