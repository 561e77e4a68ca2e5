// Package search implements accent-insensitive substring matching over
// article titles and content.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritical marks, leaving every other
// character (digits, punctuation, whitespace) untouched.
// Example: "Élève #1" -> "eleve #1".
//
// Lowercasing happens before decomposition; case-folding rules for some
// scripts depend on the composed form, so the order is load-bearing.
func Normalize(s string) string {
	if !utf8.ValidString(s) {
		// Invalid byte sequences pass through unchanged rather than
		// being mangled into replacement runes.
		return s
	}
	lowered := strings.ToLower(s)
	result, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		return lowered
	}
	return result
}
