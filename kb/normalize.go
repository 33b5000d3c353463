package kb

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a raw string for matching: Unicode NFC, lower case,
// trimmed. It keeps diacritics so it stays usable for exact comparisons.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(s)))
}

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	// đ decomposes to itself, no combining mark to strip.
	dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")
)

// StripDiacritics removes Vietnamese accents so that "bưởi" and "buoi"
// tokenize identically.
func StripDiacritics(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}

	return dReplacer.Replace(stripped)
}
