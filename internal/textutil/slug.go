package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugLower = cases.Lower(language.Und)

// Slugify converts a title into the catalog's URL-safe identifier.
//
// The text is lowercased, every rune that is not a word rune (letter, number,
// underscore), whitespace, or hyphen is dropped, runs of whitespace,
// underscores, and hyphens collapse into a single hyphen, and leading or
// trailing hyphens are trimmed. Unicode letters survive, so "Amélie" becomes
// "amélie".
func Slugify(text string) string {
	lowered := slugLower.String(text)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSep := false
	for _, r := range lowered {
		switch {
		case isSeparator(r):
			pendingSep = true
		case isWordRune(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSeparator reports runes that collapse into a single hyphen.
func isSeparator(r rune) bool {
	return r == '-' || r == '_' || unicode.IsSpace(r)
}
