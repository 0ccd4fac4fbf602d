package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TrigramPattern matches a valid anonymized identifier: exactly three
// uppercase letters.
var TrigramPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// DeriveTrigram builds the anonymized identifier from a candidate's name:
// first-name initial, last-name initial, then the last name's second letter
// (or its last letter when the last name is a single rune). Accents are
// stripped so the result always matches TrigramPattern. Empty input yields
// an empty string.
func DeriveTrigram(firstName, lastName string) string {
	first := []rune(stripDiacritics(strings.TrimSpace(firstName)))
	last := []rune(stripDiacritics(strings.TrimSpace(lastName)))
	if len(first) == 0 || len(last) == 0 {
		return ""
	}
	third := last[len(last)-1]
	if len(last) >= 2 {
		third = last[1]
	}
	return strings.ToUpper(string([]rune{first[0], last[0], third}))
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
