package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make converts a title to a URL-friendly slug: diacritics are removed,
// letters are lowercased, "&" reads as "and", and every run of other
// characters collapses into a single hyphen.
func Make(title string) string {
	s := stripDiacritics(title)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var buf strings.Builder
	pendingDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && buf.Len() > 0 {
				buf.WriteByte('-')
			}
			pendingDash = false
			buf.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return buf.String()
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
