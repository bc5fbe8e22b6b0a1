package csv

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	if strings.HasPrefix(headers[0], utf8BOM) {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// deaccent decomposes, drops combining marks, and recomposes, so "žánr"
// becomes "zanr" and "Año" becomes "Ano".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugHeader canonicalizes a source header cell into the snake_case form the
// schema uses: diacritics stripped, lowercased, runs of non-alphanumerics
// collapsed to a single underscore. "Box Office " slugs to "box_office".
func SlugHeader(name string) string {
	s, _, err := transform.String(deaccent, strings.TrimSpace(name))
	if err != nil {
		s = strings.TrimSpace(name)
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
