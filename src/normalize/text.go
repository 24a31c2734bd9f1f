// backend/src/normalize/text.go
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// StripAccents decomposes the string (NFD) and drops combining marks, so
// "coração" becomes "coracao". Free-text marketplace exports mix accented and
// unaccented spellings of the same words.
func StripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Header canonicalizes a raw column header: accents stripped, lower-cased,
// runs of non-alphanumeric characters collapsed to a single underscore and
// edge underscores trimmed. "N.º de venda" -> "n_de_venda".
func Header(raw string) string {
	s := strings.ToLower(StripAccents(strings.TrimSpace(raw)))
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
