// backend/src/security/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy *bluemonday.Policy

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string,
// preventing stored XSS when the value is later echoed by the dashboard.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// SanitizeForFormulaInjection prepends a single quote if the string starts
// with a formula trigger character. This prevents CSV injection when records
// are re-exported to Excel/Sheets. Only apply to free-text fields; negative
// amounts legitimately start with '-'.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StripUnprintable removes non-printable characters, allowing common
// whitespace like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanField is the sanitation pipeline for one free-text cell coming out of
// a marketplace export: HTML stripped, unprintables dropped, formula triggers
// neutralized, length capped.
func CleanField(s string, maxLength int) string {
	s = strings.TrimSpace(StripUnprintable(SanitizeText(s)))
	s = SanitizeForFormulaInjection(s)
	return TruncateField(s, maxLength)
}
