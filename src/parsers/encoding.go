// backend/src/parsers/encoding.go
package parsers

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file bytes to a string, trying a fixed ladder of
// encodings: UTF-8 (with or without BOM), Windows-1252, then ISO-8859-1.
// Marketplace exports from Brazilian sellers routinely arrive in all three.
func DecodeText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrUndecodable
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if s, err := decodeWith(raw, charmap.Windows1252); err == nil && !strings.ContainsRune(s, utf8.RuneError) {
		return s, nil
	}
	s, err := decodeWith(raw, charmap.ISO8859_1)
	if err != nil {
		return "", ErrUndecodable
	}
	return s, nil
}

func decodeWith(raw []byte, cm *charmap.Charmap) (string, error) {
	out, _, err := transform.Bytes(cm.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SniffDelimiter inspects up to the first 2KB of decoded content and picks
// between the two delimiters seen in the wild: ";" (the Brazilian default)
// and ",". Semicolon wins ties.
func SniffDelimiter(content string) rune {
	sample := content
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	if strings.Count(sample, ",") > strings.Count(sample, ";") {
		return ','
	}
	return ';'
}
