// backend/src/parsers/detect.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var xlsxMagic = []byte("PK\x03\x04")

// IsSpreadsheet reports whether the raw bytes look like an XLSX workbook
// (a ZIP container) rather than delimited text.
func IsSpreadsheet(raw []byte) bool {
	return bytes.HasPrefix(raw, xlsxMagic)
}

// FileHeaders extracts the header row from an upload without committing to an
// adapter: the first sheet row for spreadsheets, the first CSV record for
// delimited text (delimiter sniffed from content).
func FileHeaders(raw []byte) ([]string, error) {
	if IsSpreadsheet(raw) {
		f, err := excelize.OpenReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil || len(rows) == 0 {
			return nil, ErrNoHeader
		}
		return rows[0], nil
	}

	content, err := DecodeText(raw)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = SniffDelimiter(content)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, ErrNoHeader
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	return headers, nil
}

// SelectAdapter runs each adapter's fingerprint against the header list and
// returns the first match, falling back to the position-based template
// adapter when nothing claims the file.
func SelectAdapter(headers []string, adapters []Adapter, fallback Adapter) Adapter {
	for _, a := range adapters {
		if a.Detect(headers) {
			return a
		}
	}
	return fallback
}
