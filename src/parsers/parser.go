// backend/src/parsers/parser.go
package parsers

import (
	"errors"

	"github.com/alyal/vendalytics/backend/src/models"
)

// Fatal file errors. Anything else that goes wrong during parsing is
// row-scoped: the row is skipped, a line-numbered message is recorded and
// ingestion continues.
var (
	ErrEmptyFile      = errors.New("file has no data rows")
	ErrUndecodable    = errors.New("file could not be decoded as text")
	ErrNoHeader       = errors.New("no header row detected")
	ErrMissingColumns = errors.New("required columns missing")
)

// Adapter converts one marketplace export format into canonical sale records.
//
// Detect is a best-effort fingerprint over the discovered header list (true
// when at least two indicator headers are present). It is advisory: the
// pipeline uses it to pick an adapter but a caller can force one explicitly.
//
// ParseFile returns the successfully parsed records together with the
// row-scoped error messages; the error return is reserved for fatal
// whole-file failures.
type Adapter interface {
	Name() string
	Detect(headers []string) bool
	ParseFile(raw []byte) ([]models.CanonicalSale, []string, error)
}
