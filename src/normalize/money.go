// backend/src/normalize/money.go
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrEmptyAmount = errors.New("empty monetary value")

// ThousandsHeuristic controls how a lone dot followed by exactly three digits
// is read ("1.234"). Brazilian exports use the dot as a thousands separator,
// so the default treats it as grouping when the integer part has at most
// three digits. Set from config at startup; see AMOUNT_THOUSANDS_HEURISTIC.
var ThousandsHeuristic = true

// ParseMoney parses a monetary string tolerating Brazilian and English
// conventions: currency symbols, regular and non-breaking spaces, comma or
// point decimals, and dot thousands grouping.
//
//	"1.234,56"  -> 1234.56
//	"R$ 100,00" -> 100.00
//	"-50,25"    -> -50.25
//	"1234.56"   -> 1234.56
func ParseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, ErrEmptyAmount
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		// The right-most separator is the decimal one. In practice that is
		// always the comma in these exports ("1.234,56"), but a file written
		// the English way ("1,234.56") must survive too.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasDot:
		if strings.Count(cleaned, ".") > 1 {
			// More than one dot can only be grouping.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		} else if ThousandsHeuristic {
			intPart, fracPart, _ := strings.Cut(cleaned, ".")
			intPart = strings.TrimPrefix(intPart, "-")
			if len(fracPart) == 3 && len(intPart) <= 3 {
				cleaned = strings.ReplaceAll(cleaned, ".", "")
			}
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid monetary value %q: %w", raw, err)
	}
	return d, nil
}
