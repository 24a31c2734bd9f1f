// backend/src/utils/format.go
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyBR renders a value as Brazilian Real: "R$ 1.234,56".
// Presentation only; all arithmetic upstream stays in decimal.
func FormatCurrencyBR(value decimal.Decimal) string {
	quantized := value.Round(2)
	sign := ""
	if quantized.IsNegative() {
		sign = "-"
		quantized = quantized.Abs()
	}
	s := quantized.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")
	return fmt.Sprintf("%sR$ %s,%s", sign, groupThousands(intPart), fracPart)
}

// FormatDecimalBR renders a number with a comma decimal separator and dot
// thousands grouping: FormatDecimalBR(1234.5, 1) == "1.234,5".
func FormatDecimalBR(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	d := decimal.NewFromFloat(value).Round(int32(decimals))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if decimals == 0 {
		return sign + groupThousands(d.StringFixed(0))
	}
	intPart, fracPart, _ := strings.Cut(d.StringFixed(int32(decimals)), ".")
	return fmt.Sprintf("%s%s,%s", sign, groupThousands(intPart), fracPart)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
