// Package money formats exact decimal amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount in the Brazilian convention: "R$ " prefix,
// dot as the thousands separator, comma as the decimal separator.
// FormatBRL(1234.56) == "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString("R$ ")
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
