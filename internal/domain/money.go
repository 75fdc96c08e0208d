package domain

import (
	"fmt"
	"strings"
)

// FormatBRL renders an amount in cents as Brazilian currency, e.g.
// 1234567 → "R$ 12.345,67". Negative amounts keep the sign before the symbol.
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	digits := fmt.Sprintf("%d", reais)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), centavos)
}
