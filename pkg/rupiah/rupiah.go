// Package rupiah formats whole-rupiah amounts the way the cashier UI shows
// them: "Rp 1.000.000".
package rupiah

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Format renders an amount with the id-ID thousands separator and Rp prefix.
func Format(amount int64) string {
	return printer.Sprintf("Rp %v", number.Decimal(amount))
}

// Parse extracts the integer amount from user input such as "Rp 1.000.000".
// Everything except digits is ignored; empty input parses to zero.
func Parse(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
