// Package money parses locale-formatted monetary text into exact decimals
// and formats decimals back into currency strings.
//
// Parsing follows the Brazilian convention (period thousands, comma
// decimal), so "R$ 1.234,56" is 1234.56. Formatting uses comma thousands
// and a period decimal ("R$ 1,234.56"); ParseAmount recognizes that shape
// too, so Format output always parses back to the same value.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency symbol used by Format.
const DefaultSymbol = "R$"

// ErrInvalidAmount is returned for text that is not a monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

var plainNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)$`)

// ParseAmount converts monetary text to an exact decimal.
//
//	ParseAmount("R$ 1.234,56") -> 1234.56
//	ParseAmount("-50,00")      -> -50
//	ParseAmount("1.500")       -> 1500
//	ParseAmount("R$ 1,234.56") -> 1234.56
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, strings.ReplaceAll(s, DefaultSymbol, ""))

	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")
	switch {
	case lastComma >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastComma >= 0:
		// Display form: comma thousands, period decimal.
		clean = strings.ReplaceAll(clean, ",", "")
	case lastDot >= 0 && thousandsGrouped(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	if !plainNumber.MatchString(clean) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return d, nil
}

// thousandsGrouped reports whether every period in s separates
// three-digit groups, as in "1.234.567".
func thousandsGrouped(s string) bool {
	s = strings.TrimLeft(s, "+-")
	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders d as "R$ 1,234.56".
func Format(d decimal.Decimal) string {
	return FormatWith(DefaultSymbol, d)
}

// FormatWith renders d with two decimals, comma thousands grouping and the
// given symbol. Negative values render as "R$ -1,234.56".
func FormatWith(symbol string, d decimal.Decimal) string {
	rounded := d.Round(2)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	b.WriteString(symbol)
	b.WriteByte(' ')
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
