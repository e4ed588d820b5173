package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol = "$"
	moneyPlaces    = 2
)

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to two fraction digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// FormatMoney renders d as "$1,234.50" or "$-1,234.50".
func FormatMoney(d decimal.Decimal) string {
	d = RoundMoney(d)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(moneyPlaces)
	intPart, frac, _ := strings.Cut(fixed, ".")

	return CurrencySymbol + sign + groupThousands(intPart) + "." + frac
}

// ParseMoney is the inverse of FormatMoney. Thousands separators are optional.
func ParseMoney(s string) (decimal.Decimal, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), CurrencySymbol)
	if !ok {
		return decimal.Zero, fmt.Errorf("ParseMoney: %q: missing %s", s, CurrencySymbol)
	}

	neg := false
	if r, ok := strings.CutPrefix(rest, "-"); ok {
		neg = true
		rest = r
	}

	digits := strings.ReplaceAll(rest, ",", "")
	if digits == "" || strings.ContainsAny(digits, "+-eE ") {
		return decimal.Zero, fmt.Errorf("ParseMoney: %q: no amount", s)
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ParseMoney: %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// Percent returns round2(amount * pct / 100).
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(pct).Div(hundred))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
