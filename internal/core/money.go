// Package core provides money parsing and formatting utilities.
//
// Amounts are handled as integer cents everywhere; floats appear only at the
// presentation boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Locale describes how a currency value is rendered: symbol, decimal
// separator and thousands separator.
type Locale struct {
	Symbol  string
	Decimal string
	Group   string
}

// BRL is the pt-BR profile the product ships with ("R$ 1.234,56").
var BRL = Locale{Symbol: "R$", Decimal: ",", Group: "."}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The
// result is always positive cents; invalid formats, negative values and zero
// amounts return an error.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatMoney renders cents as a currency string for the given locale,
// always with two decimal digits and grouped thousands. It is a pure
// function of its inputs and is the single formatting rule for every call
// site that shows money to a user.
func FormatMoney(cents int64, loc Locale) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)
	rem := cents % 100

	var grouped strings.Builder
	lead := len(units) % 3
	if lead > 0 {
		grouped.WriteString(units[:lead])
	}
	for i := lead; i < len(units); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteString(loc.Group)
		}
		grouped.WriteString(units[i : i+3])
	}

	s := loc.Symbol + " " + grouped.String() + loc.Decimal
	if rem < 10 {
		s += "0"
	}
	s += strconv.FormatInt(rem, 10)
	if neg {
		return "-" + s
	}
	return s
}

// Format renders the amount using the given locale.
func (m Money) Format(loc Locale) string {
	return FormatMoney(m.Cents, loc)
}

// Reais returns the value as a float64 for JSON payloads. Use cents for
// calculations to avoid floating-point precision issues.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}
