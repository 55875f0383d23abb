// Package utils provides Indian-convention number formatting for finlens.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/finlens/pkg/models"
)

// FormatCurrency renders the absolute value rounded to whole rupees with
// Indian grouping, e.g. -1234567.4 → "₹12,34,567". The sign is left to the
// caller's styling.
func FormatCurrency(amount float64) string {
	return "₹" + formatIndianNumber(int64(math.Round(math.Abs(amount))))
}

// FormatAmount renders a statement amount with two decimals and Indian
// grouping, keeping the sign: -1234.5 → "-1,234.50".
func FormatAmount(amount float64) string {
	if amount < 0 {
		s := groupedFixed2(math.Abs(amount))
		if s == "0.00" {
			return s
		}
		return "-" + s
	}
	return groupedFixed2(amount)
}

// FormatCashFlow renders whole rupees with Indian grouping and negatives in
// parentheses: -25000 → "(25,000)".
func FormatCashFlow(amount float64) string {
	n := int64(math.Round(math.Abs(amount)))
	s := formatIndianNumber(n)
	if amount < 0 && n != 0 {
		return "(" + s + ")"
	}
	return s
}

// FormatPercentage renders a whole-number percentage: 23.2 → "23.20%" at two
// decimals. The value is not rescaled.
func FormatPercentage(pct float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, pct)
}

// FormatTimes renders a "times" ratio to two decimals.
func FormatTimes(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatINRCompact formats a number in compact Indian notation.
// e.g., 1927345 → "₹19.27 L", 192734500000 → "₹19273.45 Cr"
func FormatINRCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "₹"
	if negative {
		prefix = "-₹"
	}

	switch {
	case amount >= 1e12:
		// Lakh crores
		return fmt.Sprintf("%s%s L Cr", prefix, formatWithDecimals(amount/1e12))
	case amount >= 1e7:
		return fmt.Sprintf("%s%s Cr", prefix, formatWithDecimals(amount/1e7))
	case amount >= 1e5:
		return fmt.Sprintf("%s%s L", prefix, formatWithDecimals(amount/1e5))
	case amount >= 1e3:
		return fmt.Sprintf("%s%s K", prefix, formatWithDecimals(amount/1e3))
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatValue renders v according to its display unit. Unavailable values
// render as missing, which callers take from the report kind ("0.00" for
// statements, "NA" for ratios).
func FormatValue(v models.Value, unit models.Unit, missing string, percentDecimals int) string {
	f, ok := v.Float()
	if !ok {
		return missing
	}
	switch unit {
	case models.UnitPercentage:
		return FormatPercentage(f, percentDecimals)
	case models.UnitCurrency:
		return FormatCurrency(f)
	case models.UnitTimes:
		return FormatTimes(f)
	default:
		return FormatAmount(f)
	}
}

// groupedFixed2 rounds to paise first so 2.999 renders as 3.00, not 2.100.
func groupedFixed2(amount float64) string {
	paise := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s.%02d", formatIndianNumber(paise/100), paise%100)
}

// formatIndianNumber formats an integer with Indian grouping (last 3, then 2s).
func formatIndianNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	length := len(s)

	// Take the last 3 digits
	result := s[length-3:]
	remaining := s[:length-3]

	// Group remaining digits in pairs from right
	for len(remaining) > 0 {
		if len(remaining) > 2 {
			result = remaining[len(remaining)-2:] + "," + result
			remaining = remaining[:len(remaining)-2]
		} else {
			result = remaining + "," + result
			remaining = ""
		}
	}

	return result
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
