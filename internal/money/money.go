// Package money provides integer-cent money primitives: safe numeric
// coercion, keystroke-level input validation, and conversion between
// cent amounts and display strings.
//
// Everything downstream of this package works in integer cents; floats
// only appear here, at the untrusted boundary where values arrive from
// JSON bodies or persisted rows.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// inputPattern accepts an in-progress decimal money entry: optional
	// leading digits, at most one decimal point, at most two digits after
	// it. The empty string matches.
	inputPattern = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

	nonMoneyChars = regexp.MustCompile(`[^0-9.]`)
)

// ToCents coerces an untrusted numeric value to a whole number of cents.
// NaN and infinities collapse to 0, as do values outside the int64 range.
// Fractional cents are truncated.
func ToCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0
	}
	return int64(v)
}

// IsValidMoneyInput reports whether s is a legal in-progress money entry.
// It gates keystroke-level input; use MoneyStringToCents to convert.
func IsValidMoneyInput(s string) bool {
	return inputPattern.MatchString(s)
}

// MoneyStringToCents converts a decimal money string to integer cents:
// "4" and "4." give 400, "4.9" gives 490, "4.99" gives 499. Extra
// decimal digits are truncated, never rounded: "4.999" gives 499.
// Non-numeric characters are stripped first, and anything that still
// fails to parse gives 0. The function never returns an error; malformed
// input is not worth more than zero cents.
func MoneyStringToCents(s string) int64 {
	if s == "" || s == "." {
		return 0
	}

	cleaned := nonMoneyChars.ReplaceAllString(s, "")
	parts := strings.Split(cleaned, ".")

	switch len(parts) {
	case 1:
		whole, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || whole < 0 {
			return 0
		}
		return whole * 100
	case 2:
		wholePart := parts[0]
		if wholePart == "" {
			wholePart = "0"
		}
		whole, err := strconv.ParseInt(wholePart, 10, 64)
		if err != nil || whole < 0 {
			return 0
		}

		// Truncate to two decimal digits, pad if only one given.
		dec := parts[1]
		if len(dec) > 2 {
			dec = dec[:2]
		}
		for len(dec) < 2 {
			dec += "0"
		}
		decimal, err := strconv.ParseInt(dec, 10, 64)
		if err != nil {
			return 0
		}
		return whole*100 + decimal
	default:
		return 0
	}
}

// CentsToMoneyString formats positive cents as "D.DD" with exactly two
// decimal digits. Zero and negative amounts give the empty string: the
// UI layer uses "" to mean "no value entered", so a stored zero renders
// the same as an empty field.
func CentsToMoneyString(cents int64) string {
	if cents <= 0 {
		return ""
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// FormatCurrency renders cents in the fixed "$D.DD" form used by
// shareable text. Unlike CentsToMoneyString it is total: zero and
// negative amounts format too, and no locale applies.
func FormatCurrency(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
