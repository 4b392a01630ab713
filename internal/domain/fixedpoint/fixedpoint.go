// Package fixedpoint converts decimal metric text to scaled integers and back.
//
// Values carry four implied decimal places. The number of fractional digits
// present in the source text is kept alongside so formatting can reproduce it.
package fixedpoint

import (
	"strconv"
	"strings"
)

// Scale is the implied denominator of a scaled value (4 decimal places).
const Scale = 10_000

// MaxDecimals is the largest fractional precision a value keeps.
const MaxDecimals = 4

// Value is a decimal number scaled by Scale together with the number of
// fractional digits seen when it was parsed.
type Value struct {
	Scaled   int64
	Decimals int
}

// Parse scans an optional leading minus sign, integer digits, and an optional
// decimal point followed by up to MaxDecimals digits. Further fractional digits
// are dropped (truncated). The scan stops at the first character that does not
// fit the grammar; whatever was read up to that point is returned.
//
// Scaled is an integer, so a negative zero such as "-0" or "-0.0" loses its
// sign: it formats back as "0" or "0.0".
func Parse(text string) Value {
	var (
		result   int64
		decimals int
		seenDot  bool
		negative bool
	)

	i := 0
	if i < len(text) && text[i] == '-' {
		negative = true
		i++
	}

scan:
	for ; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '.':
			if seenDot {
				break scan
			}
			seenDot = true
		case c >= '0' && c <= '9':
			if seenDot && decimals == MaxDecimals {
				// Precision is exhausted; ignore the remaining fraction digits.
				continue
			}
			result = result*10 + int64(c-'0')
			if seenDot {
				decimals++
			}
		default:
			break scan
		}
	}

	for d := decimals; d < MaxDecimals; d++ {
		result *= 10
	}
	if negative {
		result = -result
	}
	return Value{Scaled: result, Decimals: decimals}
}

// Format renders scaled with exactly decimals fractional digits. Excess
// precision is truncated toward zero, never rounded. decimals is clamped to
// [0, MaxDecimals].
func Format(scaled int64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}

	negative := scaled < 0
	magnitude := uint64(scaled)
	if negative {
		magnitude = uint64(-scaled)
	}

	integer := magnitude / Scale
	frac := magnitude % Scale

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatUint(integer, 10))
	if decimals == 0 {
		return b.String()
	}

	divisor := uint64(1)
	for i := 0; i < MaxDecimals-decimals; i++ {
		divisor *= 10
	}
	frac /= divisor

	digits := strconv.FormatUint(frac, 10)
	b.WriteByte('.')
	for pad := decimals - len(digits); pad > 0; pad-- {
		b.WriteByte('0')
	}
	b.WriteString(digits)
	return b.String()
}

// String formats v with its own precision.
func (v Value) String() string {
	return Format(v.Scaled, v.Decimals)
}

// MaxDecimalsOf returns the larger precision of a and b.
func MaxDecimalsOf(a, b Value) int {
	if a.Decimals > b.Decimals {
		return a.Decimals
	}
	return b.Decimals
}
