package envelope

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders n the way ECMAScript's Number#toString does: the
// shortest digits that round-trip, no trailing ".0" for integers, and
// exponent notation outside [1e-6, 1e21).
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		// Covers negative zero.
		return "0"
	}

	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)

		// Go zero-pads the exponent to two digits ("1e-07").
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
