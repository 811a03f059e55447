package calc

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v in its shortest round-trippable decimal form.
// Magnitudes in [1e-5, 1e15) are written without an exponent.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) || (abs >= 1e-5 && abs < 1e15) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'e', -1, 64)
}

// ParseNumber parses a trimmed decimal float64. It accepts everything
// FormatNumber produces, including "+Inf", "-Inf" and "NaN".
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
