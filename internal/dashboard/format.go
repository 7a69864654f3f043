package dashboard

import (
	"math"
	"math/big"
	"strings"
)

// Placeholder is shown for a reading that has not arrived yet.
const Placeholder = "--"

// FormatReading renders a raw sensor value with one decimal.
func FormatReading(v *float64) string {
	return formatFixed(v, 1)
}

// FormatDistance renders a distance with two decimals.
func FormatDistance(v *float64) string {
	return formatFixed(v, 2)
}

// exactBits is enough mantissa to hold any float64 scaled by 10^prec plus
// one half without rounding.
const exactBits = 2200

// formatFixed rounds the exact value of v half away from zero, so 21.25
// gives "21.3" and 0.125 gives "0.13", the same as a browser's toFixed.
func formatFixed(v *float64, prec int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}

	x := new(big.Float).SetPrec(exactBits).SetFloat64(math.Abs(*v))
	scale := new(big.Float).SetPrec(exactBits).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(prec)), nil))
	x.Mul(x, scale)
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil) // truncates; x is non-negative

	digits := n.String()
	if len(digits) <= prec {
		digits = strings.Repeat("0", prec-len(digits)+1) + digits
	}
	out := digits
	if prec > 0 {
		out = digits[:len(digits)-prec] + "." + digits[len(digits)-prec:]
	}
	if *v < 0 {
		out = "-" + out
	}
	return out
}
