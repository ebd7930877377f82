package jscad

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f as the shortest decimal that round-trips, the way a
// JavaScript engine prints a number literal: plain notation for magnitudes in
// [1e-6, 1e21), exponent notation ("1e-7", "1.5e+21") outside it.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // also covers -0
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go writes "1e-07"; JavaScript writes "1e-7".
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
