package util

import (
	"math"
	"strconv"
)

// FmtFloat renders v compactly for tabular output: no exponent for the
// magnitudes parameter values live in, no trailing zero noise.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// InUnit reports whether v is a finite proportion in [0, 1]. Used for
// advisory range checks on _frac fields; the parameter store itself stays
// permissive.
func InUnit(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0 && v <= 1
}
