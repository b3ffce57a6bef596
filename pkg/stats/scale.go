// Package stats holds the numeric kernels behind the column transforms.
// Every function is stateless: it fits on the values it is given, applies the
// result, and keeps nothing, so no fitted state leaks from one stage into the next.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BinarizeThreshold is the cut applied after min-max scaling.
const BinarizeThreshold = 0.5

// MinMax returns the smallest and largest valid value. ok is false when no
// value is valid.
func MinMax(vals []float64, valid []bool) (lo, hi float64, ok bool) {
	dense := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			dense = append(dense, v)
		}
	}
	if len(dense) == 0 {
		return 0, 0, false
	}
	return floats.Min(dense), floats.Max(dense), true
}

// MinMaxScale maps valid values onto [0,1] with (x-min)/(max-min).
// A constant column scales to 0. Invalid entries are copied through untouched.
func MinMaxScale(vals []float64, valid []bool) []float64 {
	out := make([]float64, len(vals))
	copy(out, vals)
	lo, hi, ok := MinMax(vals, valid)
	if !ok {
		return out
	}
	floats.AddConst(-lo, out)
	span := hi - lo
	for i := range out {
		if !valid[i] {
			out[i] = vals[i]
			continue
		}
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] /= span
	}
	return out
}

// Threshold maps values strictly above t to 1 and everything else to 0.
func Threshold(vals []float64, t float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v > t {
			out[i] = 1
		}
	}
	return out
}

// Binarize is MinMaxScale followed by Threshold at BinarizeThreshold, which
// makes the result independent of the column's original scale.
func Binarize(vals []float64, valid []bool) []float64 {
	return Threshold(MinMaxScale(vals, valid), BinarizeThreshold)
}

// Clamp applies the lower bound and then, independently, the upper bound.
// Values equal to a bound are left alone by both passes.
func Clamp(vals []float64, lo, hi float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}

// RoundToMultiple rounds each value to the nearest multiple of m, ties to even.
func RoundToMultiple(vals []float64, m float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.RoundToEven(v/m) * m
	}
	return out
}

// IsIntegral reports whether x has no fractional part.
func IsIntegral(x float64) bool {
	return !math.IsInf(x, 0) && x == math.Trunc(x)
}
