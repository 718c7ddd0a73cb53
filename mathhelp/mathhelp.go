package mathhelp

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

func BetweenInc[T constraints.Integer | constraints.Float](f, p, q T) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

func EuclidianMod[T constraints.Signed](d, m T) T {
	r := d % m
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}

// FloorDiv divides rounding towards negative infinity (like Python's //).
func FloorDiv[T constraints.Signed](d, m T) T {
	return (d - EuclidianMod(d, m)) / m
}

// FloorMultiple returns the largest multiple of m not greater than d.
func FloorMultiple[T constraints.Signed](d, m T) T {
	return FloorDiv(d, m) * m
}

// RoundHalfEven rounds to the given number of decimals, ties to even.
func RoundHalfEven(f float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.RoundToEven(f*pow) / pow
}

// ShortFloat formats like the shortest round-trip representation, but always with a decimal point.
// 10 -> "10.0", 61.32 -> "61.32"
func ShortFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
