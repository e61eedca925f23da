package ode

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Abs takes the absolute value of every element of dst in place.
// gonum/floats has no Abs (same gap the teacher's state/arithmetic.go
// works around), so this wraps math.Abs exactly as the teacher does.
func Abs(dst []float64) {
	for i := range dst {
		dst[i] = math.Abs(dst[i])
	}
}

// DivTo performs element-wise dst = a/b and returns dst.
func DivTo(dst, a, b []float64) []float64 {
	return floats.DivTo(dst, a, b)
}

// Max returns the maximum value in s.
func Max(s []float64) float64 {
	return floats.Max(s)
}

// AddScaled performs dst = dst + alpha*s.
func AddScaled(dst []float64, alpha float64, s []float64) {
	floats.AddScaled(dst, alpha, s)
}
