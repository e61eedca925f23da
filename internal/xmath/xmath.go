// Package xmath holds small vetted linear-algebra helpers used by the
// encounter predictor (the interaction kernel inlines its own
// arithmetic), backed by gonum/mat the
// way the teacher's NewtonRaphsonSolver leans on mat.VecDense for dense
// vector algebra rather than hand-inlining it.
package xmath

import "gonum.org/v1/gonum/mat"

// Dot3 returns the dot product of two 3-vectors via mat.VecDense, used
// in place of hand-inlined dx*dx+dy*dy+dz*dz arithmetic wherever a
// routine already has its operands as 3-element slices.
func Dot3(a, b [3]float64) float64 {
	va := mat.NewVecDense(3, a[:])
	vb := mat.NewVecDense(3, b[:])
	return mat.Dot(va, vb)
}

// Norm3Sq returns the squared Euclidean norm of a 3-vector.
func Norm3Sq(a [3]float64) float64 {
	return Dot3(a, a)
}
