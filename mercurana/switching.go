// Package mercurana implements a multi-shell hybrid symplectic integrator:
// operator-splitting leapfrog compositions with recursive close-encounter
// handling via a C-infinity switching function, ported from
// integrator_mercurana.c.
package mercurana

import "math"

// sqrt3 is a machine-independent cube root via Newton's method, used only
// to compute dcrit (speed is not a concern). Ported verbatim from the C
// source's sqrt3; gonum has no generic Newton root-finder with this exact
// fixed-iteration shape, so it stays a direct standard-library port.
func sqrt3(a float64) float64 {
	x := 1.0
	for k := 0; k < 200; k++ {
		x2 := x * x
		x += (a/x2 - x) / 3.0
	}
	return x
}

// f and dfdy are the bump-function building blocks of L (spec.md §4.5):
// f(x) = exp(-1/x) for x>0, 0 otherwise, infinitely differentiable at 0.
func f(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Exp(-1 / x)
}

func dfdy(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Exp(-1/x) / (x * x)
}

// L is the C-infinity switching function (reb_integrator_mercurana_L_infinity):
// 0 for d<=ri, 1 for d>=ro, and a smooth partition of unity in between,
// built from f(y)/(f(y)+f(1-y)) with y=(d-ri)/(ro-ri).
func L(d, ri, ro float64) float64 {
	y := (d - ri) / (ro - ri)
	switch {
	case y < 0:
		return 0
	case y > 1:
		return 1
	default:
		return f(y) / (f(y) + f(1-y))
	}
}

// DLdr is dL/dr (reb_integrator_mercurana_dLdr_infinity), the analytic
// derivative of L with respect to d, used by the jerk kernel.
func DLdr(d, ri, ro float64) float64 {
	y := (d - ri) / (ro - ri)
	dydr := 1 / (ro - ri)
	switch {
	case y < 0:
		return 0
	case y > 1:
		return 0
	default:
		fy := f(y)
		f1y := f(1 - y)
		sum := fy + f1y
		return dydr * (dfdy(y)/sum - fy/(sum*sum)*(dfdy(y)-dfdy(1-y)))
	}
}
