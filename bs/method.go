// Package bs implements the Gragg-Bulirsch-Stoer extrapolation integrator:
// adaptive sub-step engines (modified midpoint and drift-kick leapfrog),
// polynomial extrapolation in (1/n)^2, and the order/step-size controller
// that drives them. Ported from integrator_bs.c (Hairer & Wanner's
// algorithm, by way of rebound's C implementation).
package bs

// Method selects the sub-step engine TryStep uses.
type Method int

const (
	// MethodLeapfrog performs a drift-kick leapfrog composite over the
	// sub-steps. Requires the state layout to be flat 6-tuples
	// (position triple then velocity triple); its stability test is not
	// implemented (Open Question (i), see DESIGN.md).
	MethodLeapfrog Method = 0
	// MethodMidpoint performs the classical modified-midpoint method
	// and runs the stability test.
	MethodMidpoint Method = 1
)

func (m Method) String() string {
	switch m {
	case MethodLeapfrog:
		return "leapfrog"
	case MethodMidpoint:
		return "midpoint"
	default:
		return "unknown"
	}
}
