package bs

import "github.com/kepleron/gravint/ode"

// Extrapolate performs an in-place Neville-style polynomial extrapolation
// sweep in the variable (1/n)^2 over state.D's populated rows D[0..k],
// using state.C as column scratch (spec.md §4.2). coeff is the
// controller's coeff[j] = 1/seq[j]^2 table. On exit state.Y1 holds the
// extrapolated estimate sum_{j=0..k} D[j][*], and state.C holds the
// last-column error contribution.
func Extrapolate(state *ode.State, coeff []float64, k int) {
	C := state.C
	D := state.D
	length := state.Length

	for j := 0; j < k; j++ {
		xi := coeff[k-j-1]
		xim1 := coeff[k]
		facC := xi / (xi - xim1)
		facD := xim1 / (xi - xim1)
		row := D[k-j-1]
		for i := 0; i < length; i++ {
			cd := C[i] - row[i]
			C[i] = facC * cd
			row[i] = facD * cd
		}
	}

	y1 := state.Y1
	copy(y1, D[0])
	for j := 1; j <= k; j++ {
		row := D[j]
		for i := 0; i < length; i++ {
			y1[i] += row[i]
		}
	}
}
