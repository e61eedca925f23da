package gravint

import "math"

// DirectAccelerations computes pairwise Newtonian accelerations for every
// body in sys by direct summation and stores them in each Body's Acc
// field. It is the one concrete gravity routine kept in scope (spec.md
// §1 Non-goals excludes tree codes, GPU offload and anything beyond a
// "direct" hook); it backs the BS integrator's built-in N-body ODE
// (integrator_bs_part2's nbody_derivatives) and is reused by test
// scenarios that need a reference force law outside MERCURANA's own
// shell kernel.
func DirectAccelerations(sys *System) {
	n := len(sys.Bodies)
	for i := range sys.Bodies {
		sys.Bodies[i].Acc = [3]float64{0, 0, 0}
	}
	for i := 0; i < n; i++ {
		bi := &sys.Bodies[i]
		for j := i + 1; j < n; j++ {
			bj := &sys.Bodies[j]
			dx := bi.Pos[0] - bj.Pos[0]
			dy := bi.Pos[1] - bj.Pos[1]
			dz := bi.Pos[2] - bj.Pos[2]
			r2 := dx*dx + dy*dy + dz*dz
			r := math.Sqrt(r2)
			prefact := sys.G / (r2 * r)
			bi.Acc[0] -= prefact * bj.Mass * dx
			bi.Acc[1] -= prefact * bj.Mass * dy
			bi.Acc[2] -= prefact * bj.Mass * dz
			bj.Acc[0] += prefact * bi.Mass * dx
			bj.Acc[1] += prefact * bi.Mass * dy
			bj.Acc[2] += prefact * bi.Mass * dz
		}
	}
}
