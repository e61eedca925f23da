package bs

import (
	"github.com/kepleron/gravint"
	"github.com/kepleron/gravint/ode"
)

// nbodyDerivatives is the built-in N-body right-hand side (spec.md §6
// reb_integrator_bs_part2's nbody_derivatives): unpack y into sys's
// bodies, recompute accelerations, repack [vx,vy,vz,ax,ay,az] into yDot.
func nbodyDerivatives(state *ode.State, yDot, y []float64, t float64) {
	sys := state.Ref.(*gravint.System)
	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		b.Pos[0] = y[i*6+0]
		b.Pos[1] = y[i*6+1]
		b.Pos[2] = y[i*6+2]
		b.Vel[0] = y[i*6+3]
		b.Vel[1] = y[i*6+4]
		b.Vel[2] = y[i*6+5]
	}
	gravint.DirectAccelerations(sys)
	for i := range sys.Bodies {
		b := sys.Bodies[i]
		yDot[i*6+0] = b.Vel[0]
		yDot[i*6+1] = b.Vel[1]
		yDot[i*6+2] = b.Vel[2]
		yDot[i*6+3] = b.Acc[0]
		yDot[i*6+4] = b.Acc[1]
		yDot[i*6+5] = b.Acc[2]
	}
}

// nbodyState lazily allocates the built-in N-body ODE the first time
// Part2 runs, mirroring reb_integrator_bs_part2's lazy reb_integrator_bs_add_ode.
func (bi *Integrator) nbodyState(sys *gravint.System) *ode.State {
	if bi.builtinNbody == nil {
		st := bi.AddODE(len(sys.Bodies) * 6)
		st.Derivatives = nbodyDerivatives
		st.Ref = sys
		bi.firstOrLastStep = true
		bi.builtinNbody = st
	}
	return bi.builtinNbody
}

// Part1 does nothing (spec.md §6 reb_integrator_bs_part1): the BS
// controller has no pre-force-evaluation hook, unlike MERCURANA's
// shell promotion.
func (bi *Integrator) Part1(sys *gravint.System) {}

// Part2 advances sys by one macro step using the built-in N-body ODE:
// copies body state into the ODE's Y, runs Step, copies the (possibly
// swapped) Y back into the bodies, and updates sys.T/Dt/DtLastDone the
// way reb_integrator_bs_part2 updates r->t/r->dt/r->dt_last_done.
func (bi *Integrator) Part2(sys *gravint.System) error {
	if sys.RunningLastStep() {
		bi.firstOrLastStep = true
	}

	st := bi.nbodyState(sys)

	y := st.Y
	for i := range sys.Bodies {
		b := sys.Bodies[i]
		y[i*6+0] = b.Pos[0]
		y[i*6+1] = b.Pos[1]
		y[i*6+2] = b.Pos[2]
		y[i*6+3] = b.Vel[0]
		y[i*6+4] = b.Vel[1]
		y[i*6+5] = b.Vel[2]
	}

	accepted, err := bi.Step(sys.T, sys.Dt)
	if err != nil {
		return err
	}
	if accepted {
		sys.T += sys.Dt
		sys.DtLastDone = sys.Dt
	}
	sys.Dt = bi.dtProposed

	y = st.Y // Y may have been swapped with Y1 on acceptance
	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		b.Pos[0] = y[i*6+0]
		b.Pos[1] = y[i*6+1]
		b.Pos[2] = y[i*6+2]
		b.Vel[0] = y[i*6+3]
		b.Vel[1] = y[i*6+4]
		b.Vel[2] = y[i*6+5]
	}
	return nil
}

// Synchronize is a no-op: the BS integrator always leaves bodies in
// sync after Part2 (spec.md §6 reb_integrator_bs_synchronize).
func (bi *Integrator) Synchronize(sys *gravint.System) {}
