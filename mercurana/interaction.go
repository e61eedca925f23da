package mercurana

import (
	"context"
	"math"

	"github.com/kepleron/gravint"
)

// InteractionStep applies the shell-local force kernel to every body in
// shell, advancing velocities by y*acceleration (+v*jerk when v!=0),
// (reb_integrator_mercurana_interaction_step). The double sum over active
// and passive bodies uses the outer/current/inner dcrit bands and the
// switching function to blend in exactly the force contribution that the
// next shell out has already accounted for and the next shell in hasn't
// yet, so summing across all active shells in a recursive call gives
// each pair's force exactly once.
//
// ctx is polled once per outer-loop index, the idiomatic Go analogue of
// the C source's reb_sigint flag: there is nothing in the teacher's own
// code to borrow a cancellation idiom from (godesim's Begin() loop never
// polls for external cancellation), so this is the one place this
// package reaches past both the teacher and the rest of the pack to the
// standard library's context package, the conventional way a Go library
// exposes cooperative cancellation of a long-running call.
func (m *Integrator) InteractionStep(ctx context.Context, sys *gravint.System, shell int, y, v float64) {
	n := m.ShellN[shell]
	nActive := m.ShellNActive[shell]
	mp := m.Map[shell]
	bodies := sys.Bodies

	var dcritInner, dcritOuter []float64
	dcritCurrent := m.Dcrit[shell]
	if shell < m.Nmaxshells-1 {
		dcritInner = m.Dcrit[shell+1]
	}
	if shell > 0 {
		dcritOuter = m.Dcrit[shell-1]
	}

	lFunc, dLdrFunc := m.L, m.DLdr

	for i := 0; i < n; i++ {
		mi := mp[i]
		bodies[mi].Acc = [3]float64{}
	}

	starti := 0
	if m.WHSplitting && shell == 0 {
		starti = 1
	}

	for i := starti; i < nActive; i++ {
		if ctx.Err() != nil {
			return
		}
		mi := mp[i]
		for j := i + 1; j < nActive; j++ {
			mj := mp[j]
			dx := bodies[mi].Pos[0] - bodies[mj].Pos[0]
			dy := bodies[mi].Pos[1] - bodies[mj].Pos[1]
			dz := bodies[mi].Pos[2] - bodies[mj].Pos[2]
			dr := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dcC := dcritCurrent[mi] + dcritCurrent[mj]

			lsum := 0.0
			if dcritOuter != nil && (!m.WHSplitting || shell != 1 || i != 0) {
				dcO := dcritOuter[mi] + dcritOuter[mj]
				lsum -= lFunc(dr, dcC, dcO)
			}
			if dcritInner != nil {
				dcI := dcritInner[mi] + dcritInner[mj]
				lsum += lFunc(dr, dcI, dcC)
			} else {
				lsum += 1
			}

			prefact := sys.G * lsum / (dr * dr * dr)
			prefactj := -prefact * bodies[mj].Mass
			prefacti := prefact * bodies[mi].Mass
			bodies[mi].Acc[0] += prefactj * dx
			bodies[mi].Acc[1] += prefactj * dy
			bodies[mi].Acc[2] += prefactj * dz
			bodies[mj].Acc[0] += prefacti * dx
			bodies[mj].Acc[1] += prefacti * dy
			bodies[mj].Acc[2] += prefacti * dz
		}
	}

	for i := nActive; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		mi := mp[i]
		for j := starti; j < nActive; j++ {
			mj := mp[j]
			dx := bodies[mi].Pos[0] - bodies[mj].Pos[0]
			dy := bodies[mi].Pos[1] - bodies[mj].Pos[1]
			dz := bodies[mi].Pos[2] - bodies[mj].Pos[2]
			dr := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dcC := dcritCurrent[mi] + dcritCurrent[mj]

			lsum := 0.0
			if dcritOuter != nil && (!m.WHSplitting || shell != 1 || j != 0) {
				dcO := dcritOuter[mi] + dcritOuter[mj]
				lsum -= lFunc(dr, dcC, dcO)
			}
			if dcritInner != nil {
				dcI := dcritInner[mi] + dcritInner[mj]
				lsum += lFunc(dr, dcI, dcC)
			} else {
				lsum += 1
			}

			prefact := sys.G * lsum / (dr * dr * dr)
			prefactj := -prefact * bodies[mj].Mass
			bodies[mi].Acc[0] += prefactj * dx
			bodies[mi].Acc[1] += prefactj * dy
			bodies[mi].Acc[2] += prefactj * dz
			if sys.TestparticleType {
				prefacti := prefact * bodies[mi].Mass
				bodies[mj].Acc[0] += prefacti * dx
				bodies[mj].Acc[1] += prefacti * dy
				bodies[mj].Acc[2] += prefacti * dz
			}
		}
	}

	if v != 0 {
		m.interactionJerk(ctx, sys, shell, y, v, starti, nActive, n, mp, dcritCurrent, dcritInner, dcritOuter, lFunc, dLdrFunc)
		return
	}

	for i := 0; i < n; i++ {
		mi := mp[i]
		bodies[mi].Vel[0] += y * bodies[mi].Acc[0]
		bodies[mi].Vel[1] += y * bodies[mi].Acc[1]
		bodies[mi].Vel[2] += y * bodies[mi].Acc[2]
	}
}

// interactionJerk computes the da/dt-based correction used by the
// pre-processed schemes (PMLF4, PMLF6) and folds it into velocity
// alongside the acceleration term: v_i += y*a_i + v*jerk_i.
func (m *Integrator) interactionJerk(ctx context.Context, sys *gravint.System, shell int, y, v float64, starti, nActive, n int, mp []int, dcritCurrent, dcritInner, dcritOuter []float64, lFunc, dLdrFunc SwitchFunc) {
	bodies := sys.Bodies
	if cap(m.Jerk) < n {
		m.Jerk = make([][3]float64, n)
	} else {
		m.Jerk = m.Jerk[:n]
	}
	for i := range m.Jerk {
		m.Jerk[i] = [3]float64{}
	}

	for i := starti; i < nActive; i++ {
		if ctx.Err() != nil {
			return
		}
		mi := mp[i]
		for j := i + 1; j < nActive; j++ {
			mj := mp[j]
			dx := bodies[mj].Pos[0] - bodies[mi].Pos[0]
			dy := bodies[mj].Pos[1] - bodies[mi].Pos[1]
			dz := bodies[mj].Pos[2] - bodies[mi].Pos[2]
			dax := bodies[mj].Acc[0] - bodies[mi].Acc[0]
			day := bodies[mj].Acc[1] - bodies[mi].Acc[1]
			daz := bodies[mj].Acc[2] - bodies[mi].Acc[2]

			dr := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dcC := dcritCurrent[mi] + dcritCurrent[mj]
			lsum, dLdrSum := 0.0, 0.0
			if dcritOuter != nil && (!m.WHSplitting || shell != 1 || i != 0) {
				dcO := dcritOuter[mi] + dcritOuter[mj]
				lsum -= lFunc(dr, dcC, dcO)
				dLdrSum -= dLdrFunc(dr, dcC, dcO)
			}
			if dcritInner != nil {
				dcI := dcritInner[mi] + dcritInner[mj]
				lsum += lFunc(dr, dcI, dcC)
				dLdrSum += dLdrFunc(dr, dcI, dcC)
			} else {
				lsum += 1
			}

			alphasum := dax*dx + day*dy + daz*dz
			prefact2 := 2 * sys.G / (dr * dr * dr)
			prefact2i := lsum * prefact2 * bodies[mi].Mass
			prefact2j := lsum * prefact2 * bodies[mj].Mass
			m.Jerk[j][0] -= dax * prefact2i
			m.Jerk[j][1] -= day * prefact2i
			m.Jerk[j][2] -= daz * prefact2i
			m.Jerk[i][0] += dax * prefact2j
			m.Jerk[i][1] += day * prefact2j
			m.Jerk[i][2] += daz * prefact2j

			prefact1 := alphasum * prefact2 / dr * (3*lsum/dr - dLdrSum)
			prefact1i := prefact1 * bodies[mi].Mass
			prefact1j := prefact1 * bodies[mj].Mass
			m.Jerk[j][0] += dx * prefact1i
			m.Jerk[j][1] += dy * prefact1i
			m.Jerk[j][2] += dz * prefact1i
			m.Jerk[i][0] -= dx * prefact1j
			m.Jerk[i][1] -= dy * prefact1j
			m.Jerk[i][2] -= dz * prefact1j
		}
	}

	for i := nActive; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		mi := mp[i]
		for j := starti; j < nActive; j++ {
			mj := mp[j]
			dx := bodies[mj].Pos[0] - bodies[mi].Pos[0]
			dy := bodies[mj].Pos[1] - bodies[mi].Pos[1]
			dz := bodies[mj].Pos[2] - bodies[mi].Pos[2]
			dax := bodies[mj].Acc[0] - bodies[mi].Acc[0]
			day := bodies[mj].Acc[1] - bodies[mi].Acc[1]
			daz := bodies[mj].Acc[2] - bodies[mi].Acc[2]

			dr := math.Sqrt(dx*dx + dy*dy + dz*dz)
			dcC := dcritCurrent[mi] + dcritCurrent[mj]
			lsum, dLdrSum := 0.0, 0.0
			if dcritOuter != nil && (!m.WHSplitting || shell != 1 || j != 0) {
				dcO := dcritOuter[mi] + dcritOuter[mj]
				lsum -= lFunc(dr, dcC, dcO)
				dLdrSum -= dLdrFunc(dr, dcC, dcO)
			}
			if dcritInner != nil {
				dcI := dcritInner[mi] + dcritInner[mj]
				lsum += lFunc(dr, dcI, dcC)
				dLdrSum += dLdrFunc(dr, dcI, dcC)
			} else {
				lsum += 1
			}

			alphasum := dax*dx + day*dy + daz*dz
			prefact2 := 2 * sys.G / (dr * dr * dr)
			prefact2j := lsum * prefact2 * bodies[mj].Mass
			prefact1 := alphasum * prefact2 / dr * (3*lsum/dr - dLdrSum)
			prefact1j := prefact1 * bodies[mj].Mass

			m.Jerk[i][0] += dax * prefact2j
			m.Jerk[i][1] += day * prefact2j
			m.Jerk[i][2] += daz * prefact2j
			m.Jerk[i][0] -= dx * prefact1j
			m.Jerk[i][1] -= dy * prefact1j
			m.Jerk[i][2] -= dz * prefact1j

			if sys.TestparticleType {
				prefact1i := prefact1 * bodies[mi].Mass
				prefact2i := lsum * prefact2 * bodies[mi].Mass
				m.Jerk[j][0] += dx * prefact1i
				m.Jerk[j][1] += dy * prefact1i
				m.Jerk[j][2] += dz * prefact1i
				m.Jerk[j][0] -= dax * prefact2i
				m.Jerk[j][1] -= day * prefact2i
				m.Jerk[j][2] -= daz * prefact2i
			}
		}
	}

	for i := 0; i < n; i++ {
		mi := mp[i]
		bodies[mi].Vel[0] += y*bodies[mi].Acc[0] + v*m.Jerk[i][0]
		bodies[mi].Vel[1] += y*bodies[mi].Acc[1] + v*m.Jerk[i][1]
		bodies[mi].Vel[2] += y*bodies[mi].Acc[2] + v*m.Jerk[i][2]
	}
}
