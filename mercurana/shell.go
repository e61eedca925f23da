package mercurana

import (
	"math"

	"github.com/kepleron/gravint"
	"github.com/kepleron/gravint/internal/xmath"
)

// Scheme names a symmetric composition (spec.md §4.7); see compose.go for
// the coefficient tables and dispatch.
type Scheme int

const (
	SchemeLF Scheme = iota
	SchemeLF4
	SchemeLF6
	SchemeLF8
	SchemeLF4_2
	SchemeLF8_6_4
	SchemePMLF4
	SchemePMLF6
	SchemePLF7_6_4
)

// SwitchFunc and its derivative select the shell-to-shell force blend
// (default: L/DLdr in switching.go). A caller can install a different
// C-infinity partition as long as it vanishes at d<=ri and saturates at
// d>=ro, mirroring the C source's function-pointer rim->L/rim->dLdr.
type SwitchFunc func(d, ri, ro float64) float64

// Integrator is the MERCURANA multi-shell symplectic integrator (spec.md
// §4.4-4.7, §6). Grounded on struct reb_simulation_integrator_mercurana.
type Integrator struct {
	// Phi0 composes the outermost (shell 0) step; Phi1 composes every
	// recursive sub-shell step.
	Phi0, Phi1 Scheme
	// N is the number of sub-shell sub-steps per parent drift (rim->n).
	N int
	// WHSplitting special-cases shell 0 as a pure Wisdom-Holman split:
	// all particles are immediately promoted to shell 1 and star/planet
	// interactions never appear in shell 0's force sum.
	WHSplitting bool
	// SafeMode synchronizes (runs the postprocessor) after every Part2
	// call instead of only on demand.
	SafeMode bool
	// DtFrac sets the close-encounter distance scale: dcrit is the
	// radius at which the current shell's sub-step is DtFrac of the
	// two-body orbital period.
	DtFrac float64
	// Nmaxshells bounds the shell recursion depth.
	Nmaxshells int

	L    SwitchFunc
	DLdr SwitchFunc

	Map          [][]int
	Dcrit        [][]float64
	ShellN       []int
	ShellNActive []int
	Inshell      []bool
	Jerk         [][3]float64

	NmaxshellUsed                int
	RecalculateDcritThisTimestep bool
	IsSynchronized               bool

	allocatedN int
}

// New creates a MERCURANA integrator with reset defaults.
func New() *Integrator {
	m := &Integrator{}
	m.Reset()
	return m
}

// predictRmin2 estimates the squared minimum separation between p1 and p2
// over the coming sub-step dt (reb_mercurana_predict_rmin2): it samples
// the separation at the start, the end, and (if it falls within the
// step) the closest-approach point of a straight-line extrapolation, and
// returns both the start/end minimum (rmin2ab) and the refined minimum
// that also accounts for a closest approach within the step (rmin2abc).
func predictRmin2(p1, p2 gravint.Body, dt float64) (rmin2ab, rmin2abc float64) {
	dts := 1.0
	if dt < 0 {
		dts = -1.0
	}
	dt = math.Abs(dt)

	d1 := [3]float64{p1.Pos[0] - p2.Pos[0], p1.Pos[1] - p2.Pos[1], p1.Pos[2] - p2.Pos[2]}
	r1 := xmath.Norm3Sq(d1)

	dv1 := [3]float64{
		dts * (p1.Vel[0] - p2.Vel[0]),
		dts * (p1.Vel[1] - p2.Vel[1]),
		dts * (p1.Vel[2] - p2.Vel[2]),
	}

	d2 := [3]float64{d1[0] + dt*dv1[0], d1[1] + dt*dv1[1], d1[2] + dt*dv1[2]}
	r2 := xmath.Norm3Sq(d2)

	tClosest := xmath.Dot3(d1, dv1) / xmath.Dot3(dv1, dv1)
	d3 := [3]float64{d1[0] + tClosest*dv1[0], d1[1] + tClosest*dv1[1], d1[2] + tClosest*dv1[2]}
	r3 := xmath.Norm3Sq(d3)

	rmin2ab = math.Min(r1, r2)
	if frac := tClosest / dt; frac >= 0 && frac <= 1 {
		rmin2abc = math.Min(rmin2ab, r3)
	} else {
		rmin2abc = rmin2ab
	}
	return rmin2ab, rmin2abc
}

// encounterPredict promotes particles predicted to come within dcrit of
// each other over the coming sub-step dt from shell into shell+1
// (reb_mercurana_encounter_predict). Shell 0 under WHSplitting is a
// special case: every particle is unconditionally promoted to shell 1
// (the Wisdom-Holman split treats the star/planet Kepler motion as the
// outermost operator and everything else as perturbations in shell 1+).
func (m *Integrator) encounterPredict(sys *gravint.System, dt float64, shell int) {
	dcrit := m.Dcrit[shell]
	n := m.ShellN[shell]
	nActive := m.ShellNActive[shell]
	mp := m.Map[shell]

	if shell == 0 && m.WHSplitting {
		for i := 0; i < n; i++ {
			mi := mp[i]
			m.Inshell[mi] = false
			m.Map[shell+1][i] = mi
		}
		m.ShellN[shell+1] = n
		m.ShellNActive[shell+1] = nActive
		return
	}

	for i := 0; i < n; i++ {
		m.Inshell[mp[i]] = true
	}

	if shell+1 >= m.Nmaxshells {
		return
	}

	m.ShellN[shell+1] = 0
	m.ShellNActive[shell+1] = 0

	for i := 0; i < nActive; i++ {
		mi := mp[i]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			mj := mp[j]
			_, rmin2abc := predictRmin2(sys.Bodies[mi], sys.Bodies[mj], dt)
			dcritSum := dcrit[mi] + dcrit[mj]
			if rmin2abc < dcritSum*dcritSum {
				m.Inshell[mi] = false
				m.Map[shell+1][m.ShellN[shell+1]] = mi
				m.ShellN[shell+1]++
				break
			}
		}
	}
	m.ShellNActive[shell+1] = m.ShellN[shell+1]
	for i := nActive; i < n; i++ {
		mi := mp[i]
		for j := 0; j < nActive; j++ {
			mj := mp[j]
			_, rmin2abc := predictRmin2(sys.Bodies[mi], sys.Bodies[mj], dt)
			dcritSum := dcrit[mi] + dcrit[mj]
			if rmin2abc < dcritSum*dcritSum {
				m.Inshell[mi] = false
				m.Map[shell+1][m.ShellN[shell+1]] = mi
				m.ShellN[shell+1]++
				break
			}
		}
	}
}
