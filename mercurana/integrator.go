package mercurana

import (
	"context"
	"math"

	"github.com/kepleron/gravint"
)

// Reset reinstates the integrator's defaults (spec.md §6
// reb_integrator_mercurana_reset): LF for both phi0 and phi1, n=10,
// WH splitting on, safe mode on, dt_frac=0.1, 10 max shells.
func (m *Integrator) Reset() {
	m.Map = nil
	m.Dcrit = nil
	m.ShellN = nil
	m.ShellNActive = nil
	m.Inshell = nil
	m.Jerk = nil
	m.allocatedN = 0

	m.Phi0 = SchemeLF
	m.Phi1 = SchemeLF
	m.N = 10
	m.WHSplitting = true
	m.SafeMode = true
	m.DtFrac = 0.1
	m.Nmaxshells = 10
	m.NmaxshellUsed = 1
	m.RecalculateDcritThisTimestep = false
	m.IsSynchronized = true
	m.L = nil
	m.DLdr = nil
}

// Part1 allocates per-body shell bookkeeping on first use or whenever
// the body count grows, and installs the default switching function
// (spec.md §6 reb_integrator_mercurana_part1). It leaves sys.Gravity at
// GravityNone: MERCURANA always computes its own shell-local forces.
func (m *Integrator) Part1(sys *gravint.System) {
	n := len(sys.Bodies)
	if m.allocatedN < n {
		m.Dcrit = make([][]float64, m.Nmaxshells)
		m.Map = make([][]int, m.Nmaxshells)
		for i := range m.Dcrit {
			m.Dcrit[i] = make([]float64, n)
			m.Map[i] = make([]int, n)
		}
		m.Inshell = make([]bool, n)
		m.Jerk = make([][3]float64, n)
		m.ShellN = make([]int, m.Nmaxshells)
		m.ShellNActive = make([]int, m.Nmaxshells)

		m.allocatedN = n
		m.RecalculateDcritThisTimestep = true
	}

	if m.RecalculateDcritThisTimestep {
		m.RecalculateDcritThisTimestep = false
		if !m.IsSynchronized {
			m.Synchronize(context.Background(), sys)
		}
		m.recalculateDcrit(sys)
	}

	sys.Gravity = gravint.GravityNone

	if m.L == nil {
		m.L = L
		m.DLdr = DLdr
	}
}

// recalculateDcrit recomputes the per-shell, per-body critical distance
// at which that shell's sub-step equals DtFrac of the local two-body
// orbital period (spec.md §4.4 GLOSSARY "dcrit"), and resets the
// shell-0 identity map.
func (m *Integrator) recalculateDcrit(sys *gravint.System) {
	n := len(sys.Bodies)
	dtShell := sys.Dt
	for s := 0; s < m.Nmaxshells; s++ {
		for i := 0; i < n; i++ {
			t := dtShell / (m.DtFrac * 2 * math.Pi)
			m.Dcrit[s][i] = sqrt3(t * t * sys.G * sys.Bodies[i].Mass)
		}
		const longestDriftStepInShell = 0.5 // 2nd + 4th order
		dtShell *= longestDriftStepInShell
		dtShell /= float64(m.N)
		m.ShellN[s] = 0
		m.ShellNActive[s] = 0
	}
	for i := 0; i < n; i++ {
		m.Map[0][i] = i
	}
}

// Part2 runs one macro step of sys with the outermost composition Phi0
// (spec.md §6 reb_integrator_mercurana_part2).
func (m *Integrator) Part2(ctx context.Context, sys *gravint.System) {
	n := len(sys.Bodies)
	m.ShellN[0] = n
	m.ShellNActive[0] = sys.NActiveOrAll()

	if m.IsSynchronized {
		m.Preprocess(ctx, sys, sys.Dt, 0, m.Phi0)
	}
	m.Step(ctx, sys, sys.Dt, 0, m.Phi0)

	m.IsSynchronized = false
	if m.SafeMode {
		m.Synchronize(ctx, sys)
	}

	sys.T += sys.Dt
	sys.DtLastDone = sys.Dt
}

// Synchronize runs the outstanding postprocessor so positions/velocities
// are valid inertial-frame values (spec.md §5
// "recalculate_dcrit_this_timestep... synchronize-before-mutate rule";
// reb_integrator_mercurana_synchronize). Idempotent.
func (m *Integrator) Synchronize(ctx context.Context, sys *gravint.System) {
	if m.IsSynchronized {
		return
	}
	sys.Gravity = gravint.GravityNone
	if m.L == nil {
		m.L = L
		m.DLdr = DLdr
	}
	m.Postprocess(ctx, sys, sys.Dt, 0, m.Phi0)
	m.IsSynchronized = true
}
