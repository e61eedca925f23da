package mercurana

import (
	"context"

	"github.com/kepleron/gravint"
)

// driftStep recurses into encounter-promoted sub-shells after advancing
// positions, so it doubles as both the pure drift operator of the
// composition and the shell-recursion entry point of spec.md §4.6
// (reb_integrator_mercurana_drift_step): predict which bodies enter a
// close encounter over this sub-step, advance only the ones that stay
// in the current shell, then run N recursive sub-shell compositions
// over whatever got promoted.
func (m *Integrator) driftStep(ctx context.Context, sys *gravint.System, a float64, shell int) {
	m.encounterPredict(sys, a, shell)
	mp := m.Map[shell]
	n := m.ShellN[shell]
	bodies := sys.Bodies
	for i := 0; i < n; i++ {
		mi := mp[i]
		if m.Inshell[mi] {
			bodies[mi].Pos[0] += a * bodies[mi].Vel[0]
			bodies[mi].Pos[1] += a * bodies[mi].Vel[1]
			bodies[mi].Pos[2] += a * bodies[mi].Vel[2]
		}
	}
	if shell+1 < m.Nmaxshells && m.ShellN[shell+1] > 0 {
		if shell+2 > m.NmaxshellUsed {
			m.NmaxshellUsed = shell + 2
		}
		as := a / float64(m.N)
		m.Preprocess(ctx, sys, as, shell+1, m.Phi1)
		for i := 0; i < m.N; i++ {
			m.Step(ctx, sys, as, shell+1, m.Phi1)
		}
		m.Postprocess(ctx, sys, as, shell+1, m.Phi1)
	}
}
