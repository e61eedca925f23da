package bs

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/kepleron/gravint/ode"
)

// NumericJacobianScale builds an ode.GetScale that widens the default
// component-wise scale by the squared row norms of the Jacobian of Derivatives,
// finite-differenced with gonum/diff/fd the way the teacher's
// state.Jacobian builds its Jacobian (_teacherref/state/diff.go). It is
// a domain-stack addition with no analogue in the original C source
// (which only ever scales by |ya|,|yb|); off by default, a caller opts
// in by assigning the returned func to State.GetScale.
//
// Components whose row is poorly conditioned (derivative magnitude much
// larger than the state itself, as near a close encounter) get a larger
// scale and therefore a looser effective tolerance on that component,
// trading a little accuracy there to avoid spurious step rejections
// driven by stiffness rather than by genuine truncation error.
func NumericJacobianScale(absTol, relTol float64) ode.GetScale {
	return func(s *ode.State, ya, yb []float64) {
		s.DefaultScale(absTol, relTol, ya, yb)

		n := s.Length
		f := func(dst, y []float64) {
			s.Derivatives(s, dst, y, 0)
		}
		jac := mat.NewDense(n, n, nil)
		fd.Jacobian(jac, f, ya, nil)

		for i := 0; i < n; i++ {
			rowNorm := 0.0
			for j := 0; j < n; j++ {
				v := jac.At(i, j)
				rowNorm += v * v
			}
			widen := 1.0
			if rowNorm > 1 {
				widen = 1.0 + relTol*rowNorm
			}
			s.Scale[i] *= widen
		}
	}
}
