package bs

import (
	"math"
	"testing"
)

// Extrapolate assumes each tableau row is a point on a curve in the
// variable x=1/n^2; Neville extrapolation to x=0 of an exactly linear
// curve must reproduce the asymptotic value F regardless of how many
// rows are fed in, since a linear fit through any number of points of a
// line is that same line.
func TestExtrapolateRecoversLinearModel(t *testing.T) {
	bi := New()
	const F = 10.0
	const c = 3.0
	for k := 0; k < 4; k++ {
		st := bi.AddODE(1)
		for j := 0; j <= k; j++ {
			st.D[j][0] = F + c*bi.coeff[j]
		}
		copy(st.C, st.D[k])
		Extrapolate(st, bi.coeff, k)
		if got := st.Y1[0]; math.Abs(got-F) > 1e-9 {
			t.Errorf("k=%d: want %g, got %g", k, F, got)
		}
	}
}

func TestExtrapolateOrderZeroIsIdentity(t *testing.T) {
	bi := New()
	st := bi.AddODE(2)
	st.D[0][0], st.D[0][1] = 7, -2
	copy(st.C, st.D[0])
	Extrapolate(st, bi.coeff, 0)
	for i, want := range []float64{7, -2} {
		if st.Y1[i] != want {
			t.Errorf("Y1[%d]: want %g, got %g", i, want, st.Y1[i])
		}
	}
}
