package bs_test

import (
	"testing"

	"github.com/kepleron/gravint/bs"
	"github.com/kepleron/gravint/ode"
)

func TestNumericJacobianScaleNeverNarrowsDefaultScale(t *testing.T) {
	s := ode.New(2, 1)
	s.Derivatives = func(st *ode.State, dst, y []float64, t float64) {
		// strongly coupled, large-derivative system so at least one row
		// norm exceeds 1 and the widening branch is exercised
		dst[0] = 100 * y[1]
		dst[1] = 100 * y[0]
	}
	s.GetScale = bs.NumericJacobianScale(1e-6, 1e-3)

	ya := []float64{1, 1}
	s.Scaled(1e-6, 1e-3, ya, ya)
	widened := append([]float64(nil), s.Scale...)

	s.DefaultScale(1e-6, 1e-3, ya, ya)
	baseline := append([]float64(nil), s.Scale...)

	for i := range widened {
		if widened[i] < baseline[i] {
			t.Errorf("Scale[%d]: widened %g is smaller than default %g", i, widened[i], baseline[i])
		}
	}
}
