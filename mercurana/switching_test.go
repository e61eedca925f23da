package mercurana

import (
	"math"
	"testing"
)

func TestLBoundaryValues(t *testing.T) {
	ri, ro := 1.0, 2.0
	if got := L(0.5, ri, ro); got != 0 {
		t.Errorf("L below ri: want 0, got %g", got)
	}
	if got := L(ri, ri, ro); got != 0 {
		t.Errorf("L(ri): want 0, got %g", got)
	}
	if got := L(ro, ri, ro); got != 1 {
		t.Errorf("L(ro): want 1, got %g", got)
	}
	if got := L(3, ri, ro); got != 1 {
		t.Errorf("L above ro: want 1, got %g", got)
	}
}

func TestLMidpointIsOneHalf(t *testing.T) {
	ri, ro := 1.0, 3.0
	got := L((ri+ro)/2, ri, ro)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("L(midpoint): want 0.5, got %g", got)
	}
}

func TestLMonotonic(t *testing.T) {
	ri, ro := 1.0, 2.0
	prev := -1.0
	for i := 0; i <= 20; i++ {
		d := ri + float64(i)/20*(ro-ri)
		v := L(d, ri, ro)
		if v < prev {
			t.Fatalf("L not monotonic at d=%g: %g < %g", d, v, prev)
		}
		prev = v
	}
}

func TestDLdrMatchesNumericDerivative(t *testing.T) {
	ri, ro := 1.0, 2.0
	const h = 1e-6
	for i := 1; i < 20; i++ {
		d := ri + float64(i)/20*(ro-ri)
		numeric := (L(d+h, ri, ro) - L(d-h, ri, ro)) / (2 * h)
		analytic := DLdr(d, ri, ro)
		if math.Abs(numeric-analytic) > 1e-4 {
			t.Errorf("d=%g: DLdr=%g, numeric derivative=%g", d, analytic, numeric)
		}
	}
}

func TestDLdrZeroOutsideBand(t *testing.T) {
	ri, ro := 1.0, 2.0
	if got := DLdr(0.5, ri, ro); got != 0 {
		t.Errorf("DLdr below ri: want 0, got %g", got)
	}
	if got := DLdr(3, ri, ro); got != 0 {
		t.Errorf("DLdr above ro: want 0, got %g", got)
	}
}

// TestSwitchingPartitionTelescopes exercises spec.md §9 property 5: summed
// across the shell recursion, a pair's L-weighted force contribution is
// exactly 1 regardless of where the telescoping sum is cut, the same
// algebraic identity InteractionStep relies on (see its doc comment) when
// it sums shell-local lsum = -L(cur,outer) + L(inner,cur) across
// every shell a pair is evaluated in.
func TestSwitchingPartitionTelescopes(t *testing.T) {
	dr := 1.7
	dcrit0, dcrit1, dcrit2 := 3.0, 1.5, 0.4

	lsum0 := L(dr, dcrit1, dcrit0) // shell 0: no outer band
	lsum1 := -L(dr, dcrit1, dcrit0) + L(dr, dcrit2, dcrit1)
	lsum2 := -L(dr, dcrit2, dcrit1) + 1 // innermost shell: no inner band

	if got := lsum0 + lsum1 + lsum2; math.Abs(got-1) > 1e-12 {
		t.Errorf("telescoped shell weights sum to %g, want 1", got)
	}
}

func TestSqrt3(t *testing.T) {
	for _, a := range []float64{1, 8, 27, 0.001, 1e6} {
		got := sqrt3(a)
		want := math.Cbrt(a)
		if math.Abs(got-want)/want > 1e-9 {
			t.Errorf("sqrt3(%g): want %g, got %g", a, want, got)
		}
	}
}
