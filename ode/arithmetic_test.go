package ode

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestAbsMatchesMathAbs(t *testing.T) {
	want := []float64{-3, 2, -0.5, 0}
	got := append([]float64(nil), want...)
	Abs(got)
	for i := range want {
		if got[i] != math.Abs(want[i]) {
			t.Errorf("Abs[%d]: want %g, got %g", i, math.Abs(want[i]), got[i])
		}
	}
}

func TestDivToMatchesGonum(t *testing.T) {
	a := []float64{1, 4, -9}
	b := []float64{2, 2, 3}
	want := floats.DivTo(make([]float64, 3), a, b)
	got := DivTo(make([]float64, 3), a, b)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DivTo[%d]: want %g, got %g", i, want[i], got[i])
		}
	}
}

func TestMaxMatchesGonum(t *testing.T) {
	s := []float64{1, 5, -9, 3}
	if got, want := Max(s), floats.Max(s); got != want {
		t.Errorf("Max: want %g, got %g", want, got)
	}
}

func TestAddScaledMatchesGonum(t *testing.T) {
	dst1 := []float64{1, 2, 3}
	dst2 := append([]float64(nil), dst1...)
	s := []float64{0.5, -1, 2}
	floats.AddScaled(dst1, 2, s)
	AddScaled(dst2, 2, s)
	for i := range dst1 {
		if dst1[i] != dst2[i] {
			t.Errorf("AddScaled[%d]: want %g, got %g", i, dst1[i], dst2[i])
		}
	}
}
