package bs_test

import (
	"math"
	"testing"

	"github.com/kepleron/gravint"
	"github.com/kepleron/gravint/bs"
)

func circularTwoBody() *gravint.System {
	return &gravint.System{
		G: 1,
		Bodies: []gravint.Body{
			{Mass: 1},
			{Mass: 1e-3, Pos: [3]float64{1, 0, 0}, Vel: [3]float64{0, 1, 0}},
		},
		NActive: -1,
		Dt:      0.01,
	}
}

func systemEnergy(sys *gravint.System) float64 {
	var ke, pe float64
	for _, b := range sys.Bodies {
		v2 := b.Vel[0]*b.Vel[0] + b.Vel[1]*b.Vel[1] + b.Vel[2]*b.Vel[2]
		ke += 0.5 * b.Mass * v2
	}
	for i := 0; i < len(sys.Bodies); i++ {
		for j := i + 1; j < len(sys.Bodies); j++ {
			bi, bj := sys.Bodies[i], sys.Bodies[j]
			dx, dy, dz := bi.Pos[0]-bj.Pos[0], bi.Pos[1]-bj.Pos[1], bi.Pos[2]-bj.Pos[2]
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			pe -= sys.G * bi.Mass * bj.Mass / r
		}
	}
	return ke + pe
}

func TestBuiltinNbodyConservesEnergy(t *testing.T) {
	sys := circularTwoBody()
	e0 := systemEnergy(sys)

	bi := bs.New()
	bi.ScalAbsoluteTolerance = 1e-12
	bi.ScalRelativeTolerance = 1e-12
	for i := 0; i < 200; i++ {
		bi.Part1(sys)
		if err := bi.Part2(sys); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	e1 := systemEnergy(sys)
	if relErr := math.Abs((e1 - e0) / e0); relErr > 1e-6 {
		t.Errorf("energy drift too large: start=%g end=%g relErr=%g", e0, e1, relErr)
	}
}

func TestBuiltinNbodySynchronizeIsNoop(t *testing.T) {
	sys := circularTwoBody()
	bi := bs.New()
	bi.Part1(sys)
	_ = bi.Part2(sys)
	before := sys.Bodies[1].Pos
	bi.Synchronize(sys)
	after := sys.Bodies[1].Pos
	if before != after {
		t.Errorf("Synchronize mutated body state: before=%v after=%v", before, after)
	}
}
