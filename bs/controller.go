package bs

import (
	"math"

	"github.com/kepleron/gravint"
	"github.com/kepleron/gravint/ode"
)

const (
	maxOrder       = 18
	sequenceLength = maxOrder / 2 // 9

	stepControl1           = 0.65
	stepControl2           = 0.94
	stepControl3           = 0.02
	stepControl4           = 4.0
	orderControl1          = 0.8
	orderControl2          = 0.9
	stabilityReduction     = 0.5
	errorTooLargeThreshold = 1e25
)

// Integrator is the BS order- and step-size controller of spec.md §4.3,
// owning an ordered list of ODE states and the per-step scratch shared
// across them.
type Integrator struct {
	States []*ode.State

	ScalAbsoluteTolerance float64
	ScalRelativeTolerance float64
	MinStep               float64
	MaxStep               float64
	Method                Method

	// Log, when non-nil, receives the same per-column accept/reject
	// trace the C source prints unconditionally; nil turns tracing off.
	Log *gravint.Logger

	targetIter       int
	previousRejected bool
	firstOrLastStep  bool
	dtProposed       float64

	// LastRejectReason classifies the most recent rejection (spec.md §7);
	// ReasonNone once a step has been accepted.
	LastRejectReason StepReason

	seq             []int
	coeff           []float64
	costPerStep     []int
	costPerTimeUnit []float64
	optimalStep     []float64

	builtinNbody *ode.State
}

// New creates a BS integrator with reset defaults.
func New() *Integrator {
	bi := &Integrator{}
	bi.Reset()
	return bi
}

// Reset reinstates the integrator's defaults (spec.md §6
// integrator_bs_reset_struct): absTol=relTol=1e-5, maxStep=10,
// minStep=1e-8, method=midpoint, firstOrLastStep=1, and discards all
// registered ODEs and sequence arrays.
func (bi *Integrator) Reset() {
	bi.States = nil
	bi.seq = nil
	bi.coeff = nil
	bi.costPerStep = nil
	bi.costPerTimeUnit = nil
	bi.optimalStep = nil
	bi.builtinNbody = nil

	bi.ScalAbsoluteTolerance = 1e-5
	bi.ScalRelativeTolerance = 1e-5
	bi.MaxStep = 10
	bi.MinStep = 1e-8
	bi.firstOrLastStep = true
	bi.previousRejected = false
	bi.Method = MethodMidpoint
	bi.targetIter = 0
	bi.LastRejectReason = ReasonNone
}

// AddODE registers a new ODE state of the given vector length and
// returns it for the caller to populate (Y, Derivatives, optionally
// GetScale).
func (bi *Integrator) AddODE(length int) *ode.State {
	bi.allocateSequenceArrays()
	st := ode.New(length, sequenceLength)
	bi.States = append(bi.States, st)
	return st
}

func (bi *Integrator) allocateSequenceArrays() {
	if bi.seq != nil {
		return
	}
	bi.seq = make([]int, sequenceLength)
	bi.costPerStep = make([]int, sequenceLength)
	bi.coeff = make([]float64, sequenceLength)
	bi.costPerTimeUnit = make([]float64, sequenceLength)
	bi.optimalStep = make([]float64, sequenceLength)

	// sub-step count sequence: 2, 6, 10, 14, ...
	for k := range bi.seq {
		bi.seq[k] = 4*k + 2
	}
	bi.costPerStep[0] = bi.seq[0] + 1
	for k := 1; k < sequenceLength; k++ {
		bi.costPerStep[k] = bi.costPerStep[k-1] + bi.seq[k]
	}
	for j := 0; j < sequenceLength; j++ {
		r := 1.0 / float64(bi.seq[j])
		bi.coeff[j] = r * r
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step runs one macro step of length dt starting at t, iterating tableau
// columns until the order/step controller accepts or rejects (spec.md
// §4.3). It returns accepted=true and nil error on acceptance, or
// accepted=false with a nil error on a recoverable rejection
// (StabilityRejected / ErrorTooLarge / NonConvergent, recorded in
// LastRejectReason — dt_proposed and targetIter have already been updated
// for a retry). A non-nil error
// means a fatal condition (NaN, min/max step) was hit; per REDESIGN FLAG
// (iii) this is returned rather than aborting the process.
func (bi *Integrator) Step(t, dt float64) (bool, error) {
	bi.allocateSequenceArrays()

	if bi.targetIter == 0 {
		tol := bi.ScalRelativeTolerance
		log10R := math.Log10(math.Max(1e-10, tol))
		bi.targetIter = clampInt(int(math.Floor(0.5-0.6*log10R)), 1, sequenceLength-2)
	}

	for _, s := range bi.States {
		s.Scaled(bi.ScalAbsoluteTolerance, bi.ScalRelativeTolerance, s.Y, s.Y)
	}

	if bi.Method == MethodMidpoint {
		for _, s := range bi.States {
			s.Derivatives(s, s.Y0Dot, s.Y, t)
		}
	}

	forward := dt >= 0
	dt = math.Abs(dt)

	reject := false
	k := -1
	var stepErr error

loop:
	for {
		k++
		if !TryStep(bi.States, k, bi.seq[k], t, dt, bi.Method) {
			bi.Log.Logf("S")
			dt = math.Abs(dt * stabilityReduction)
			reject = true
			bi.LastRejectReason = ReasonStabilityRejected
			break loop
		}

		for _, s := range bi.States {
			copy(s.C, s.Y1)
			copy(s.D[k], s.Y1)
		}

		if k == 0 {
			continue loop
		}

		for _, s := range bi.States {
			Extrapolate(s, bi.coeff, k)
			s.Scaled(bi.ScalAbsoluteTolerance, bi.ScalRelativeTolerance, s.Y, s.Y1)
		}

		errSq := 0.0
		combinedLength := 0
		for _, s := range bi.States {
			combinedLength += s.Length
			ratio := make([]float64, s.Length)
			ode.DivTo(ratio, s.C, s.Scale)
			ode.Abs(ratio)
			m := ode.Max(ratio)
			if sq := m * m; sq > errSq {
				errSq = sq
			}
		}
		errVal := math.Sqrt(errSq / float64(combinedLength))
		if math.IsNaN(errVal) {
			stepErr = nanError(dt)
			break loop
		}

		if errVal > errorTooLargeThreshold {
			bi.Log.Logf("R (error= %.5e)", errVal)
			dt = math.Abs(dt * stabilityReduction)
			reject = true
			bi.LastRejectReason = ReasonErrorTooLarge
			break loop
		}

		exp := 1.0 / float64(2*k+1)
		fac := stepControl2 / math.Pow(errVal/stepControl1, exp)
		power := math.Pow(stepControl3, exp)
		fac = math.Max(power/stepControl4, math.Min(1.0/power, fac))
		bi.optimalStep[k] = math.Abs(dt * fac)
		bi.costPerTimeUnit[k] = float64(bi.costPerStep[k]) / bi.optimalStep[k]

		switch k - bi.targetIter {
		case -1: // one before target
			if bi.targetIter > 1 && !bi.previousRejected {
				if errVal <= 1.0 {
					break loop
				}
				ratio := float64(bi.seq[bi.targetIter]*bi.seq[bi.targetIter+1]) / float64(bi.seq[0]*bi.seq[0])
				if errVal > ratio*ratio {
					reject = true
					bi.targetIter = k
					if bi.targetIter > 1 && bi.costPerTimeUnit[bi.targetIter-1] < orderControl1*bi.costPerTimeUnit[bi.targetIter] {
						bi.targetIter--
					}
					dt = bi.optimalStep[bi.targetIter]
					bi.Log.Logf("O")
					bi.LastRejectReason = ReasonNonConvergent
					break loop
				}
			}
		case 0: // exactly on target
			if errVal <= 1.0 {
				break loop
			}
			ratio := float64(bi.seq[k+1]) / float64(bi.seq[0])
			if errVal > ratio*ratio {
				bi.Log.Logf("o")
				reject = true
				bi.LastRejectReason = ReasonNonConvergent
				if bi.targetIter > 1 && bi.costPerTimeUnit[bi.targetIter-1] < orderControl1*bi.costPerTimeUnit[bi.targetIter] {
					bi.targetIter--
				}
				dt = bi.optimalStep[bi.targetIter]
				break loop
			}
		case 1: // one past target
			if errVal > 1.0 {
				bi.Log.Logf("e")
				reject = true
				bi.LastRejectReason = ReasonNonConvergent
				if bi.targetIter > 1 && bi.costPerTimeUnit[bi.targetIter-1] < orderControl1*bi.costPerTimeUnit[bi.targetIter] {
					bi.targetIter--
				}
				dt = bi.optimalStep[bi.targetIter]
			}
			break loop
		default:
			if bi.firstOrLastStep && errVal <= 1.0 {
				break loop
			}
		}
	}

	if stepErr != nil {
		return false, stepErr
	}

	if !reject {
		bi.Log.Logf(".")
		for _, s := range bi.States {
			s.Y, s.Y1 = s.Y1, s.Y
		}

		var optimalIter int
		switch {
		case k == 1:
			optimalIter = 2
			if bi.previousRejected {
				optimalIter = 1
			}
		case k <= bi.targetIter:
			optimalIter = k
			if bi.costPerTimeUnit[k-1] < orderControl1*bi.costPerTimeUnit[k] {
				optimalIter = k - 1
			} else if bi.costPerTimeUnit[k] < orderControl2*bi.costPerTimeUnit[k-1] {
				optimalIter = minInt(k+1, sequenceLength-2)
			}
		default:
			optimalIter = k - 1
			if k > 2 && bi.costPerTimeUnit[k-2] < orderControl1*bi.costPerTimeUnit[k-1] {
				optimalIter = k - 2
			}
			if bi.costPerTimeUnit[k] < orderControl2*bi.costPerTimeUnit[optimalIter] {
				optimalIter = minInt(k, sequenceLength-2)
			}
		}

		if bi.previousRejected {
			bi.targetIter = minInt(optimalIter, k)
			dt = math.Min(dt, bi.optimalStep[bi.targetIter])
		} else {
			if optimalIter <= k {
				dt = bi.optimalStep[optimalIter]
			} else if k < bi.targetIter && bi.costPerTimeUnit[k] < orderControl2*bi.costPerTimeUnit[k-1] {
				dt = bi.optimalStep[k] * float64(bi.costPerStep[optimalIter+1]) / float64(bi.costPerStep[k])
			} else {
				dt = bi.optimalStep[k] * float64(bi.costPerStep[optimalIter]) / float64(bi.costPerStep[k])
			}
			bi.targetIter = optimalIter
		}
	}

	dt = math.Abs(dt)
	if dt < bi.MinStep {
		return false, minStepError(dt)
	}
	if bi.MaxStep > 0 && dt > bi.MaxStep {
		return false, maxStepError(dt)
	}
	if !forward {
		dt = -dt
	}
	bi.dtProposed = dt

	if reject {
		bi.previousRejected = true
	} else {
		bi.previousRejected = false
		bi.firstOrLastStep = false
		bi.LastRejectReason = ReasonNone
	}

	return !reject, nil
}

// DtProposed returns the step size proposed for the next macro step.
func (bi *Integrator) DtProposed() float64 { return bi.dtProposed }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
