package metrics

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// ForceResidual tracks the largest net pair force seen after a step. The pair
// loop applies equal and opposite contributions, so anything above round-off
// points at an accumulator bug.
type ForceResidual struct {
	max float64
}

func NewForceResidual() *ForceResidual { return &ForceResidual{} }

func (f *ForceResidual) Name() string { return "force_residual" }

func (f *ForceResidual) Observe(e *physics.Ensemble, t float64) {
	f.max = math.Max(f.max, e.NetPairForce().Norm())
}

func (f *ForceResidual) Value() float64 { return f.max }

func (f *ForceResidual) Reset() { f.max = 0 }

// MaxSpeed is the fastest particle speed over the run.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(e *physics.Ensemble, t float64) {
	m.max = math.Max(m.max, e.MaxSpeed())
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
