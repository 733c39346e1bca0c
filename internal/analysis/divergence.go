package analysis

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Divergence estimates the largest Lyapunov exponent of the ensemble by
// running a shadow copy with particle 0 shifted by perturbation along X.
// After every frame the phase-space separation is measured and the shadow is
// pulled back to distance perturbation along the same direction. A positive
// value means nearby initial conditions separate exponentially.
//
// e is not modified. s must not be in use by another run.
func Divergence(s physics.Stepper, e *physics.Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams, perturbation float64, frames int) float64 {
	if e.Len() == 0 || frames <= 0 || perturbation <= 0 {
		return 0
	}

	base := e.Clone()
	shadow := e.Clone()
	shadow.SetState(0, shadow.Position(0).Add(dynamo.Vec2{X: perturbation}), shadow.Velocity(0))

	sumLog := 0.0
	count := 0

	for f := 0; f < frames; f++ {
		physics.Frame(s, base, fp, ip)
		physics.Frame(s, shadow, fp, ip)

		sep := separation(base, shadow)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / perturbation)
		count++

		renormalize(base, shadow, perturbation/sep)
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * ip.FrameTime())
}

func separation(a, b *physics.Ensemble) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		dp := b.Position(i).Sub(a.Position(i))
		dv := b.Velocity(i).Sub(a.Velocity(i))
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}

func renormalize(base, shadow *physics.Ensemble, scale float64) {
	for i := 0; i < base.Len(); i++ {
		p, v := base.Position(i), base.Velocity(i)
		dp := shadow.Position(i).Sub(p).Scale(scale)
		dv := shadow.Velocity(i).Sub(v).Scale(scale)
		shadow.SetState(i, p.Add(dp), v.Add(dv))
	}
}
