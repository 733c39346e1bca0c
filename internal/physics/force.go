package physics

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// ForceMagnitude is the softened inverse-square magnitude between a and b.
// It is bounded by Coefficient*|qa*qb|/Softening as the separation vanishes.
func ForceMagnitude(a, b Particle, fp dynamo.ForceParams) float64 {
	d := a.Pos.DistanceTo(b.Pos)
	return fp.Coefficient * math.Abs(a.Charge*b.Charge) / (fp.Softening + d*d)
}

// PairForce returns the force b exerts on a. Like signs repel, unlike signs
// attract. The force a exerts on b is the exact negation.
func PairForce(a, b Particle, fp dynamo.ForceParams) dynamo.Vec2 {
	f := dynamo.UnitAtAngle(a.Pos.AngleTo(b.Pos)).Scale(ForceMagnitude(a, b, fp))
	if sign(a.Charge) == sign(b.Charge) {
		return f.Neg()
	}
	return f
}

// BoundaryForce is the radial force on p, directed along the angle from the
// origin to p with magnitude BoundaryStrength*cbrt(|p|).
func BoundaryForce(p Particle, fp dynamo.ForceParams) dynamo.Vec2 {
	theta := dynamo.Zero.AngleTo(p.Pos)
	return dynamo.UnitAtAngle(theta).Scale(fp.BoundaryStrength * math.Cbrt(p.Pos.DistanceTo(dynamo.Zero)))
}

// PairPotential is the potential energy of the pair, zero at infinite
// separation. Its negative radial derivative is the signed PairForce
// magnitude along the separation.
func PairPotential(a, b Particle, fp dynamo.ForceParams) float64 {
	r := a.Pos.DistanceTo(b.Pos)
	rs := math.Sqrt(fp.Softening)
	u := fp.Coefficient * math.Abs(a.Charge*b.Charge) / rs * (math.Pi/2 - math.Atan(r/rs))
	if sign(a.Charge) == sign(b.Charge) {
		return u
	}
	return -u
}

// BoundaryPotential is the potential of the boundary force, zero at the origin.
func BoundaryPotential(p Particle, fp dynamo.ForceParams) float64 {
	r := p.Pos.DistanceTo(dynamo.Zero)
	return -fp.BoundaryStrength * 0.75 * math.Pow(r, 4.0/3.0)
}
