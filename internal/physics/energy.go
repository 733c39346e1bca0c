package physics

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

func (e *Ensemble) KineticEnergy() float64 {
	ke := 0.0
	for i := range e.particles {
		ke += e.particles[i].KineticEnergy()
	}
	return ke
}

// PotentialEnergy sums the pair potentials and the boundary potential.
func (e *Ensemble) PotentialEnergy(fp dynamo.ForceParams) float64 {
	pe := 0.0
	n := len(e.particles)
	for i := 0; i < n; i++ {
		pe += BoundaryPotential(e.particles[i], fp)
		for j := i + 1; j < n; j++ {
			pe += PairPotential(e.particles[i], e.particles[j], fp)
		}
	}
	return pe
}

func (e *Ensemble) Energy(fp dynamo.ForceParams) float64 {
	return e.KineticEnergy() + e.PotentialEnergy(fp)
}

func (e *Ensemble) Momentum() dynamo.Vec2 {
	var p dynamo.Vec2
	for i := range e.particles {
		p = p.Add(e.particles[i].Vel.Scale(e.particles[i].Mass))
	}
	return p
}

func (e *Ensemble) AngularMomentum() float64 {
	L := 0.0
	for i := range e.particles {
		pt := e.particles[i]
		L += pt.Mass * (pt.Pos.X*pt.Vel.Y - pt.Pos.Y*pt.Vel.X)
	}
	return L
}

// NetPairForce is the sum of the forces accumulated in the last step with
// the boundary terms removed. Pair symmetry makes it zero up to round-off.
func (e *Ensemble) NetPairForce() dynamo.Vec2 {
	var sum dynamo.Vec2
	for i := range e.forces {
		sum = sum.Add(e.forces[i])
	}
	return sum.Sub(e.boundarySum)
}

// MaxSpeed returns the largest particle speed.
func (e *Ensemble) MaxSpeed() float64 {
	vmax := 0.0
	for i := range e.particles {
		vmax = math.Max(vmax, e.particles[i].Vel.Norm())
	}
	return vmax
}

// MaxRadius returns the largest distance of any particle from the origin.
func (e *Ensemble) MaxRadius() float64 {
	rmax := 0.0
	for i := range e.particles {
		rmax = math.Max(rmax, e.particles[i].Pos.Norm())
	}
	return rmax
}
