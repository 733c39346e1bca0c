package physics

import (
	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

// DefaultMass is the mass every particle is created with.
const DefaultMass = 1.0

// Particle is a charged point mass. Position and velocity are the only state
// that persists between steps.
type Particle struct {
	Pos    dynamo.Vec2
	Vel    dynamo.Vec2
	Charge float64
	Mass   float64
}

// NewParticle returns a particle at rest with the default mass.
func NewParticle(pos dynamo.Vec2, charge float64) Particle {
	return Particle{Pos: pos, Charge: charge, Mass: DefaultMass}
}

// Seed is the initial condition of one particle.
type Seed struct {
	Pos    dynamo.Vec2
	Charge float64
}

// integrate advances p by dt under force f using the semi-implicit scheme:
// position takes the half-step acceleration term, velocity the full step,
// then velocity decays by damping.
func (p *Particle) integrate(f dynamo.Vec2, dt, damping float64) {
	acc := f.Scale(1 / p.Mass)
	p.Pos = p.Pos.Add(p.Vel.Scale(dt)).Add(acc.Scale(0.5 * dt * dt))
	p.Vel = p.Vel.Add(acc.Scale(dt)).Scale(damping)
}

func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Vel.Dot(p.Vel)
}
