package physics

import (
	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

// Ensemble is an ordered, index-stable collection of particles together with
// the per-step force accumulator. Steppers and renderers share one *Ensemble;
// nothing reorders or resizes it after construction.
type Ensemble struct {
	particles []Particle
	forces    []dynamo.Vec2
	steps     int

	// boundarySum is the total boundary force of the last step.
	boundarySum dynamo.Vec2
}

// NewEnsemble creates one particle per seed, at rest, with the default mass.
func NewEnsemble(seeds []Seed) *Ensemble {
	e := &Ensemble{
		particles: make([]Particle, len(seeds)),
		forces:    make([]dynamo.Vec2, len(seeds)),
	}
	for i, s := range seeds {
		e.particles[i] = NewParticle(s.Pos, s.Charge)
	}
	return e
}

func (e *Ensemble) Len() int { return len(e.particles) }

// Steps returns how many steps have been applied since construction.
func (e *Ensemble) Steps() int { return e.steps }

func (e *Ensemble) Position(i int) dynamo.Vec2 { return e.particles[i].Pos }

func (e *Ensemble) Velocity(i int) dynamo.Vec2 { return e.particles[i].Vel }

func (e *Ensemble) Charge(i int) float64 { return e.particles[i].Charge }

func (e *Ensemble) Particle(i int) Particle { return e.particles[i] }

// Force returns the total force accumulated for particle i during the most
// recent step. It is scratch state and is overwritten by the next step.
func (e *Ensemble) Force(i int) dynamo.Vec2 { return e.forces[i] }

// Particles exposes the backing slice for read-only iteration by renderers.
func (e *Ensemble) Particles() []Particle { return e.particles }

// Positions copies the current positions into dst, growing it if needed.
func (e *Ensemble) Positions(dst []dynamo.Vec2) []dynamo.Vec2 {
	if cap(dst) < len(e.particles) {
		dst = make([]dynamo.Vec2, len(e.particles))
	}
	dst = dst[:len(e.particles)]
	for i := range e.particles {
		dst[i] = e.particles[i].Pos
	}
	return dst
}

func (e *Ensemble) Seeds() []Seed {
	seeds := make([]Seed, len(e.particles))
	for i, p := range e.particles {
		seeds[i] = Seed{Pos: p.Pos, Charge: p.Charge}
	}
	return seeds
}

// SetState overwrites the position and velocity of particle i. Analysis
// tools use it to perturb and renormalize shadow ensembles between frames.
func (e *Ensemble) SetState(i int, pos, vel dynamo.Vec2) {
	e.particles[i].Pos = pos
	e.particles[i].Vel = vel
}

// Clone returns an independent deep copy.
func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{
		particles:   make([]Particle, len(e.particles)),
		forces:      make([]dynamo.Vec2, len(e.forces)),
		steps:       e.steps,
		boundarySum: e.boundarySum,
	}
	copy(c.particles, e.particles)
	copy(c.forces, e.forces)
	return c
}

// CopyFrom overwrites e with the state of src in place, so holders of e see
// the restored ensemble. Both must have the same length.
func (e *Ensemble) CopyFrom(src *Ensemble) {
	copy(e.particles, src.particles)
	copy(e.forces, src.forces)
	e.steps = src.steps
	e.boundarySum = src.boundarySum
}

// IsValid reports whether every position and velocity is finite.
func (e *Ensemble) IsValid() bool {
	for i := range e.particles {
		if !e.particles[i].Pos.IsValid() || !e.particles[i].Vel.IsValid() {
			return false
		}
	}
	return true
}

func (e *Ensemble) resetForces(fp dynamo.ForceParams) {
	e.boundarySum = dynamo.Vec2{}
	for i := range e.particles {
		e.forces[i] = BoundaryForce(e.particles[i], fp)
		e.boundarySum = e.boundarySum.Add(e.forces[i])
	}
}

func (e *Ensemble) integrateRange(start, end int, fp dynamo.ForceParams, dt float64) {
	for i := start; i < end; i++ {
		e.particles[i].integrate(e.forces[i], dt, fp.VelocityDamping)
	}
}
