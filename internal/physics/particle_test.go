package physics

import (
	"math"
	"testing"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

func TestNewParticle(t *testing.T) {
	p := NewParticle(dynamo.Vec2{X: 1, Y: 2}, -0.5)
	if p.Mass != DefaultMass {
		t.Errorf("expected mass %v, got %v", DefaultMass, p.Mass)
	}
	if p.Vel != dynamo.Zero {
		t.Errorf("expected particle at rest, got velocity %v", p.Vel)
	}
	if p.Charge != -0.5 {
		t.Errorf("expected charge -0.5, got %v", p.Charge)
	}
}

func TestParticleIntegrate(t *testing.T) {
	p := Particle{Pos: dynamo.Vec2{X: 1}, Vel: dynamo.Vec2{Y: 2}, Mass: 2}
	f := dynamo.Vec2{X: 4, Y: -2}
	dt := 0.1
	damping := 0.5

	p.integrate(f, dt, damping)

	// acc = (2, -1)
	wantPos := dynamo.Vec2{X: 1 + 0.5*2*dt*dt, Y: 2*dt - 0.5*dt*dt}
	wantVel := dynamo.Vec2{X: 2 * dt * damping, Y: (2 - dt) * damping}

	if math.Abs(p.Pos.X-wantPos.X) > 1e-12 || math.Abs(p.Pos.Y-wantPos.Y) > 1e-12 {
		t.Errorf("expected position %v, got %v", wantPos, p.Pos)
	}
	if math.Abs(p.Vel.X-wantVel.X) > 1e-12 || math.Abs(p.Vel.Y-wantVel.Y) > 1e-12 {
		t.Errorf("expected velocity %v, got %v", wantVel, p.Vel)
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{2, 1}, {-0.1, -1}, {0, 0}, {math.Copysign(0, -1), 0},
	}
	for _, tt := range tests {
		if got := sign(tt.x); got != tt.want {
			t.Errorf("sign(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestEnsembleAccessors(t *testing.T) {
	e := NewEnsemble([]Seed{
		{Pos: dynamo.Vec2{X: -1}, Charge: 1},
		{Pos: dynamo.Vec2{X: 1}, Charge: -1},
	})

	if e.Len() != 2 {
		t.Fatalf("expected 2 particles, got %d", e.Len())
	}
	if e.Position(1) != (dynamo.Vec2{X: 1}) || e.Charge(1) != -1 {
		t.Errorf("accessors returned wrong particle: %v", e.Particle(1))
	}

	positions := e.Positions(nil)
	if len(positions) != 2 || positions[0] != (dynamo.Vec2{X: -1}) {
		t.Errorf("Positions() = %v", positions)
	}

	c := e.Clone()
	Advance(c, dynamo.ForceParams{Softening: 0.01, Coefficient: 1, VelocityDamping: 1},
		dynamo.IntegrationParams{TimeStep: 0.01, ParticleCount: 2, SubStepsPerFrame: 1})
	if e.Position(0) != (dynamo.Vec2{X: -1}) {
		t.Error("Clone shares state with original")
	}
	if c.Steps() != 1 || e.Steps() != 0 {
		t.Errorf("unexpected step counts: clone %d, original %d", c.Steps(), e.Steps())
	}
	if seeds := e.Seeds(); len(seeds) != 2 || seeds[1].Charge != -1 {
		t.Errorf("Seeds() = %v", seeds)
	}
}
