package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestIntegrationParams_Validate(t *testing.T) {
	tests := []struct {
		name  string
		p     IntegrationParams
		valid bool
	}{
		{"ok", IntegrationParams{TimeStep: 0.001, ParticleCount: 14, SubStepsPerFrame: 5}, true},
		{"empty ensemble", IntegrationParams{TimeStep: 0.001, ParticleCount: 0, SubStepsPerFrame: 1}, true},
		{"zero dt", IntegrationParams{TimeStep: 0, ParticleCount: 1, SubStepsPerFrame: 1}, false},
		{"negative dt", IntegrationParams{TimeStep: -0.1, ParticleCount: 1, SubStepsPerFrame: 1}, false},
		{"NaN dt", IntegrationParams{TimeStep: math.NaN(), ParticleCount: 1, SubStepsPerFrame: 1}, false},
		{"negative count", IntegrationParams{TimeStep: 0.1, ParticleCount: -1, SubStepsPerFrame: 1}, false},
		{"zero substeps", IntegrationParams{TimeStep: 0.1, ParticleCount: 1, SubStepsPerFrame: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestForceParams_Validate(t *testing.T) {
	base := ForceParams{Softening: 0.005, Coefficient: 2, BoundaryStrength: -2, VelocityDamping: 0.99991}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid params, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ForceParams)
	}{
		{"zero softening", func(p *ForceParams) { p.Softening = 0 }},
		{"negative softening", func(p *ForceParams) { p.Softening = -1 }},
		{"zero damping", func(p *ForceParams) { p.VelocityDamping = 0 }},
		{"damping above one", func(p *ForceParams) { p.VelocityDamping = 1.01 }},
		{"infinite coefficient", func(p *ForceParams) { p.Coefficient = math.Inf(1) }},
		{"NaN boundary", func(p *ForceParams) { p.BoundaryStrength = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	v := Viewport{Width: 800, Height: 800, MinX: -2, MaxX: 2, MinY: -2, MaxY: 2}
	if err := v.Validate(); err != nil {
		t.Fatalf("expected valid viewport, got %v", err)
	}

	x, y := v.ToScreen(Vec2{0, 0})
	if x != 400 || y != 400 {
		t.Errorf("origin mapped to (%v, %v), want (400, 400)", x, y)
	}
	x, y = v.ToScreen(Vec2{1, -1})
	if x != 600 || y != 200 {
		t.Errorf("(1,-1) mapped to (%v, %v), want (600, 200)", x, y)
	}

	if !v.Contains(Vec2{1.5, -2}) || v.Contains(Vec2{2.1, 0}) {
		t.Error("Contains returned wrong result")
	}

	bad := Viewport{Width: 0, Height: 10, MinX: 1, MaxX: 1, MinY: 0, MaxY: 1}
	if err := bad.Validate(); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Frame: 12, Time: 0.06, Message: "invalid state", Wrapped: ErrInvalidState}
	expected := "frame 12 (t=0.0600): invalid state"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimError should unwrap to ErrInvalidState")
	}
}

func TestForceParams_Set(t *testing.T) {
	var p ForceParams
	for i, name := range []string{"softening", "coefficient", "boundary_strength", "velocity_damping"} {
		if err := p.Set(name, float64(i+1)); err != nil {
			t.Fatalf("Set(%s) failed: %v", name, err)
		}
	}
	want := ForceParams{Softening: 1, Coefficient: 2, BoundaryStrength: 3, VelocityDamping: 4}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
	if err := p.Set("mass", 1); !errors.Is(err, ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}
