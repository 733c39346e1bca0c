package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// IntegrationParams controls how time advances.
type IntegrationParams struct {
	TimeStep         float64
	ParticleCount    int
	SubStepsPerFrame int
}

func (p IntegrationParams) Validate() error {
	var errs []error
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		errs = append(errs, boundsError("time_step", "must be positive, got %g", p.TimeStep))
	}
	if p.ParticleCount < 0 {
		errs = append(errs, boundsError("particle_count", "must be non-negative, got %d", p.ParticleCount))
	}
	if p.SubStepsPerFrame < 1 {
		errs = append(errs, boundsError("sub_steps_per_frame", "must be at least 1, got %d", p.SubStepsPerFrame))
	}
	return errors.Join(errs...)
}

// FrameTime is the simulated time covered by one rendered frame.
func (p IntegrationParams) FrameTime() float64 {
	return p.TimeStep * float64(p.SubStepsPerFrame)
}

// ForceParams describes the pair force law and the per-particle terms.
//
// Softening is an additive regularization in the pair force denominator, not a
// physical radius. BoundaryStrength > 0 pushes particles away from the origin,
// < 0 pulls them toward it.
type ForceParams struct {
	Softening        float64
	Coefficient      float64
	BoundaryStrength float64
	VelocityDamping  float64
}

func (p ForceParams) Validate() error {
	var errs []error
	if !(p.Softening > 0) || math.IsInf(p.Softening, 0) {
		errs = append(errs, boundsError("softening", "must be positive, got %g", p.Softening))
	}
	if math.IsNaN(p.Coefficient) || math.IsInf(p.Coefficient, 0) {
		errs = append(errs, boundsError("coefficient", "must be finite, got %g", p.Coefficient))
	}
	if math.IsNaN(p.BoundaryStrength) || math.IsInf(p.BoundaryStrength, 0) {
		errs = append(errs, boundsError("boundary_strength", "must be finite, got %g", p.BoundaryStrength))
	}
	if !(p.VelocityDamping > 0 && p.VelocityDamping <= 1) {
		errs = append(errs, boundsError("velocity_damping", "must be in (0, 1], got %g", p.VelocityDamping))
	}
	return errors.Join(errs...)
}

// Set assigns the parameter named by its config key, for parameter sweeps.
func (p *ForceParams) Set(name string, v float64) error {
	switch name {
	case "softening":
		p.Softening = v
	case "coefficient":
		p.Coefficient = v
	case "boundary_strength":
		p.BoundaryStrength = v
	case "velocity_damping":
		p.VelocityDamping = v
	default:
		return fmt.Errorf("force parameter %q: %w", name, ErrUnknownName)
	}
	return nil
}

// Viewport maps world coordinates onto a window of Width x Height pixels.
type Viewport struct {
	Width, Height int
	MinX, MaxX    float64
	MinY, MaxY    float64
}

func (v Viewport) Validate() error {
	var errs []error
	if v.Width <= 0 || v.Height <= 0 {
		errs = append(errs, boundsError("width/height", "must be positive, got %dx%d", v.Width, v.Height))
	}
	if !(v.MinX < v.MaxX) {
		errs = append(errs, boundsError("min_x/max_x", "min must be below max, got [%g, %g]", v.MinX, v.MaxX))
	}
	if !(v.MinY < v.MaxY) {
		errs = append(errs, boundsError("min_y/max_y", "min must be below max, got [%g, %g]", v.MinY, v.MaxY))
	}
	return errors.Join(errs...)
}

// ToScreen converts a world position to pixel coordinates. Screen Y grows
// with world Y, matching the window layout of the desktop view.
func (v Viewport) ToScreen(p Vec2) (float64, float64) {
	sx := (p.X - v.MinX) / (v.MaxX - v.MinX) * float64(v.Width)
	sy := (p.Y - v.MinY) / (v.MaxY - v.MinY) * float64(v.Height)
	return sx, sy
}

// Contains reports whether p lies inside the world bounds.
func (v Viewport) Contains(p Vec2) bool {
	return p.X >= v.MinX && p.X <= v.MaxX && p.Y >= v.MinY && p.Y <= v.MaxY
}
