package metrics

import (
	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Confinement is the fraction of frames in which every particle was finite
// and inside the viewport's world bounds.
type Confinement struct {
	name       string
	bounds     dynamo.Viewport
	violations int
	samples    int
}

func NewConfinement(bounds dynamo.Viewport) *Confinement {
	return &Confinement{
		name:   "confinement",
		bounds: bounds,
	}
}

func (c *Confinement) Name() string {
	return c.name
}

func (c *Confinement) Observe(e *physics.Ensemble, t float64) {
	c.samples++
	for _, p := range e.Particles() {
		if !p.Pos.IsValid() || !c.bounds.Contains(p.Pos) {
			c.violations++
			break
		}
	}
}

func (c *Confinement) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Confinement) Reset() {
	c.violations = 0
	c.samples = 0
}
