package viz

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Projector maps world positions onto canvas dots using the world bounds of
// a viewport. Rows grow with world Y, as in the desktop window.
type Projector struct {
	view dynamo.Viewport
}

func NewProjector(c *Canvas, bounds dynamo.Viewport) Projector {
	w, h := c.SubPixels()
	bounds.Width, bounds.Height = w, h
	return Projector{view: bounds}
}

func (p Projector) Project(pos dynamo.Vec2) (int, int) {
	x, y := p.view.ToScreen(pos)
	return int(math.Floor(x)), int(math.Floor(y))
}

// DrawEnsemble plots every particle as a 2x2 dot block in its charge color.
func DrawEnsemble(c *Canvas, p Projector, e *physics.Ensemble) {
	for i := 0; i < e.Len(); i++ {
		x, y := p.Project(e.Position(i))
		col := ChargeColor(e.Charge(i))
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				c.SetColor(x+dx, y+dy, col)
			}
		}
	}
}
