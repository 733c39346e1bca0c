package gui

import (
	"fmt"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleColor is red for non-negative charge and blue otherwise.
func ParticleColor(q float64) rl.Color {
	if q >= 0 {
		return ColPositive
	}
	return ColNegative
}

func (a *App) screen(p dynamo.Vec2) (int32, int32) {
	x, y := a.View.ToScreen(p)
	return int32(x), int32(y)
}

func (a *App) drawParticles() {
	for _, p := range a.Ensemble.Particles() {
		x, y := a.screen(p.Pos)
		rl.DrawCircle(x, y, a.Radius, ParticleColor(p.Charge))
	}
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 10, 60
	width, height := 200, 40

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.4e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
