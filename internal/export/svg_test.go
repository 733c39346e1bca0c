package export

import (
	"strings"
	"testing"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"github.com/MaybeImHere/ElectricParticles1/internal/viz"
)

func TestTrajectoriesToSVG(t *testing.T) {
	result := &sim.Result{
		Charges: []float64{1, -1},
		Snapshots: []sim.Snapshot{
			{Positions: []dynamo.Vec2{{X: -1}, {X: 1}}},
			{Positions: []dynamo.Vec2{{X: -0.5}, {X: 0.5}}},
		},
	}
	view := dynamo.Viewport{Width: 400, Height: 400, MinX: -2, MaxX: 2, MinY: -2, MaxY: 2}

	svg := TrajectoriesToSVG(result, view)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete SVG document")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, `d="M100.0,200.0 L150.0,200.0"`) {
		t.Errorf("unexpected path for particle 0:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#ff3030"`) || !strings.Contains(svg, `fill="#3070ff"`) {
		t.Error("expected charge colors")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.SetColor(0, 0, viz.ColorPositive)
	c.SetColor(2, 0, viz.ColorNegative)

	svg := CanvasToSVG(c, 4)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 dots, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, positiveColor) || !strings.Contains(svg, negativeColor) {
		t.Error("expected both charge colors")
	}
	if CanvasToSVG(nil, 4) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestFinalFrameToSVG(t *testing.T) {
	result := &sim.Result{
		Charges: []float64{1, -1},
		Snapshots: []sim.Snapshot{
			{Positions: []dynamo.Vec2{{X: -1}, {X: 1}}},
			{Positions: []dynamo.Vec2{{X: -0.5, Y: 0.5}, {X: 0.5, Y: -0.5}}},
		},
	}
	view := dynamo.Viewport{Width: 400, Height: 400, MinX: -2, MaxX: 2, MinY: -2, MaxY: 2}

	svg := FinalFrameToSVG(result, view, 20, 10, 4)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete SVG document")
	}
	// Each particle is a 2x2 dot block.
	if strings.Count(svg, positiveColor) != 4 || strings.Count(svg, negativeColor) != 4 {
		t.Errorf("expected 4 dots per particle:\n%s", svg)
	}
	if !strings.Contains(svg, `width="160" height="160"`) {
		t.Error("expected a 160x160 picture for a 20x10 canvas at scale 4")
	}
	if FinalFrameToSVG(&sim.Result{}, view, 20, 10, 4) != "" {
		t.Error("expected empty output for a result without snapshots")
	}
}
