package export

import (
	"fmt"
	"strings"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"github.com/MaybeImHere/ElectricParticles1/internal/viz"
)

const (
	positiveColor = "#ff3030"
	negativeColor = "#3070ff"
)

// ChargeColor returns the stroke color of a particle with charge q.
func ChargeColor(q float64) string {
	if viz.ChargeColor(q) == viz.ColorPositive {
		return positiveColor
	}
	return negativeColor
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := cellFill(canvas.Colors[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func cellFill(c viz.CellColor) string {
	switch c {
	case viz.ColorPositive:
		return positiveColor
	case viz.ColorNegative:
		return negativeColor
	}
	return "#505050"
}

// TrajectoriesToSVG draws every particle's track in the result as a path
// colored by its charge, with a dot at its final position. World bounds come
// from view and the picture is view.Width x view.Height pixels.
func TrajectoriesToSVG(result *sim.Result, view dynamo.Viewport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, view.Width, view.Height, view.Width, view.Height))

	for i, q := range result.Charges {
		track := result.Track(i)
		if len(track) == 0 {
			continue
		}
		color := ChargeColor(q)

		if len(track) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1.5" d="M`, color))
			for k, p := range track {
				x, y := view.ToScreen(p)
				if k == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := view.ToScreen(track[len(track)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FinalFrameToSVG renders the last snapshot of result onto a cols x rows
// Braille canvas, the picture the live view shows, and converts it to SVG.
func FinalFrameToSVG(result *sim.Result, view dynamo.Viewport, cols, rows int, scale float64) string {
	if len(result.Snapshots) == 0 {
		return ""
	}
	canvas := viz.NewCanvas(cols, rows)
	viz.DrawEnsemble(canvas, viz.NewProjector(canvas, view), result.EnsembleAt(len(result.Snapshots)-1))
	return CanvasToSVG(canvas, scale)
}
