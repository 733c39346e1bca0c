package analysis

import (
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
)

type Point struct {
	X, Y float64
}

// Portrait holds points of a 2D phase plot.
type Portrait struct {
	Points []Point
}

// SeparationPortrait pairs the distance between particles i and j with its
// finite-difference rate of change between consecutive snapshots.
func SeparationPortrait(result *sim.Result, i, j int) *Portrait {
	sep := Separation(result, i, j)
	times := result.Times()

	portrait := &Portrait{Points: make([]Point, 0, len(sep))}
	for k := 1; k < len(sep); k++ {
		dt := times[k] - times[k-1]
		if dt <= 0 {
			continue
		}
		portrait.Points = append(portrait.Points, Point{
			X: sep[k],
			Y: (sep[k] - sep[k-1]) / dt,
		})
	}
	return portrait
}

// PortraitToASCII plots the portrait with 10% padding and draws the axes when
// they fall inside the plotted range.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := newGrid(width, height)

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return gridString(canvas)
}
