package analysis

import (
	"math"
	"sort"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"gonum.org/v1/gonum/stat"
)

type RadialStats struct {
	Mean   float64
	StdDev float64
	Median float64
	Max    float64
}

// Radial summarizes the distances of positions from the origin.
func Radial(positions []dynamo.Vec2) RadialStats {
	if len(positions) == 0 {
		return RadialStats{}
	}

	radii := make([]float64, len(positions))
	for i, p := range positions {
		radii[i] = p.Norm()
	}
	sort.Float64s(radii)

	var rs RadialStats
	rs.Mean, rs.StdDev = stat.MeanStdDev(radii, nil)
	if math.IsNaN(rs.StdDev) {
		rs.StdDev = 0
	}
	rs.Median = stat.Quantile(0.5, stat.Empirical, radii, nil)
	rs.Max = radii[len(radii)-1]
	return rs
}

// Separation returns the distance between particles i and j at every snapshot.
func Separation(result *sim.Result, i, j int) []float64 {
	a, b := result.Track(i), result.Track(j)
	n := min(len(a), len(b))
	sep := make([]float64, n)
	for k := 0; k < n; k++ {
		sep[k] = a[k].DistanceTo(b[k])
	}
	return sep
}

// Coordinate returns the X (axis 0) or Y coordinate of particle i at every
// snapshot.
func Coordinate(result *sim.Result, i, axis int) []float64 {
	track := result.Track(i)
	out := make([]float64, len(track))
	for k, p := range track {
		if axis == 0 {
			out[k] = p.X
		} else {
			out[k] = p.Y
		}
	}
	return out
}

// MeanRadius returns the mean distance from the origin at every snapshot.
func MeanRadius(result *sim.Result) []float64 {
	out := make([]float64, len(result.Snapshots))
	for k, s := range result.Snapshots {
		out[k] = Radial(s.Positions).Mean
	}
	return out
}
