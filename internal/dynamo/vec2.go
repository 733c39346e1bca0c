package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector. It shares its layout with r2.Vec so arithmetic can be
// delegated to gonum without copying.
type Vec2 struct {
	X, Y float64
}

// Zero is the origin.
var Zero = Vec2{}

func (v Vec2) r2() r2.Vec { return r2.Vec(v) }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(v.r2(), o.r2())) }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(r2.Sub(v.r2(), o.r2())) }

func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2(r2.Scale(s, v.r2())) }

// Divide returns v/s. It fails with ErrDivisionByZero only when s is exactly zero.
func (v Vec2) Divide(s float64) (Vec2, error) {
	if s == 0 {
		return Vec2{}, ErrDivisionByZero
	}
	return Vec2{v.X / s, v.Y / s}, nil
}

func (v Vec2) Dot(o Vec2) float64 { return r2.Dot(v.r2(), o.r2()) }

func (v Vec2) Norm() float64 { return r2.Norm(v.r2()) }

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec2) DistanceTo(o Vec2) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleTo returns the angle in radians from v toward o, with v as the pivot.
func (v Vec2) AngleTo(o Vec2) float64 {
	return math.Atan2(o.Y-v.Y, o.X-v.X)
}

// UnitAtAngle returns (cos θ, sin θ). Zero radians points along +X.
func UnitAtAngle(theta float64) Vec2 {
	return Vec2{math.Cos(theta), math.Sin(theta)}
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

// TSV formats v as tab-separated fixed-point coordinates, one point per line
// in trace files.
func (v Vec2) TSV() string {
	return fmt.Sprintf("%.3f\t%.3f", v.X, v.Y)
}
