package experiment

import (
	"math"
	"math/rand"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Layout places n particles. Deterministic layouts ignore rng.
type Layout func(n int, rng *rand.Rand) []physics.Seed

// RandomLayout scatters particles uniformly over [-2, 2]² with charges
// uniform in [-1, 1].
func RandomLayout(n int, rng *rand.Rand) []physics.Seed {
	seeds := make([]physics.Seed, n)
	for i := range seeds {
		seeds[i] = physics.Seed{
			Pos:    dynamo.Vec2{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2},
			Charge: rng.Float64()*2 - 1,
		}
	}
	return seeds
}

// RingLayout spaces particles evenly on the unit circle with alternating
// unit charges.
func RingLayout(n int, _ *rand.Rand) []physics.Seed {
	seeds := make([]physics.Seed, n)
	for i := range seeds {
		theta := 2 * math.Pi * float64(i) / float64(n)
		seeds[i] = physics.Seed{Pos: dynamo.UnitAtAngle(theta), Charge: alternate(i)}
	}
	return seeds
}

// DipoleLayout puts the first half of the particles on x = -1 with charge +1
// and the rest on x = +1 with charge -1, each column spread over y in
// [-0.5, 0.5]. Two particles give the plain dipole at (∓1, 0).
func DipoleLayout(n int, _ *rand.Rand) []physics.Seed {
	seeds := make([]physics.Seed, 0, n)
	pos := (n + 1) / 2
	seeds = append(seeds, column(-1, pos, 1)...)
	seeds = append(seeds, column(1, n-pos, -1)...)
	return seeds
}

func column(x float64, count int, charge float64) []physics.Seed {
	seeds := make([]physics.Seed, count)
	for k := range seeds {
		y := 0.0
		if count > 1 {
			y = -0.5 + float64(k)/float64(count-1)
		}
		seeds[k] = physics.Seed{Pos: dynamo.Vec2{X: x, Y: y}, Charge: charge}
	}
	return seeds
}

// LatticeLayout fills a centered square grid spanning [-1.5, 1.5]² row by
// row, with checkerboard charges.
func LatticeLayout(n int, _ *rand.Rand) []physics.Seed {
	if n == 0 {
		return nil
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	spacing := 0.0
	if side > 1 {
		spacing = 3.0 / float64(side-1)
	}
	origin := -spacing * float64(side-1) / 2

	seeds := make([]physics.Seed, n)
	for i := range seeds {
		row, col := i/side, i%side
		seeds[i] = physics.Seed{
			Pos:    dynamo.Vec2{X: origin + float64(col)*spacing, Y: origin + float64(row)*spacing},
			Charge: alternate(row + col),
		}
	}
	return seeds
}

func alternate(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}
