package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

func randomSeeds(n int, seed int64) []physics.Seed {
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]physics.Seed, n)
	for i := range seeds {
		seeds[i] = physics.Seed{
			Pos:    dynamo.Vec2{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2},
			Charge: rng.Float64()*2 - 1,
		}
	}
	return seeds
}

var _ = Describe("Force model", func() {
	fp := dynamo.ForceParams{Softening: 0.005, Coefficient: 2, VelocityDamping: 1}

	DescribeTable("sign convention",
		func(qa, qb float64, repel bool) {
			a := physics.NewParticle(dynamo.Vec2{X: 0.3, Y: -0.2}, qa)
			b := physics.NewParticle(dynamo.Vec2{X: -0.9, Y: 0.7}, qb)

			f := physics.PairForce(a, b, fp)
			radial := f.Dot(b.Pos.Sub(a.Pos))
			if repel {
				Expect(radial).To(BeNumerically("<", 0))
			} else {
				Expect(radial).To(BeNumerically(">", 0))
			}
		},
		Entry("positive pair repels", 1.0, 0.5, true),
		Entry("negative pair repels", -1.0, -0.25, true),
		Entry("opposite pair attracts", 1.0, -1.0, false),
		Entry("opposite pair attracts, reversed", -0.3, 0.8, false),
	)

	It("computes the pair force with opposite sign from either endpoint", func() {
		for _, s := range [][2]physics.Seed{
			{{Pos: dynamo.Vec2{X: 1, Y: 2}, Charge: 0.4}, {Pos: dynamo.Vec2{X: -0.5, Y: 0.1}, Charge: 0.9}},
			{{Pos: dynamo.Vec2{X: -1, Y: -1}, Charge: -0.7}, {Pos: dynamo.Vec2{X: 0.2, Y: 1.3}, Charge: 0.2}},
		} {
			a := physics.NewParticle(s[0].Pos, s[0].Charge)
			b := physics.NewParticle(s[1].Pos, s[1].Charge)
			fab := physics.PairForce(a, b, fp)
			fba := physics.PairForce(b, a, fp)
			Expect(fab.X).To(BeNumerically("~", -fba.X, 1e-12))
			Expect(fab.Y).To(BeNumerically("~", -fba.Y, 1e-12))
		}
	})

	It("bounds the magnitude by the softening term", func() {
		a := physics.NewParticle(dynamo.Vec2{X: 0.5, Y: 0.5}, 1)
		limit := fp.Coefficient * 1 * 0.8 / fp.Softening

		for _, d := range []float64{1e-3, 1e-6, 1e-9, 0} {
			b := physics.NewParticle(dynamo.Vec2{X: 0.5 + d, Y: 0.5}, -0.8)
			m := physics.ForceMagnitude(a, b, fp)
			Expect(math.IsNaN(m) || math.IsInf(m, 0)).To(BeFalse())
			Expect(m).To(BeNumerically("<=", limit))
			Expect(m).To(BeNumerically("~", limit, limit*1e-3))

			f := physics.PairForce(a, b, fp)
			Expect(f.IsValid()).To(BeTrue())
		}

		b := physics.NewParticle(a.Pos, -0.8)
		Expect(physics.ForceMagnitude(a, b, fp)).To(Equal(limit))
	})

	It("has a pair potential whose radial derivative is the pair force", func() {
		const h = 1e-5
		for _, q := range []float64{1, -1} {
			for _, r := range []float64{0.05, 0.5, 2} {
				a := physics.NewParticle(dynamo.Zero, 1)
				near := physics.NewParticle(dynamo.Vec2{X: r - h}, q)
				far := physics.NewParticle(dynamo.Vec2{X: r + h}, q)
				b := physics.NewParticle(dynamo.Vec2{X: r}, q)

				dU := (physics.PairPotential(a, far, fp) - physics.PairPotential(a, near, fp)) / (2 * h)
				fb := physics.PairForce(b, a, fp)
				Expect(fb.X).To(BeNumerically("~", -dU, 1e-4*math.Max(1, math.Abs(dU))))
			}
		}
	})

	It("points the boundary force along the direction from the origin", func() {
		bp := dynamo.ForceParams{Softening: 1, Coefficient: 0, BoundaryStrength: 1.5, VelocityDamping: 1}
		p := physics.NewParticle(dynamo.Vec2{X: -8, Y: 0}, 0)

		f := physics.BoundaryForce(p, bp)
		Expect(f.X).To(BeNumerically("~", -3, 1e-12))
		Expect(f.Y).To(BeNumerically("~", 0, 1e-12))

		bp.BoundaryStrength = -1.5
		f = physics.BoundaryForce(p, bp)
		Expect(f.X).To(BeNumerically("~", 3, 1e-12))
	})
})

var _ = Describe("Advance", func() {
	var (
		fp dynamo.ForceParams
		ip dynamo.IntegrationParams
	)

	BeforeEach(func() {
		fp = dynamo.ForceParams{Softening: 0.005, Coefficient: 2, BoundaryStrength: 0, VelocityDamping: 1}
		ip = dynamo.IntegrationParams{TimeStep: 0.001, ParticleCount: 2, SubStepsPerFrame: 1}
	})

	It("pushes two positive charges apart symmetrically", func() {
		e := physics.NewEnsemble([]physics.Seed{
			{Pos: dynamo.Vec2{X: -1, Y: 0}, Charge: 1},
			{Pos: dynamo.Vec2{X: 1, Y: 0}, Charge: 1},
		})

		physics.Advance(e, fp, ip)

		a, b := e.Position(0), e.Position(1)
		Expect(a.X).To(BeNumerically("<", -1))
		Expect(b.X).To(BeNumerically(">", 1))
		Expect(a.X + 1).To(Equal(-(b.X - 1)))
		Expect(a.Y).To(BeZero())
		Expect(b.Y).To(BeZero())

		Expect(e.Force(0)).To(Equal(e.Force(1).Neg()))
		Expect(e.Force(0).X).To(BeNumerically("~", -2.0/4.005, 1e-12))
	})

	It("moves a lone particle outward under a positive boundary strength", func() {
		fp.BoundaryStrength = 1
		ip.ParticleCount = 1
		e := physics.NewEnsemble([]physics.Seed{{Pos: dynamo.Vec2{X: 2, Y: 0}, Charge: 0}})

		physics.Advance(e, fp, ip)

		p := e.Position(0)
		Expect(p.X).To(BeNumerically(">", 2))
		Expect(p.Y).To(BeZero())
		Expect(p.Norm()).To(BeNumerically(">", 2))
	})

	It("keeps accumulated pair forces symmetric in a crowded ensemble", func() {
		fp.BoundaryStrength = -2
		e := physics.NewEnsemble(randomSeeds(40, 7))

		for step := 0; step < 50; step++ {
			physics.Advance(e, fp, ip)
			net := e.NetPairForce()
			Expect(net.Norm()).To(BeNumerically("<", 1e-9))
		}
	})

	It("conserves momentum without boundary force or damping", func() {
		fp.Softening = 0.05
		e := physics.NewEnsemble(randomSeeds(20, 3))

		for step := 0; step < 500; step++ {
			physics.Advance(e, fp, ip)
		}

		Expect(e.Momentum().Norm()).To(BeNumerically("<", 1e-9))
	})

	It("oscillates rather than diverging for an attracting pair", func() {
		fp.Softening = 0.05
		fp.Coefficient = 1
		ip.TimeStep = 1e-4
		e := physics.NewEnsemble([]physics.Seed{
			{Pos: dynamo.Vec2{X: -0.5}, Charge: 1},
			{Pos: dynamo.Vec2{X: 0.5}, Charge: -1},
		})

		initial := 1.0
		minSep, maxSep := initial, initial
		rebound := false
		for step := 0; step < 200000; step++ {
			physics.Advance(e, fp, ip)
			sep := e.Position(0).DistanceTo(e.Position(1))
			Expect(math.IsNaN(sep)).To(BeFalse())
			minSep = math.Min(minSep, sep)
			maxSep = math.Max(maxSep, sep)
			if minSep < 0.25*initial && sep > 0.5*initial {
				rebound = true
			}
		}

		Expect(minSep).To(BeNumerically("<", 0.25*initial))
		Expect(maxSep).To(BeNumerically("<", 1.1*initial))
		Expect(rebound).To(BeTrue())
	})

	It("is deterministic", func() {
		fp.BoundaryStrength = -2
		fp.VelocityDamping = 0.99991
		seeds := randomSeeds(30, 11)
		a := physics.NewEnsemble(seeds)
		b := physics.NewEnsemble(seeds)

		for step := 0; step < 300; step++ {
			physics.Advance(a, fp, ip)
			physics.Advance(b, fp, ip)
		}

		Expect(a.Particles()).To(Equal(b.Particles()))
	})

	It("runs the configured number of sub-steps per frame", func() {
		ip.SubStepsPerFrame = 5
		e := physics.NewEnsemble(randomSeeds(4, 1))

		physics.Frame(physics.NewSerial(), e, fp, ip)
		physics.Frame(physics.NewSerial(), e, fp, ip)

		Expect(e.Steps()).To(Equal(10))
	})

	It("restores a saved state in place", func() {
		e := physics.NewEnsemble(randomSeeds(6, 4))
		saved := e.Clone()
		holder := e

		physics.Frame(physics.NewSerial(), e, fp, ip)
		Expect(e.Particles()).NotTo(Equal(saved.Particles()))

		e.CopyFrom(saved)
		Expect(holder.Particles()).To(Equal(saved.Particles()))
		Expect(holder.Steps()).To(BeZero())
	})

	It("handles an empty ensemble", func() {
		e := physics.NewEnsemble(nil)
		physics.Advance(e, fp, ip)
		Expect(e.Len()).To(BeZero())
		Expect(e.Energy(fp)).To(BeZero())
	})
})

var _ = Describe("Parallel stepper", func() {
	fp := dynamo.ForceParams{Softening: 0.01, Coefficient: 2, BoundaryStrength: -2, VelocityDamping: 0.9999}
	ip := dynamo.IntegrationParams{TimeStep: 0.001, ParticleCount: 120, SubStepsPerFrame: 5}

	It("matches the serial stepper", func() {
		seeds := randomSeeds(120, 5)
		serial := physics.NewEnsemble(seeds)
		parallel := physics.NewEnsemble(seeds)
		p := physics.NewParallel(4)

		for frame := 0; frame < 4; frame++ {
			physics.Frame(physics.NewSerial(), serial, fp, ip)
			physics.Frame(p, parallel, fp, ip)
		}

		for i := 0; i < serial.Len(); i++ {
			Expect(parallel.Position(i).DistanceTo(serial.Position(i))).To(BeNumerically("<", 1e-9))
		}
		Expect(parallel.NetPairForce().Norm()).To(BeNumerically("<", 1e-9))
	})

	It("is reproducible for a fixed worker count", func() {
		seeds := randomSeeds(100, 9)
		a := physics.NewEnsemble(seeds)
		b := physics.NewEnsemble(seeds)
		pa, pb := physics.NewParallel(3), physics.NewParallel(3)

		for frame := 0; frame < 3; frame++ {
			physics.Frame(pa, a, fp, ip)
			physics.Frame(pb, b, fp, ip)
		}

		Expect(a.Particles()).To(Equal(b.Particles()))
	})

	It("falls back to serial below its threshold", func() {
		seeds := randomSeeds(10, 2)
		a := physics.NewEnsemble(seeds)
		b := physics.NewEnsemble(seeds)

		physics.Frame(physics.NewParallel(4), a, fp, ip)
		physics.Frame(physics.NewSerial(), b, fp, ip)

		Expect(a.Particles()).To(Equal(b.Particles()))
	})
})

var _ = Describe("Diagnostics", func() {
	It("reports energy and angular momentum", func() {
		fp := dynamo.ForceParams{Softening: 0.01, Coefficient: 1, BoundaryStrength: 0, VelocityDamping: 1}
		e := physics.NewEnsemble([]physics.Seed{
			{Pos: dynamo.Vec2{X: -1}, Charge: 1},
			{Pos: dynamo.Vec2{X: 1}, Charge: 1},
		})

		Expect(e.KineticEnergy()).To(BeZero())
		Expect(e.PotentialEnergy(fp)).To(BeNumerically(">", 0))
		Expect(e.AngularMomentum()).To(BeZero())

		ip := dynamo.IntegrationParams{TimeStep: 0.001, ParticleCount: 2, SubStepsPerFrame: 1}
		before := e.PotentialEnergy(fp)
		for i := 0; i < 100; i++ {
			physics.Advance(e, fp, ip)
		}
		Expect(e.KineticEnergy()).To(BeNumerically(">", 0))
		Expect(e.PotentialEnergy(fp)).To(BeNumerically("<", before))
		Expect(e.Energy(fp)).To(BeNumerically("~", before, before*1e-3))
		Expect(e.MaxSpeed()).To(BeNumerically(">", 0))
		Expect(e.MaxRadius()).To(BeNumerically(">", 1))
	})
})
