package physics

import (
	"fmt"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
)

// Stepper advances an ensemble by exactly one time step.
type Stepper interface {
	Name() string
	Advance(e *Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams)
}

// Advance performs one serial step: reset the accumulator to the boundary
// force, add every pair contribution once with opposite signs on its two
// endpoints, then integrate each particle over ip.TimeStep.
func Advance(e *Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams) {
	e.resetForces(fp)

	n := len(e.particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := PairForce(e.particles[i], e.particles[j], fp)
			e.forces[i] = e.forces[i].Add(f)
			e.forces[j] = e.forces[j].Sub(f)
		}
	}

	e.integrateRange(0, n, fp, ip.TimeStep)
	e.steps++
}

// Frame runs ip.SubStepsPerFrame steps with s, the unit between two renders.
func Frame(s Stepper, e *Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams) {
	for k := 0; k < ip.SubStepsPerFrame; k++ {
		s.Advance(e, fp, ip)
	}
}

// Serial is the single-threaded stepper. Results are bit-for-bit reproducible.
type Serial struct{}

func NewSerial() *Serial { return &Serial{} }

func (s *Serial) Name() string { return "serial" }

func (s *Serial) Advance(e *Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams) {
	Advance(e, fp, ip)
}

// parallelThreshold is the ensemble size below which Parallel runs serially.
const parallelThreshold = 64

// Parallel splits the pair phase across workers. Every worker sums into its
// own accumulator and a reduction pass folds them into the ensemble in worker
// order, so two pairs sharing an index never write the same slot concurrently.
// Results are reproducible for a fixed worker count and agree with Serial up
// to floating-point summation order. A Parallel keeps scratch buffers and
// must not be shared between concurrent runs.
type Parallel struct {
	Workers   int
	Threshold int
	scratch   [][]dynamo.Vec2
}

// NewParallel returns a parallel stepper; workers <= 0 uses every CPU.
func NewParallel(workers int) *Parallel {
	return &Parallel{Workers: workers, Threshold: parallelThreshold}
}

func (p *Parallel) Name() string { return fmt.Sprintf("parallel(%d)", p.Workers) }

func (p *Parallel) ensureScratch(chunks, n int) {
	if len(p.scratch) < chunks {
		p.scratch = append(p.scratch, make([][]dynamo.Vec2, chunks-len(p.scratch))...)
	}
	for c := 0; c < chunks; c++ {
		if len(p.scratch[c]) != n {
			p.scratch[c] = make([]dynamo.Vec2, n)
		}
	}
}

func (p *Parallel) Advance(e *Ensemble, fp dynamo.ForceParams, ip dynamo.IntegrationParams) {
	n := len(e.particles)
	if n < p.Threshold {
		Advance(e, fp, ip)
		return
	}

	e.resetForces(fp)

	// Rows near the top of the triangle hold more pairs; interleaving rows
	// across chunks keeps the work per worker even.
	chunks := dynamo.Chunks(n, 1, p.Workers)
	p.ensureScratch(len(chunks), n)
	stride := len(chunks)

	dynamo.ParallelFor(n, 1, p.Workers, func(c, _, _ int) {
		acc := p.scratch[c]
		for k := range acc {
			acc[k] = dynamo.Vec2{}
		}
		for i := c; i < n; i += stride {
			for j := i + 1; j < n; j++ {
				f := PairForce(e.particles[i], e.particles[j], fp)
				acc[i] = acc[i].Add(f)
				acc[j] = acc[j].Sub(f)
			}
		}
	})

	for c := 0; c < stride; c++ {
		acc := p.scratch[c]
		for k := 0; k < n; k++ {
			e.forces[k] = e.forces[k].Add(acc[k])
		}
	}

	dynamo.ParallelFor(n, p.Threshold/4, p.Workers, func(_, start, end int) {
		e.integrateRange(start, end, fp, ip.TimeStep)
	})
	e.steps++
}
