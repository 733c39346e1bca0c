package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
)

type Config struct {
	Layout  string
	Stepper string
	Workers int
	Seed    int64
	Sim     sim.Config
}

// Experiment owns one initial ensemble and the simulator that runs it. Every
// Run starts from a copy of the same initial state.
type Experiment struct {
	cfg        Config
	simulator  *sim.Simulator
	initial    *physics.Ensemble
	randSource *rand.Rand
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup places the particles with layout and builds the simulator.
func (e *Experiment) Setup(layout Layout, stepper physics.Stepper, metrics []sim.Metric) error {
	n := e.cfg.Sim.Integration.ParticleCount
	seeds := layout(n, e.randSource)
	if len(seeds) != n {
		return fmt.Errorf("layout %s produced %d particles, want %d", e.cfg.Layout, len(seeds), n)
	}

	e.initial = physics.NewEnsemble(seeds)
	e.simulator = sim.New(stepper)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.initial.Clone(), e.cfg.Sim)
}

// Ensemble returns a fresh copy of the initial state.
func (e *Experiment) Ensemble() *physics.Ensemble {
	if e.initial == nil {
		return nil
	}
	return e.initial.Clone()
}

func (e *Experiment) Config() Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Build resolves cfg's layout and stepper names in r and returns a ready
// experiment observing metrics.
func Build(r *Registry, cfg Config, metrics []sim.Metric) (*Experiment, error) {
	layout, err := r.GetLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	stepper, err := r.GetStepper(cfg.Stepper, cfg.Workers)
	if err != nil {
		return nil, err
	}

	exp := New(cfg)
	if err := exp.Setup(layout, stepper, metrics); err != nil {
		return nil, err
	}
	return exp, nil
}
