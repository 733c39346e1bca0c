package experiment

import (
	"fmt"
	"sort"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/metrics"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
)

type Registry struct {
	layouts  map[string]Layout
	steppers map[string]func(workers int) physics.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts:  make(map[string]Layout),
		steppers: make(map[string]func(int) physics.Stepper),
	}

	r.layouts["random"] = RandomLayout
	r.layouts["ring"] = RingLayout
	r.layouts["dipole"] = DipoleLayout
	r.layouts["lattice"] = LatticeLayout

	r.steppers["serial"] = func(int) physics.Stepper { return physics.NewSerial() }
	r.steppers["parallel"] = func(workers int) physics.Stepper { return physics.NewParallel(workers) }

	return r
}

func (r *Registry) GetLayout(name string) (Layout, error) {
	fn, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn, nil
}

func (r *Registry) GetStepper(name string, workers int) (physics.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn(workers), nil
}

func (r *Registry) ListLayouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh set of the standard run metrics.
func (r *Registry) DefaultMetrics(fp dynamo.ForceParams, bounds dynamo.Viewport) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(fp),
		metrics.NewEnergyDrift(fp),
		metrics.NewConfinement(bounds),
		metrics.NewForceResidual(),
		metrics.NewMaxSpeed(),
	}
}
