package metrics

import (
	"math"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Energy reports the mean total energy over the observed frames.
type Energy struct {
	name        string
	force       dynamo.ForceParams
	samples     int
	totalEnergy float64
}

func NewEnergy(fp dynamo.ForceParams) *Energy {
	return &Energy{
		name:  "energy",
		force: fp,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(ens *physics.Ensemble, t float64) {
	e.totalEnergy += ens.Energy(e.force)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// energy. Damping below 1 makes drift expected; with damping 1 it measures
// integrator error.
type EnergyDrift struct {
	name          string
	force         dynamo.ForceParams
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(fp dynamo.ForceParams) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		force: fp,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ens *physics.Ensemble, t float64) {
	energy := ens.Energy(e.force)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
