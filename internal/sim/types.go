package sim

import (
	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(e *physics.Ensemble, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every frame, once the ensemble is settled.
type Observer interface {
	OnFrame(e *physics.Ensemble, frame int, t float64)
}

type Config struct {
	Integration dynamo.IntegrationParams
	Force       dynamo.ForceParams
	Frames      int

	// RecordEvery stores one snapshot every RecordEvery frames; 0 means every frame.
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Integration: dynamo.IntegrationParams{
			TimeStep:         0.001,
			ParticleCount:    14,
			SubStepsPerFrame: 5,
		},
		Force: dynamo.ForceParams{
			Softening:        0.005,
			Coefficient:      2.0,
			BoundaryStrength: -2.0,
			VelocityDamping:  0.99991,
		},
		Frames:        600,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Snapshot is the ensemble state after a frame.
type Snapshot struct {
	Frame     int
	Time      float64
	Positions []dynamo.Vec2
	Energy    float64
}

type Result struct {
	Charges     []float64
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	FramesRun   int
	StepsTaken  int
	Errors      []error
}

// Times returns the simulated time of every snapshot.
func (r *Result) Times() []float64 {
	times := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		times[i] = s.Time
	}
	return times
}

// Energies returns the total energy of every snapshot.
func (r *Result) Energies() []float64 {
	energies := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		energies[i] = s.Energy
	}
	return energies
}

// Track returns the trajectory of particle i across the snapshots.
func (r *Result) Track(i int) []dynamo.Vec2 {
	track := make([]dynamo.Vec2, 0, len(r.Snapshots))
	for _, s := range r.Snapshots {
		if i < len(s.Positions) {
			track = append(track, s.Positions[i])
		}
	}
	return track
}

// EnsembleAt rebuilds the ensemble of snapshot i at rest. Snapshots do not
// record velocities.
func (r *Result) EnsembleAt(i int) *physics.Ensemble {
	snap := r.Snapshots[i]
	seeds := make([]physics.Seed, len(snap.Positions))
	for j, pos := range snap.Positions {
		seeds[j] = physics.Seed{Pos: pos, Charge: r.Charges[j]}
	}
	return physics.NewEnsemble(seeds)
}
