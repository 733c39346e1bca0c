package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/charmbracelet/log"
)

// Simulator drives the frame loop: every frame runs SubStepsPerFrame steps,
// then metrics and observers read the settled ensemble. Cancellation is only
// checked between frames, so a step is never interrupted.
type Simulator struct {
	stepper   physics.Stepper
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(stepper physics.Stepper) *Simulator {
	if stepper == nil {
		stepper = physics.NewSerial()
	}
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)           { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)       { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *log.Logger)      { s.logger = l }
func (s *Simulator) Stepper() physics.Stepper     { return s.stepper }
func (s *Simulator) SetStepper(p physics.Stepper) { s.stepper = p }

// Run advances e for cfg.Frames frames and records snapshots. e is mutated in
// place; clone it first to keep the initial state.
func (s *Simulator) Run(ctx context.Context, e *physics.Ensemble, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Charges:   make([]float64, e.Len()),
		Snapshots: make([]Snapshot, 0, cfg.Frames/every+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}
	for i := range result.Charges {
		result.Charges[i] = e.Charge(i)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	frameTime := cfg.Integration.FrameTime()
	t := 0.0
	initialEnergy := e.Energy(cfg.Force)
	result.Snapshots = append(result.Snapshots, s.snapshot(e, 0, t, initialEnergy))

	start := time.Now()
	for frame := 1; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		physics.Frame(s.stepper, e, cfg.Force, cfg.Integration)
		t += frameTime
		result.FramesRun++
		result.StepsTaken += cfg.Integration.SubStepsPerFrame

		if cfg.ValidateState && !e.IsValid() {
			err := dynamo.SimError{Frame: frame, Time: t, Message: "invalid state (NaN/Inf)", Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("stopping run", "frame", frame, "err", err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(e, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(e, frame, t)
		}

		if frame%every == 0 || frame == cfg.Frames {
			result.Snapshots = append(result.Snapshots, s.snapshot(e, frame, t, e.Energy(cfg.Force)))
		}
	}

	// Snapshots are only taken of valid states, so the last one holds the
	// final finite energy even when the run stopped on a bad state.
	finalEnergy := result.Snapshots[len(result.Snapshots)-1].Energy
	if initialEnergy != 0 && !math.IsNaN(finalEnergy) && !math.IsInf(finalEnergy, 0) {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete",
		"stepper", s.stepper.Name(),
		"particles", e.Len(),
		"frames", result.FramesRun,
		"steps", result.StepsTaken,
		"elapsed", time.Since(start),
	)

	return result, nil
}

func (s *Simulator) snapshot(e *physics.Ensemble, frame int, t, energy float64) Snapshot {
	return Snapshot{Frame: frame, Time: t, Positions: e.Positions(nil), Energy: energy}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if err := cfg.Integration.Validate(); err != nil {
		return fmt.Errorf("integration: %w", err)
	}
	if err := cfg.Force.Validate(); err != nil {
		return fmt.Errorf("force: %w", err)
	}
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", cfg.Frames)
	}
	return nil
}

// RunWithCallback advances e one frame at a time until the callback returns
// false, the context is done, or cfg.Frames frames have run (0 means no
// limit). The callback sees the ensemble before each frame.
func (s *Simulator) RunWithCallback(ctx context.Context, e *physics.Ensemble, cfg Config, callback func(e *physics.Ensemble, frame int, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(e, frame, t) {
			return nil
		}

		physics.Frame(s.stepper, e, cfg.Force, cfg.Integration)
		t += cfg.Integration.FrameTime()

		if cfg.ValidateState && !e.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
	}

	return nil
}
