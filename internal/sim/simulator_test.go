package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

func testEnsemble() *physics.Ensemble {
	return physics.NewEnsemble([]physics.Seed{
		{Pos: dynamo.Vec2{X: -0.5}, Charge: 1},
		{Pos: dynamo.Vec2{X: 0.5}, Charge: -1},
		{Pos: dynamo.Vec2{Y: 0.7}, Charge: 0.5},
	})
}

func testConfig(frames int) Config {
	cfg := DefaultConfig()
	cfg.Integration.ParticleCount = 3
	cfg.Frames = frames
	return cfg
}

type countingMetric struct {
	observed int
	resets   int
}

func (c *countingMetric) Name() string                           { return "count" }
func (c *countingMetric) Observe(e *physics.Ensemble, t float64) { c.observed++ }
func (c *countingMetric) Value() float64                         { return float64(c.observed) }
func (c *countingMetric) Reset()                                 { c.observed = 0; c.resets++ }

type frameRecorder struct {
	frames []int
}

func (f *frameRecorder) OnFrame(e *physics.Ensemble, frame int, t float64) {
	f.frames = append(f.frames, frame)
}

func TestSimulatorRun(t *testing.T) {
	s := New(nil)
	e := testEnsemble()
	cfg := testConfig(10)

	result, err := s.Run(context.Background(), e, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 11 {
		t.Errorf("expected 11 snapshots, got %d", len(result.Snapshots))
	}
	if result.FramesRun != 10 {
		t.Errorf("expected 10 frames, got %d", result.FramesRun)
	}
	if result.StepsTaken != 50 || e.Steps() != 50 {
		t.Errorf("expected 50 steps, got %d (ensemble %d)", result.StepsTaken, e.Steps())
	}

	last := result.Snapshots[len(result.Snapshots)-1]
	wantTime := 10 * cfg.Integration.FrameTime()
	if math.Abs(last.Time-wantTime) > 1e-12 {
		t.Errorf("expected final time %.6f, got %.6f", wantTime, last.Time)
	}
	if last.Positions[0] != e.Position(0) {
		t.Errorf("expected last snapshot to match ensemble, got %v vs %v", last.Positions[0], e.Position(0))
	}
	if len(result.Charges) != 3 || result.Charges[1] != -1 {
		t.Errorf("unexpected charges %v", result.Charges)
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	cfg := testConfig(10)
	cfg.RecordEvery = 3

	result, err := New(nil).Run(context.Background(), testEnsemble(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []int{0, 3, 6, 9, 10}
	if len(result.Snapshots) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(result.Snapshots))
	}
	for i, s := range result.Snapshots {
		if s.Frame != want[i] {
			t.Errorf("snapshot %d: expected frame %d, got %d", i, want[i], s.Frame)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Integration.TimeStep = 0 }},
		{"no substeps", func(c *Config) { c.Integration.SubStepsPerFrame = 0 }},
		{"zero softening", func(c *Config) { c.Force.Softening = 0 }},
		{"damping above one", func(c *Config) { c.Force.VelocityDamping = 1.5 }},
		{"negative frames", func(c *Config) { c.Frames = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(5)
			tt.modify(&cfg)
			if _, err := s.Run(context.Background(), testEnsemble(), cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := testEnsemble()
	result, err := New(nil).Run(ctx, e, testConfig(10))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.FramesRun != 0 || e.Steps() != 0 {
		t.Errorf("expected no frames after cancel, got %d", result.FramesRun)
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(physics.NewSerial())
	m := &countingMetric{}
	rec := &frameRecorder{}
	s.AddMetric(m)
	s.AddObserver(rec)

	result, err := s.Run(context.Background(), testEnsemble(), testConfig(4))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if m.resets != 1 {
		t.Errorf("expected metric reset once, got %d", m.resets)
	}
	if result.Metrics["count"] != 4 {
		t.Errorf("expected count metric 4, got %v", result.Metrics["count"])
	}
	if len(rec.frames) != 4 || rec.frames[0] != 1 || rec.frames[3] != 4 {
		t.Errorf("unexpected observed frames %v", rec.frames)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	e := physics.NewEnsemble([]physics.Seed{
		{Pos: dynamo.Vec2{X: math.NaN()}, Charge: 1},
		{Pos: dynamo.Vec2{X: 1}, Charge: 1},
	})

	result, err := New(nil).Run(context.Background(), e, testConfig(10))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.FramesRun != 1 {
		t.Errorf("expected run to stop after 1 frame, got %d", result.FramesRun)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected one ErrInvalidState, got %v", result.Errors)
	}
}

func TestSimulatorInvalidStateKeepsFiniteResult(t *testing.T) {
	cfg := testConfig(10)
	cfg.Integration.TimeStep = 1e200

	result, err := New(nil).Run(context.Background(), testEnsemble(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Fatalf("expected one ErrInvalidState, got %v", result.Errors)
	}
	if math.IsNaN(result.EnergyDrift) || math.IsInf(result.EnergyDrift, 0) {
		t.Errorf("expected finite energy drift, got %v", result.EnergyDrift)
	}
	for _, snap := range result.Snapshots {
		if math.IsNaN(snap.Energy) || math.IsInf(snap.Energy, 0) {
			t.Errorf("snapshot %d has non-finite energy %v", snap.Frame, snap.Energy)
		}
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	e := testEnsemble()
	cfg := testConfig(0)

	calls := 0
	err := New(nil).RunWithCallback(context.Background(), e, cfg, func(e *physics.Ensemble, frame int, t float64) bool {
		calls++
		return frame < 2
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
	if e.Steps() != 2*cfg.Integration.SubStepsPerFrame {
		t.Errorf("expected %d steps, got %d", 2*cfg.Integration.SubStepsPerFrame, e.Steps())
	}
}

func TestSimulatorRunWithCallbackFrameLimit(t *testing.T) {
	calls := 0
	err := New(nil).RunWithCallback(context.Background(), testEnsemble(), testConfig(7), func(*physics.Ensemble, int, float64) bool {
		calls++
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 7 {
		t.Errorf("expected 7 callbacks, got %d", calls)
	}
}

func TestBatchRun(t *testing.T) {
	base := testEnsemble()
	specs := make([]RunSpec, 4)
	for i := range specs {
		specs[i] = RunSpec{Seed: int64(i), Ensemble: base.Clone()}
	}

	b := NewBatch(func() *Simulator { return New(physics.NewSerial()) }, 2)
	results, err := b.Run(context.Background(), specs, testConfig(20))
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	want := results[0].Snapshots[len(results[0].Snapshots)-1].Positions
	for i, r := range results[1:] {
		got := r.Snapshots[len(r.Snapshots)-1].Positions
		for k := range want {
			if got[k] != want[k] {
				t.Errorf("run %d particle %d: expected %v, got %v", i+1, k, want[k], got[k])
			}
		}
	}
}

func TestBatchRunError(t *testing.T) {
	cfg := testConfig(5)
	cfg.Integration.TimeStep = -1

	b := NewBatch(func() *Simulator { return New(nil) }, 0)
	_, err := b.Run(context.Background(), []RunSpec{{Ensemble: testEnsemble()}}, cfg)
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
