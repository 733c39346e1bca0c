package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
)

func sine(freq, rate float64, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return data
}

func TestPowerSpectrum(t *testing.T) {
	ps := PowerSpectrum(sine(5, 100, 200))
	if len(ps) != 101 {
		t.Fatalf("expected 101 bins, got %d", len(ps))
	}

	peak := 0
	for i, v := range ps {
		if v > ps[peak] {
			peak = i
		}
	}
	if peak != 10 {
		t.Errorf("expected peak at bin 10, got %d", peak)
	}

	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty data")
	}
}

func TestDominantFrequency(t *testing.T) {
	data := sine(5, 100, 200)
	for i := range data {
		data[i] += 3
	}
	if f := DominantFrequency(data, 100); math.Abs(f-5) > 1e-9 {
		t.Errorf("expected 5 Hz, got %v", f)
	}
	if f := DominantFrequency([]float64{1}, 100); f != 0 {
		t.Errorf("expected 0 for a single sample, got %v", f)
	}
}

func TestRadial(t *testing.T) {
	rs := Radial([]dynamo.Vec2{{X: 3, Y: 4}, {Y: 1}, {Y: -1}})
	if math.Abs(rs.Mean-7.0/3.0) > 1e-12 {
		t.Errorf("expected mean 7/3, got %v", rs.Mean)
	}
	if rs.Median != 1 || rs.Max != 5 {
		t.Errorf("unexpected median/max %v/%v", rs.Median, rs.Max)
	}

	single := Radial([]dynamo.Vec2{{X: 2}})
	if single.StdDev != 0 || single.Mean != 2 {
		t.Errorf("unexpected stats for one point %+v", single)
	}
}

func twoFrameResult() *sim.Result {
	return &sim.Result{
		Charges: []float64{1, -1},
		Snapshots: []sim.Snapshot{
			{Time: 0, Positions: []dynamo.Vec2{{X: -1}, {X: 1}}},
			{Time: 0.5, Positions: []dynamo.Vec2{{X: -0.5}, {X: 0.5}}},
			{Time: 1, Positions: []dynamo.Vec2{{X: -0.25, Y: 1}, {X: 0.25, Y: 1}}},
		},
	}
}

func TestSeparationAndCoordinate(t *testing.T) {
	r := twoFrameResult()

	sep := Separation(r, 0, 1)
	want := []float64{2, 1, 0.5}
	for i := range want {
		if sep[i] != want[i] {
			t.Errorf("separation[%d] = %v, want %v", i, sep[i], want[i])
		}
	}

	ys := Coordinate(r, 1, 1)
	if ys[2] != 1 {
		t.Errorf("expected y=1, got %v", ys[2])
	}
	if mr := MeanRadius(r); len(mr) != 3 || mr[0] != 1 {
		t.Errorf("unexpected mean radius %v", mr)
	}
}

func TestSeparationPortrait(t *testing.T) {
	p := SeparationPortrait(twoFrameResult(), 0, 1)
	if len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(p.Points))
	}
	if p.Points[0] != (Point{X: 1, Y: -2}) {
		t.Errorf("unexpected first point %+v", p.Points[0])
	}

	art := PortraitToASCII(p, 20, 8)
	if lines := strings.Count(art, "\n"); lines != 8 {
		t.Errorf("expected 8 lines, got %d", lines)
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}
	if PortraitToASCII(nil, 20, 8) != "" {
		t.Error("expected empty plot for nil portrait")
	}
}

func dipole() *physics.Ensemble {
	return physics.NewEnsemble([]physics.Seed{
		{Pos: dynamo.Vec2{X: -1}, Charge: 1},
		{Pos: dynamo.Vec2{X: 1}, Charge: -1},
	})
}

func TestDivergence(t *testing.T) {
	cfg := sim.DefaultConfig()
	e := dipole()

	a := Divergence(physics.NewSerial(), e, cfg.Force, cfg.Integration, 1e-8, 50)
	b := Divergence(physics.NewSerial(), e, cfg.Force, cfg.Integration, 1e-8, 50)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		t.Fatalf("expected finite exponent, got %v", a)
	}
	if a != b {
		t.Errorf("expected deterministic estimate, got %v and %v", a, b)
	}
	if e.Steps() != 0 || e.Position(0) != (dynamo.Vec2{X: -1}) {
		t.Error("input ensemble was modified")
	}

	if d := Divergence(physics.NewSerial(), e, cfg.Force, cfg.Integration, 0, 50); d != 0 {
		t.Errorf("expected 0 for zero perturbation, got %v", d)
	}
}

func TestSweep(t *testing.T) {
	cfg := sim.DefaultConfig()
	seeds := dipole().Seeds()

	points, err := Sweep(physics.NewSerial(), seeds, cfg.Force, cfg.Integration, SweepConfig{
		Param: "boundary_strength", Min: -2, Max: 0, Steps: 3, Transient: 5, Record: 10,
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[1].Param != -1 {
		t.Errorf("expected middle param -1, got %v", points[1].Param)
	}
	for _, p := range points {
		if len(p.Values) == 0 {
			t.Errorf("param %v recorded no values", p.Param)
		}
	}
	if art := SweepToASCII(points, 30, 10); strings.Count(art, "\n") != 10 {
		t.Errorf("unexpected plot:\n%s", art)
	}

	_, err = Sweep(physics.NewSerial(), seeds, cfg.Force, cfg.Integration, SweepConfig{Param: "mass", Steps: 2})
	if !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}

	_, err = Sweep(physics.NewSerial(), seeds, cfg.Force, cfg.Integration, SweepConfig{Param: "softening", Min: 0, Max: 1, Steps: 2})
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
