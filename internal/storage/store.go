package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"github.com/charmbracelet/log"
)

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: log.Default()}
}

func (s *Store) SetLogger(l *log.Logger) { s.logger = l }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Name        string
	Layout      string
	Stepper     string
	Seed        int64
	Integration dynamo.IntegrationParams
	Force       dynamo.ForceParams
	Viewport    dynamo.Viewport
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Timestamp        time.Time          `json:"timestamp"`
	Layout           string             `json:"layout"`
	Stepper          string             `json:"stepper"`
	Seed             int64              `json:"seed"`
	Dt               float64            `json:"dt"`
	SubSteps         int                `json:"sub_steps_per_frame"`
	Softening        float64            `json:"softening"`
	Coefficient      float64            `json:"coefficient"`
	BoundaryStrength float64            `json:"boundary_strength"`
	VelocityDamping  float64            `json:"velocity_damping"`
	View             ViewMetadata       `json:"viewport"`
	Frames           int                `json:"frames"`
	Steps            int                `json:"steps"`
	Charges          []float64          `json:"charges"`
	EnergyDrift      float64            `json:"energy_drift"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Integration rebuilds the integration parameters of the stored run.
func (m *RunMetadata) Integration() dynamo.IntegrationParams {
	return dynamo.IntegrationParams{TimeStep: m.Dt, ParticleCount: len(m.Charges), SubStepsPerFrame: m.SubSteps}
}

// Force rebuilds the force parameters of the stored run.
func (m *RunMetadata) Force() dynamo.ForceParams {
	return dynamo.ForceParams{
		Softening:        m.Softening,
		Coefficient:      m.Coefficient,
		BoundaryStrength: m.BoundaryStrength,
		VelocityDamping:  m.VelocityDamping,
	}
}

// ViewMetadata is the viewport a run was recorded with.
type ViewMetadata struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	MinX   float64 `json:"min_x"`
	MaxX   float64 `json:"max_x"`
	MinY   float64 `json:"min_y"`
	MaxY   float64 `json:"max_y"`
}

func newViewMetadata(v dynamo.Viewport) ViewMetadata {
	return ViewMetadata{Width: v.Width, Height: v.Height, MinX: v.MinX, MaxX: v.MaxX, MinY: v.MinY, MaxY: v.MaxY}
}

// Viewport rebuilds the viewport of the stored run. Runs saved without one
// return the zero value, which fails Validate.
func (m *RunMetadata) Viewport() dynamo.Viewport {
	v := m.View
	return dynamo.Viewport{Width: v.Width, Height: v.Height, MinX: v.MinX, MaxX: v.MaxX, MinY: v.MinY, MaxY: v.MaxY}
}

func (s *Store) newRunID(name string) string {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for k := 1; ; k++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			return runID
		}
		runID = fmt.Sprintf("%s_%d", base, k)
	}
}

// Save writes metadata.json and states.csv into a new run directory and
// returns its id. Each CSV row is one snapshot: time, frame, energy, then an
// x,y column pair per particle. Files are written into a hidden staging
// directory that is renamed into place only once both are complete, so a
// failed save leaves nothing behind.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := s.newRunID(info.Name)

	meta := RunMetadata{
		ID:               runID,
		Name:             info.Name,
		Timestamp:        time.Now(),
		Layout:           info.Layout,
		Stepper:          info.Stepper,
		Seed:             info.Seed,
		Dt:               info.Integration.TimeStep,
		SubSteps:         info.Integration.SubStepsPerFrame,
		Softening:        info.Force.Softening,
		Coefficient:      info.Force.Coefficient,
		BoundaryStrength: info.Force.BoundaryStrength,
		VelocityDamping:  info.Force.VelocityDamping,
		View:             newViewMetadata(info.Viewport),
		Frames:           result.FramesRun,
		Steps:            result.StepsTaken,
		Charges:          result.Charges,
		EnergyDrift:      result.EnergyDrift,
		Metrics:          result.Metrics,
	}

	if err := s.Init(); err != nil {
		return "", err
	}
	stageDir, err := os.MkdirTemp(s.baseDir, ".staging-")
	if err != nil {
		return "", err
	}
	if err := s.writeRun(stageDir, &meta, result); err != nil {
		os.RemoveAll(stageDir)
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := os.Rename(stageDir, filepath.Join(s.baseDir, runID)); err != nil {
		os.RemoveAll(stageDir)
		return "", err
	}

	s.logger.Debug("saved run", "id", runID, "snapshots", len(result.Snapshots))
	return runID, nil
}

func (s *Store) writeRun(dir string, meta *RunMetadata, result *sim.Result) error {
	if err := writeMetadata(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}
	return writeStates(filepath.Join(dir, "states.csv"), result)
}

func writeMetadata(path string, meta *RunMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeStates(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	header := []string{"time", "frame", "energy"}
	for i := range result.Charges {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	w.Write(header)

	for _, snap := range result.Snapshots {
		row := []string{
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			strconv.Itoa(snap.Frame),
			strconv.FormatFloat(snap.Energy, 'f', 6, 64),
		}
		for _, p := range snap.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		w.Write(row)
	}

	// csv.Writer keeps the first write error; Error reports it after Flush.
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Warn("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSnapshots parses states.csv back into snapshots. Malformed rows are
// an error.
func (s *Store) LoadSnapshots(runID string) ([]sim.Snapshot, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		snap, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", csvPath, i+1, err)
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

func parseRow(record []string) (sim.Snapshot, error) {
	if len(record) < 3 || (len(record)-3)%2 != 0 {
		return sim.Snapshot{}, fmt.Errorf("unexpected column count %d", len(record))
	}

	vals := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Snapshot{}, err
		}
		vals[j] = v
	}

	snap := sim.Snapshot{
		Time:      vals[0],
		Frame:     int(vals[1]),
		Energy:    vals[2],
		Positions: make([]dynamo.Vec2, 0, (len(vals)-3)/2),
	}
	for j := 3; j < len(vals); j += 2 {
		snap.Positions = append(snap.Positions, dynamo.Vec2{X: vals[j], Y: vals[j+1]})
	}
	return snap, nil
}

// LoadResult reassembles a stored run into a Result for plotting and export.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	snaps, err := s.LoadSnapshots(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Charges:     meta.Charges,
		Snapshots:   snaps,
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
		FramesRun:   meta.Frames,
		StepsTaken:  meta.Steps,
	}
	return meta, result, nil
}
