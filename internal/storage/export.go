package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ExportData struct {
	ID           string             `json:"id"`
	Layout       string             `json:"layout"`
	Stepper      string             `json:"stepper"`
	Dt           float64            `json:"dt"`
	SubSteps     int                `json:"sub_steps_per_frame"`
	Frames       int                `json:"frames"`
	Charges      []float64          `json:"charges"`
	Times        []float64          `json:"times"`
	Energies     []float64          `json:"energies"`
	Trajectories [][]Point          `json:"trajectories"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newExportData(meta *RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		ID:           meta.ID,
		Layout:       meta.Layout,
		Stepper:      meta.Stepper,
		Dt:           meta.Dt,
		SubSteps:     meta.SubSteps,
		Frames:       result.FramesRun,
		Charges:      result.Charges,
		Times:        result.Times(),
		Energies:     result.Energies(),
		Trajectories: make([][]Point, len(result.Charges)),
		Metrics:      result.Metrics,
	}

	for i := range data.Trajectories {
		track := result.Track(i)
		data.Trajectories[i] = make([]Point, len(track))
		for k, p := range track {
			data.Trajectories[i][k] = Point{X: p.X, Y: p.Y}
		}
	}
	return data
}

func writeJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeJSON(file, meta, result)
}

func ExportJSONStdout(meta *RunMetadata, result *sim.Result) error {
	return writeJSON(os.Stdout, meta, result)
}

// WriteTraces writes one particle{i}.txt per particle into dir, a
// tab-separated "x\ty" line for every every-th snapshot, ready to paste into
// a graphing calculator. It returns the paths written.
func WriteTraces(dir string, result *sim.Result, every int) ([]string, error) {
	if every < 1 {
		every = 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(result.Charges))
	for i := range result.Charges {
		path := filepath.Join(dir, fmt.Sprintf("particle%d.txt", i))
		if err := writeTrace(path, result, i, every); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTrace(path string, result *sim.Result, i, every int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for k, p := range result.Track(i) {
		if k%every != 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, p.TSV()); err != nil {
			return err
		}
	}
	return w.Flush()
}
