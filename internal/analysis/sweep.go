package analysis

import (
	"fmt"
	"strings"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
)

// SweepPoint holds the distinct steady-state radii seen for one parameter
// value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// SweepConfig describes a one-parameter sweep. Param is a force parameter
// config key such as "boundary_strength".
type SweepConfig struct {
	Param     string
	Min, Max  float64
	Steps     int
	Transient int
	Record    int
}

// Sweep restarts from seeds for every parameter value, discards Transient
// frames, then records the distinct mean radii (quantized to 1e-3) over Record
// frames.
func Sweep(s physics.Stepper, seeds []physics.Seed, fp dynamo.ForceParams, ip dynamo.IntegrationParams, cfg SweepConfig) ([]SweepPoint, error) {
	steps := cfg.Steps
	if steps <= 1 {
		steps = 2
	}
	paramStep := (cfg.Max - cfg.Min) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := cfg.Min + float64(i)*paramStep

		p := fp
		if err := p.Set(cfg.Param, param); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", cfg.Param, param, err)
		}

		e := physics.NewEnsemble(seeds)
		for f := 0; f < cfg.Transient; f++ {
			physics.Frame(s, e, p, ip)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int]bool)
		for f := 0; f < cfg.Record; f++ {
			physics.Frame(s, e, p, ip)

			val := Radial(e.Positions(nil)).Mean
			key := int(val * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

// SweepToASCII plots parameter against recorded values.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
	}
	if !foundFirst {
		return ""
	}

	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newGrid(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	return gridString(canvas)
}

func newGrid(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func gridString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
