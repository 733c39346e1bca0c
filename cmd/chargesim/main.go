package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MaybeImHere/ElectricParticles1/internal/analysis"
	"github.com/MaybeImHere/ElectricParticles1/internal/config"
	"github.com/MaybeImHere/ElectricParticles1/internal/experiment"
	"github.com/MaybeImHere/ElectricParticles1/internal/export"
	"github.com/MaybeImHere/ElectricParticles1/internal/gui"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"github.com/MaybeImHere/ElectricParticles1/internal/storage"
	"github.com/MaybeImHere/ElectricParticles1/internal/viz"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logger     *log.Logger

	// Simulation overrides
	layout      string
	stepperName string
	workers     int
	seed        int64
	particles   int
	frames      int
	dt          float64
	subSteps    int
	softening   float64
	coefficient float64
	boundary    float64
	damping     float64

	// Live and window views
	frameRate int
	gifPath   string
	radius    float32
	noHUD     bool

	// Run naming and exports
	runName  string
	jsonOut  string
	svgOut   string
	canvas   bool
	cols     int
	rows     int
	traceDir string
	every    int
	particle int
	axis     int
	pairI    int
	pairJ    int

	// Batch, bench, sweep and divergence
	runs         int
	benchFrames  int
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	transient    int
	record       int
	perturbation float64
)

// main registers the chargesim commands and runs the root command. With no
// subcommand it opens the interactive preset menu in the terminal.
func main() {
	rootCmd := &cobra.Command{
		Use:   "chargesim",
		Short: "2D charged particle simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(menuItems(), buildLive)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chargesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset or layout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "simulation.gif", "gif output path")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	simFlags(guiCmd)
	guiCmd.Flags().Float32Var(&radius, "radius", 1, "particle radius in pixels")
	guiCmd.Flags().BoolVar(&noHUD, "no-hud", false, "hide the text overlay")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run several seeds concurrently and store every result",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	simFlags(batchCmd)
	batchCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds, counted up from --seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and radius of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and radial analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particle, "particle", 0, "particle index")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "coordinate (0 = x, 1 = y)")

	portraitCmd := &cobra.Command{
		Use:   "portrait [run_id]",
		Short: "separation phase plot of a particle pair",
		Args:  cobra.ExactArgs(1),
		RunE:  portraitPlot,
	}
	portraitCmd.Flags().IntVar(&pairI, "i", 0, "first particle")
	portraitCmd.Flags().IntVar(&pairJ, "j", 1, "second particle")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&jsonOut, "out", "", "output file (stdout when empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "trajectories.svg", "output file")
	exportSVGCmd.Flags().BoolVar(&canvas, "canvas", false, "draw the final frame as the live view shows it")
	exportSVGCmd.Flags().IntVar(&cols, "cols", 80, "canvas width in cells (with --canvas)")
	exportSVGCmd.Flags().IntVar(&rows, "rows", 40, "canvas height in cells (with --canvas)")

	exportTracesCmd := &cobra.Command{
		Use:   "export-traces [run_id]",
		Short: "write one x/y trace file per particle",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTraces,
	}
	exportTracesCmd.Flags().StringVar(&traceDir, "dir", ".", "output directory")
	exportTracesCmd.Flags().IntVar(&every, "every", 4, "keep one snapshot in every N")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark serial and parallel steppers",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 50, "frames per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a force parameter and plot the steady-state mean radius",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "boundary_strength", "force parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -4, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", -0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of values")
	sweepCmd.Flags().IntVar(&transient, "transient", 200, "frames discarded before recording")
	sweepCmd.Flags().IntVar(&record, "record", 100, "frames recorded per value")

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	simFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial offset of the shadow run")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, batchCmd, listCmd, plotCmd, analyzeCmd, portraitCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, exportTracesCmd, presetsCmd, benchCmd, sweepCmd,
		divergenceCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "chargesim",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
	return nil
}

func simFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&layout, "layout", d.Run.Layout, "initial layout")
	cmd.Flags().StringVar(&stepperName, "stepper", d.Run.Stepper, "stepper (serial, parallel)")
	cmd.Flags().IntVar(&workers, "workers", d.Run.Workers, "parallel workers (0 = all cpus)")
	cmd.Flags().Int64Var(&seed, "seed", d.Run.Seed, "random seed")
	cmd.Flags().IntVar(&particles, "particles", d.Integration.ParticleCount, "particle count")
	cmd.Flags().IntVar(&frames, "frames", d.Run.Frames, "frames to run")
	cmd.Flags().Float64Var(&dt, "dt", d.Integration.TimeStep, "timestep")
	cmd.Flags().IntVar(&subSteps, "sub-steps", d.Integration.SubStepsPerFrame, "integration steps per frame")
	cmd.Flags().Float64Var(&softening, "softening", d.Force.Softening, "pair force softening")
	cmd.Flags().Float64Var(&coefficient, "coefficient", d.Force.Coefficient, "pair force coefficient")
	cmd.Flags().Float64Var(&boundary, "boundary", d.Force.BoundaryStrength, "boundary strength (negative confines)")
	cmd.Flags().Float64Var(&damping, "damping", d.Force.VelocityDamping, "velocity damping per step")
}

// loadConfig resolves the preset, then the config file, then the flags the
// user actually set, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		cfg = config.LoadOrDefault(configFile, logger)
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Run.Layout = layout
	}
	if flags.Changed("stepper") {
		cfg.Run.Stepper = stepperName
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Integration.ParticleCount = particles
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.Integration.TimeStep = dt
	}
	if flags.Changed("sub-steps") {
		cfg.Integration.SubStepsPerFrame = subSteps
	}
	if flags.Changed("softening") {
		cfg.Force.Softening = softening
	}
	if flags.Changed("coefficient") {
		cfg.Force.Coefficient = coefficient
	}
	if flags.Changed("boundary") {
		cfg.Force.BoundaryStrength = boundary
	}
	if flags.Changed("damping") {
		cfg.Force.VelocityDamping = damping
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func buildExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	registry := experiment.NewRegistry()
	metrics := registry.DefaultMetrics(cfg.ForceParams(), cfg.ViewportParams())
	exp, err := experiment.Build(registry, cfg.ExperimentConfig(), metrics)
	if err != nil {
		return nil, err
	}
	exp.GetSimulator().SetLogger(logger)
	return exp, nil
}

func newStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	return st, st.Init()
}

func runLabel(cfg *config.Config) string {
	switch {
	case runName != "":
		return runName
	case preset != "":
		return preset
	default:
		return cfg.Run.Layout
	}
}

func runInfo(cfg *config.Config, name string) storage.RunInfo {
	return storage.RunInfo{
		Name:        name,
		Layout:      cfg.Run.Layout,
		Stepper:     cfg.Run.Stepper,
		Seed:        cfg.Run.Seed,
		Integration: cfg.IntegrationParams(),
		Force:       cfg.ForceParams(),
		Viewport:    cfg.ViewportParams(),
	}
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := newStore()
	if err != nil {
		return err
	}

	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := runLabel(cfg)
	fmt.Printf("running %s: %d particles, %d frames...\n", name, cfg.Integration.ParticleCount, cfg.Run.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runInfo(cfg, name), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func liveOptions(cfg *config.Config, name string) (viz.Options, error) {
	exp, err := buildExperiment(cfg)
	if err != nil {
		return viz.Options{}, err
	}
	return viz.Options{
		Name:        name,
		Stepper:     exp.GetSimulator().Stepper(),
		Ensemble:    exp.Ensemble(),
		Force:       cfg.ForceParams(),
		Integration: cfg.IntegrationParams(),
		Bounds:      cfg.ViewportParams(),
		FPS:         frameRate,
		GIFPath:     gifPath,
	}, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := liveOptions(cfg, runLabel(cfg))
	if err != nil {
		return err
	}
	return viz.Run(opts)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("opening window", "width", cfg.Viewport.Width, "height", cfg.Viewport.Height)
	return gui.Run(ctx, gui.Options{
		Title:       "chargesim: " + runLabel(cfg),
		Stepper:     exp.GetSimulator().Stepper(),
		Ensemble:    exp.Ensemble(),
		Force:       cfg.ForceParams(),
		Integration: cfg.IntegrationParams(),
		View:        cfg.ViewportParams(),
		Radius:      radius,
		ShowHUD:     !noHUD,
	})
}

// menuItems offers every preset in the interactive app.
func menuItems() []viz.MenuItem {
	names := config.ListPresets()
	items := make([]viz.MenuItem, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		items = append(items, viz.MenuItem{
			Name:        name,
			Description: fmt.Sprintf("%s, n=%d, k=%g", p.Run.Layout, p.Integration.ParticleCount, p.Force.BoundaryStrength),
			Params: map[string]float64{
				"particles":         float64(p.Integration.ParticleCount),
				"seed":              float64(p.Run.Seed),
				"softening":         p.Force.Softening,
				"coefficient":       p.Force.Coefficient,
				"boundary_strength": p.Force.BoundaryStrength,
				"velocity_damping":  p.Force.VelocityDamping,
			},
		})
	}
	return items
}

func buildLive(name string, params map[string]float64) (viz.Options, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return viz.Options{}, fmt.Errorf("unknown preset: %s", name)
	}
	cfg.Integration.ParticleCount = int(params["particles"])
	cfg.Run.Seed = int64(params["seed"])
	cfg.Force.Softening = params["softening"]
	cfg.Force.Coefficient = params["coefficient"]
	cfg.Force.BoundaryStrength = params["boundary_strength"]
	cfg.Force.VelocityDamping = params["velocity_damping"]
	if err := cfg.Validate(); err != nil {
		return viz.Options{}, err
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	return liveOptions(cfg, name)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	st, err := newStore()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	specs := make([]sim.RunSpec, runs)
	for k := range specs {
		c := *cfg
		c.Run.Seed = cfg.Run.Seed + int64(k)
		exp, err := buildExperiment(&c)
		if err != nil {
			return err
		}
		specs[k] = sim.RunSpec{Seed: c.Run.Seed, Ensemble: exp.Ensemble()}
	}

	factory := func() *sim.Simulator {
		stepper, err := registry.GetStepper(cfg.Run.Stepper, cfg.Run.Workers)
		if err != nil {
			stepper = physics.NewSerial()
		}
		s := sim.New(stepper)
		s.SetLogger(logger)
		for _, m := range registry.DefaultMetrics(cfg.ForceParams(), cfg.ViewportParams()) {
			s.AddMetric(m)
		}
		return s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sim.NewBatch(factory, 0).Run(ctx, specs, cfg.SimConfig())
	if err != nil {
		return err
	}
	logger.Info("batch complete", "runs", runs, "elapsed", time.Since(start))

	name := runLabel(cfg)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tFRAMES\tENERGY DRIFT\tCONFINEMENT")
	for k, res := range results {
		c := *cfg
		c.Run.Seed = specs[k].Seed
		runID, err := st.Save(runInfo(&c, name), res)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3e\t%.3f\n", runID, specs[k].Seed, res.FramesRun, res.EnergyDrift, res.Metrics["confinement"])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tFRAMES\tDT\tLAYOUT\tSTEPPER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Charges),
			run.Frames,
			run.Dt,
			run.Layout,
			run.Stepper,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Snapshots) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", len(meta.Charges))
	fmt.Printf("samples: %d\n\n", len(result.Snapshots))

	captions := []string{"total energy", "mean radius"}
	series := [][]float64{result.Energies(), analysis.MeanRadius(result)}
	if len(meta.Charges) >= 2 {
		captions = append(captions, "separation of particles 0 and 1")
		series = append(series, analysis.Separation(result, 0, 1))
	}

	for i, data := range series {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[i]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if particle < 0 || particle >= len(meta.Charges) {
		return fmt.Errorf("particle %d out of range [0, %d)", particle, len(meta.Charges))
	}
	if axis != 0 && axis != 1 {
		return fmt.Errorf("axis must be 0 or 1, got %d", axis)
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	ip := meta.Integration()
	fmt.Printf("dt %g x %d sub-steps, %g s per frame\n\n", ip.TimeStep, ip.SubStepsPerFrame, ip.FrameTime())

	last := len(result.Snapshots) - 1
	final := result.Snapshots[last]
	stats := analysis.Radial(final.Positions)
	fmt.Printf("final radius: mean %.4f  stddev %.4f  median %.4f  max %.4f\n",
		stats.Mean, stats.StdDev, stats.Median, stats.Max)
	fmt.Printf("final potential energy: %.6f (total %.6f)\n\n",
		result.EnsembleAt(last).PotentialEnergy(meta.Force()), final.Energy)

	times := result.Times()
	if len(times) < 4 {
		return fmt.Errorf("not enough samples for a spectrum")
	}
	sampleRate := float64(len(times)-1) / (times[len(times)-1] - times[0])

	data := analysis.Coordinate(result, particle, axis)
	ps := analysis.PowerSpectrum(data)
	plotData := ps[1:]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (particle %d, %s)", particle, []string{"x", "y"}[axis])),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, sampleRate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func portraitPlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	n := len(meta.Charges)
	if pairI < 0 || pairI >= n || pairJ < 0 || pairJ >= n || pairI == pairJ {
		return fmt.Errorf("need two distinct particles in [0, %d), got %d and %d", n, pairI, pairJ)
	}

	fmt.Printf("separation portrait: %s (particles %d, %d)\n", meta.ID, pairI, pairJ)
	fmt.Println("x: separation, y: rate of change")
	fmt.Println()
	fmt.Println(analysis.PortraitToASCII(analysis.SeparationPortrait(result, pairI, pairJ), 70, 25))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)

	header := []string{"time", "frame", "energy"}
	for i := range result.Charges {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range result.Snapshots {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Frame),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
		}
		for _, p := range s.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if jsonOut == "" {
		return storage.ExportJSONStdout(meta, result)
	}
	if err := storage.ExportJSON(jsonOut, meta, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", jsonOut)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	// Runs saved before the viewport was recorded fall back to the config.
	view := meta.Viewport()
	if view.Validate() != nil {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		view = cfg.ViewportParams()
	}

	var svg string
	if canvas {
		if cols < 1 || rows < 1 {
			return fmt.Errorf("canvas needs at least one cell, got %dx%d", cols, rows)
		}
		svg = export.FinalFrameToSVG(result, view, cols, rows, 4)
	} else {
		svg = export.TrajectoriesToSVG(result, view)
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", svgOut)
	return nil
}

func exportTraces(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(traceDir, 0755); err != nil {
		return err
	}

	files, err := storage.WriteTraces(traceDir, result, every)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d trace files to %s\n", len(files), traceDir)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tLAYOUT\tSTEPPER\tBOUNDARY\tDAMPING\tFRAMES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%g\t%g\t%d\n",
			name,
			p.Integration.ParticleCount,
			p.Run.Layout,
			p.Run.Stepper,
			p.Force.BoundaryStrength,
			p.Force.VelocityDamping,
			p.Run.Frames,
		)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	registry := experiment.NewRegistry()
	counts := []int{14, 50, 120, 250}

	fmt.Printf("benchmarking %d frames of %d steps\n\n", benchFrames, cfg.Integration.SubStepsPerFrame)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPPER\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, name := range registry.ListSteppers() {
			c := *cfg
			c.Integration.ParticleCount = n
			c.Run.Frames = benchFrames
			c.Run.Stepper = name
			c.Run.Seed = 42

			exp, err := experiment.Build(registry, c.ExperimentConfig(), nil)
			if err != nil {
				return err
			}
			exp.GetSimulator().SetLogger(logger)

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n", n, name, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	sc := analysis.SweepConfig{
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Transient: transient,
		Record:    record,
	}
	fmt.Printf("sweeping %s over [%g, %g] in %d steps...\n", sc.Param, sc.Min, sc.Max, sc.Steps)

	start := time.Now()
	points, err := analysis.Sweep(exp.GetSimulator().Stepper(), exp.Ensemble().Seeds(), cfg.ForceParams(), cfg.IntegrationParams(), sc)
	if err != nil {
		return err
	}
	logger.Debug("sweep complete", "points", len(points), "elapsed", time.Since(start))

	fmt.Println()
	fmt.Println(analysis.SweepToASCII(points, 70, 25))
	fmt.Printf("x: %s, y: mean radius\n", sc.Param)
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	lambda := analysis.Divergence(exp.GetSimulator().Stepper(), exp.Ensemble(), cfg.ForceParams(), cfg.IntegrationParams(), perturbation, cfg.Run.Frames)
	fmt.Printf("largest lyapunov exponent: %.6f\n", lambda)
	switch {
	case lambda > 0.01:
		fmt.Println("trajectories diverge (chaotic)")
	case lambda < -0.01:
		fmt.Println("trajectories converge")
	default:
		fmt.Println("marginal")
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	path := "chargesim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("edit the file and pass it with --config")
	return nil
}
