package gui

import (
	"context"
	"fmt"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme Colors
var (
	ColBg       = rl.NewColor(10, 10, 10, 255) // Deep Black
	ColPositive = rl.Red
	ColNegative = rl.Blue
	ColAccent   = rl.NewColor(180, 180, 180, 255) // Soft White
	ColText     = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim  = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
)

const (
	targetFPS    = 60
	maxTelemetry = 200
)

// Options configures the desktop window.
type Options struct {
	Title       string
	Stepper     physics.Stepper
	Ensemble    *physics.Ensemble
	Force       dynamo.ForceParams
	Integration dynamo.IntegrationParams
	View        dynamo.Viewport
	Radius      float32
	ShowHUD     bool
}

type App struct {
	Title       string
	Stepper     physics.Stepper
	Ensemble    *physics.Ensemble
	Initial     *physics.Ensemble
	Force       dynamo.ForceParams
	Integration dynamo.IntegrationParams
	View        dynamo.Viewport
	Radius      float32
	Running     bool
	Failed      bool
	ShowHUD     bool
	Frame       int
	Telemetry   []float64 // Ring buffer of total energy per frame
}

// initWindow opens a window of the viewport size, caps the frame rate at 60
// and disables the default exit key so only the close button quits.
func initWindow(view dynamo.Viewport, title string) {
	rl.InitWindow(int32(view.Width), int32(view.Height), title)
	rl.SetTargetFPS(targetFPS)
	rl.SetExitKey(0)
}

func NewApp(opts Options) *App {
	stepper := opts.Stepper
	if stepper == nil {
		stepper = physics.NewSerial()
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = 1
	}
	return &App{
		Title:       opts.Title,
		Stepper:     stepper,
		Ensemble:    opts.Ensemble.Clone(),
		Initial:     opts.Ensemble.Clone(),
		Force:       opts.Force,
		Integration: opts.Integration,
		View:        opts.View,
		Radius:      radius,
		Running:     true,
		ShowHUD:     opts.ShowHUD,
		Telemetry:   make([]float64, 0, maxTelemetry),
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	initWindow(opts.View, opts.Title)
	defer rl.CloseWindow()
	app := NewApp(opts)
	return app.RunLoop(ctx)
}

// RunLoop drives the window from the simulator's frame callback: every
// callback observes the frame just run, then renders until the app is
// running again. The close request is only honored between frames.
func (a *App) RunLoop(ctx context.Context) error {
	cfg := sim.Config{Integration: a.Integration, Force: a.Force}
	return sim.New(a.Stepper).RunWithCallback(ctx, a.Ensemble, cfg, func(_ *physics.Ensemble, frame int, _ float64) bool {
		if frame > 0 {
			a.Observe()
		}
		for {
			if rl.WindowShouldClose() {
				return false
			}
			a.Update()
			a.Draw()
			if a.Running {
				return true
			}
		}
	})
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) && !a.Failed {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
}

// Observe records the energy of the frame just run. A non-finite state
// pauses the window.
func (a *App) Observe() {
	a.Frame++
	if !a.Ensemble.IsValid() {
		a.Running = false
		a.Failed = true
		return
	}
	a.Telemetry = append(a.Telemetry, a.Ensemble.Energy(a.Force))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// Reset restores the initial ensemble in place, since the running loop
// holds the same pointer.
func (a *App) Reset() {
	a.Ensemble.CopyFrom(a.Initial)
	a.Frame = 0
	a.Failed = false
	a.Running = true
	a.Telemetry = a.Telemetry[:0]
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawParticles()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText(a.Title, 10, 10, 20, ColAccent)

	status := "RUNNING"
	col := ColAccent
	switch {
	case a.Failed:
		status, col = "INVALID STATE", rl.Red
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, a.View.Width-140, 10, 16, col)

	a.drawText(fmt.Sprintf("frame %d  t=%.3f  n=%d", a.Frame, float64(a.Frame)*a.Integration.FrameTime(), a.Ensemble.Len()), 10, 36, 14, ColText)
	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [H] HUD", 10, a.View.Height-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), a.View.Width-70, a.View.Height-24, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
