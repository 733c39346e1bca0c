package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailLength     = 40
	maxSubSteps     = 200
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Options configures a live view.
type Options struct {
	Name        string
	Stepper     physics.Stepper
	Ensemble    *physics.Ensemble
	Force       dynamo.ForceParams
	Integration dynamo.IntegrationParams
	Bounds      dynamo.Viewport
	FPS         int
	GIFPath     string
}

// Model runs one frame of the simulation per tick and draws the ensemble on
// a Braille canvas next to a stats panel.
type Model struct {
	name          string
	stepper       physics.Stepper
	ensemble      *physics.Ensemble
	initial       *physics.Ensemble
	force         dynamo.ForceParams
	integ         dynamo.IntegrationParams
	initialSub    int
	width, height int
	canvas        *Canvas
	projector     Projector
	trails        [][]struct{ x, y int }
	showTrails    bool
	running       bool
	failed        bool
	t             float64
	frame         int
	fps           int
	energyHistory []float64
	radiusHistory []float64
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
	gifPath       string
	lastSaved     string
	gifErr        error
}

// NewModel initializes the simulation and visualization state. The ensemble
// is copied so reset can restore it.
func NewModel(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	stepper := opts.Stepper
	if stepper == nil {
		stepper = physics.NewSerial()
	}
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "simulation.gif"
	}

	canvas := NewCanvas(width, height)
	return Model{
		name:          opts.Name,
		stepper:       stepper,
		ensemble:      opts.Ensemble.Clone(),
		initial:       opts.Ensemble.Clone(),
		force:         opts.Force,
		integ:         opts.Integration,
		initialSub:    opts.Integration.SubStepsPerFrame,
		width:         width,
		height:        height,
		canvas:        canvas,
		projector:     NewProjector(canvas, opts.Bounds),
		trails:        make([][]struct{ x, y int }, opts.Ensemble.Len()),
		showTrails:    true,
		running:       true,
		fps:           fps,
		energyHistory: make([]float64, 0, historyCapacity),
		radiusHistory: make([]float64, 0, historyCapacity),
		gifPath:       gifPath,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			if !m.failed {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.integ.SubStepsPerFrame = min(m.integ.SubStepsPerFrame*2, maxSubSteps)
		case "-", "_":
			m.integ.SubStepsPerFrame = max(m.integ.SubStepsPerFrame/2, 1)
		case "t":
			m.showTrails = !m.showTrails
		case "c":
			NextTheme()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, CanvasToImage(m.canvas))
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the ensemble by one frame and records its history. A non
// finite state stops the view.
func (m *Model) step() {
	physics.Frame(m.stepper, m.ensemble, m.force, m.integ)
	m.t += m.integ.FrameTime()
	m.frame++

	if !m.ensemble.IsValid() {
		m.running = false
		m.failed = true
		return
	}

	m.energyHistory = appendCapped(m.energyHistory, m.ensemble.Energy(m.force))
	m.radiusHistory = appendCapped(m.radiusHistory, m.ensemble.MaxRadius())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restores the initial ensemble and sub-step count.
func (m *Model) reset() {
	m.ensemble = m.initial.Clone()
	m.integ.SubStepsPerFrame = m.initialSub
	m.t = 0
	m.frame = 0
	m.failed = false
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.radiusHistory = m.radiusHistory[:0]
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.showTrails {
		for i, tr := range m.trails {
			x, y := m.projector.Project(m.ensemble.Position(i))
			tr = append(tr, struct{ x, y int }{x, y})
			if len(tr) > trailLength {
				tr = tr[1:]
			}
			m.trails[i] = tr
			for _, pt := range tr {
				m.canvas.SetColor(pt.x, pt.y, ColorTrail)
			}
		}
	}
	DrawEnsemble(m.canvas, m.projector, m.ensemble)
}

func (m *Model) saveGIF() {
	if err := SaveGIF(m.gifPath, m.frames); err != nil {
		m.gifErr = err
		return
	}
	m.gifErr = nil
	m.lastSaved = m.gifPath
}

func (m Model) status() string {
	switch {
	case m.failed:
		return StatusFailed.Render("INVALID STATE")
	case m.recording:
		return StatusRecording.Render("● REC")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", m.t))
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Particles", fmt.Sprintf("%d", m.ensemble.Len()))
	row("Stepper", m.stepper.Name())
	row("Sub-steps", fmt.Sprintf("%d", m.integ.SubStepsPerFrame))
	row("Energy", fmt.Sprintf("%.4f", energy))
	row("Momentum", fmt.Sprintf("%.2e", m.ensemble.Momentum().Norm()))
	row("Max speed", fmt.Sprintf("%.3f", m.ensemble.MaxSpeed()))
	row("Theme", CurrentTheme.Name)
	s.WriteString(labelStyle.Render("Radius") + SparklineChart(m.radiusHistory, 30) + "\n")
	if m.lastSaved != "" {
		row("Saved", m.lastSaved)
	}
	if m.gifErr != nil {
		row("GIF error", StatusFailed.Render(m.gifErr.Error()))
	}

	s.WriteString(helpStyle.Render("\n" + Separator(24) + "\nSP:Pause R:Reset Q:Quit\n+/-:Sub-steps T:Trails\nC:Theme G:Record ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  +        - Double sub-steps/frame   ║
║  -        - Halve sub-steps/frame    ║
║  T        - Toggle trails            ║
║  C        - Cycle color themes       ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
