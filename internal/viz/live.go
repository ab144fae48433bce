package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/scene"
	"github.com/san-kum/solarwind/internal/sim"
)

const (
	width           = 80
	height          = 26
	historyCapacity = 120
	windStep        = 50
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	cmeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// ExportFunc writes the current canvas somewhere and reports where.
type ExportFunc func(c *Canvas) (string, error)

// Model is the terminal renderer. Every TickMsg runs one simulation tick
// and redraws; quitting stops scheduling ticks, which ends the loop.
type Model struct {
	sim       *sim.Simulation
	ctrl      *sim.SharedControl
	scene     *scene.Scene
	canvas    *Canvas
	history   *metrics.History
	observers []sim.Observer
	interval  time.Duration
	palette   int
	showHelp  bool
	status    string
	export    ExportFunc
}

type Option func(*Model)

func WithObserver(o sim.Observer) Option { return func(m *Model) { m.observers = append(m.observers, o) } }
func WithExport(fn ExportFunc) Option    { return func(m *Model) { m.export = fn } }
func WithPalette(name string) Option {
	return func(m *Model) {
		for i, n := range PaletteNames() {
			if n == name {
				m.palette = i
			}
		}
	}
}

func NewModel(s *sim.Simulation, ctrl *sim.SharedControl, sc *scene.Scene, frameRate int, opts ...Option) Model {
	if frameRate <= 0 {
		frameRate = 60
	}
	m := Model{
		sim:      s,
		ctrl:     ctrl,
		scene:    sc,
		canvas:   NewCanvas(width, height),
		history:  metrics.NewHistory(historyCapacity),
		interval: time.Second / time.Duration(frameRate),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.palette = (m.palette + 1) % len(Palettes)
		case "e":
			m.status = m.exportCanvas()
		default:
			m.status = ""
			HandleKey(m.ctrl, msg.String())
		}
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// HandleKey applies a control key to the shared control surface. It
// reports whether the key was recognized.
func HandleKey(ctrl *sim.SharedControl, key string) bool {
	handled := true
	ctrl.Update(func(c *dynamo.Control) {
		switch key {
		case " ", "p":
			c.Paused = !c.Paused
		case "m":
			c.ShowMagnetosphere = !c.ShowMagnetosphere
		case "f":
			c.ShowFieldLines = !c.ShowFieldLines
		case "s":
			c.ShowSputtering = !c.ShowSputtering
		case "c":
			c.CME = !c.CME
		case "+", "=", "up":
			c.WindSpeed += windStep
		case "-", "_", "down":
			c.WindSpeed -= windStep
		case "1", "2", "3", "4", "5":
			c.Camera = dynamo.CameraMode(key[0] - '1')
		default:
			handled = false
		}
	})
	return handled
}

func (m *Model) step() {
	if st := m.sim.Tick(m.ctrl.Control()); st != nil {
		m.history.OnStats(*st)
		for _, o := range m.observers {
			o.OnStats(*st)
		}
	}
	Draw(m.canvas, m.scene, m.sim.Frame(), m.sim.Colors())
}

func (m Model) exportCanvas() string {
	if m.export == nil {
		return "export unavailable"
	}
	path, err := m.export(m.canvas)
	if err != nil {
		return "export failed: " + err.Error()
	}
	return "saved " + path
}

// View renders the TUI interface.
func (m Model) View() string {
	p := Palettes[m.palette]
	canvasView := canvasStyle.Render(m.canvas.Render(p))
	ctrl := m.sim.Applied()
	f := m.sim.Frame()

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(p.Accent).Render("MERCURY · SOLAR WIND") + "\n")

	status := onStyle.Render("RUNNING")
	if ctrl.Paused {
		status = pausedStyle.Render("PAUSED")
	}
	if ctrl.CME {
		status += "  " + cmeStyle.Render("CME")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", f.Tick))
	row("Wind speed", fmt.Sprintf("%.0f km/s", ctrl.WindSpeed))
	row("Camera", ctrl.Camera.String())

	latest, ok := m.history.Latest()
	if !ok {
		latest = dynamo.Stats{ReconnectionRate: metrics.BaseReconnection}
	}
	row("Ion flux", fmt.Sprintf("%.0f", latest.ParticlesHitting))
	if ctrl.ShowSputtering {
		row("Sputtered atoms", fmt.Sprintf("%d", latest.SputteredAtoms))
	}
	row("Reconnection", fmt.Sprintf("%.3f", latest.ReconnectionRate))

	if m.history.Len() > 1 {
		chart := asciigraph.Plot(m.history.Series(metrics.Flux), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Ion flux"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\nLAYERS\n")
	s.WriteString(toggle("Magnetosphere", ctrl.ShowMagnetosphere))
	s.WriteString(toggle("Field lines", ctrl.ShowFieldLines))
	s.WriteString(toggle("Sputtering", ctrl.ShowSputtering))

	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause C:CME +/-:Wind 1-5:Camera\nM F S:Layers T:Palette E:Export\n?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func toggle(name string, on bool) string {
	if on {
		return onStyle.Render("● ") + labelStyle.Render(name) + "\n"
	}
	return offStyle.Render("○ ") + labelStyle.Render(name) + "\n"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/P  - Pause/Resume             ║
║  C        - Toggle CME               ║
║  +/-      - Wind speed ±50 km/s      ║
║  1..5     - orbit/side/top/sun/merc. ║
║  M        - Magnetosphere            ║
║  F        - Field lines              ║
║  S        - Sputtering readout       ║
║  T        - Cycle palettes           ║
║  E        - Export frame as SVG      ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive opens the terminal view and blocks until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
