// Package viz renders a live terminal view of a running simulation:
// bodies and trails on a braille canvas, collision flashes, and a
// stats sidebar with an energy history chart.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/scenario"
	"github.com/san-kum/cosmiclab/internal/sim"
)

const (
	width  = 80
	height = 28

	// defaultSpan is the world-space width mapped onto the canvas at
	// zoom 1. Scenario positions live within roughly +-400 units.
	defaultSpan = 900.0
)

type TickMsg time.Time

// bodyView is the per-frame display copy of a body, captured under the
// runner lock so rendering never races a step.
type bodyView struct {
	pos    physics.Vec2
	radius float64
	trail  []physics.Vec2
	anchor bool
}

// Model drives the live view: it owns the step cadence and reads
// engine state through the runner.
type Model struct {
	runner       *sim.Runner
	recorder     *sim.Recorder
	scenarioName string
	seed         int64

	canvas *Canvas
	zoom   float64
	trails bool

	bodies []bodyView
	events []physics.CollisionEvent
	stats  physics.Stats
}

func NewModel(runner *sim.Runner, scenarioName string, seed int64) Model {
	return Model{
		runner:       runner,
		recorder:     sim.NewRecorder(0),
		scenarioName: scenarioName,
		seed:         seed,
		canvas:       NewCanvas(width, height),
		zoom:         1.0,
		trails:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.runner.Do(func(e *physics.Engine) {
				if e.Paused() {
					e.Resume()
				} else {
					e.Pause()
				}
			})
		case "r":
			m.reset()
		case "t":
			m.trails = !m.trails
		case "+", "=":
			m.zoom *= 1.25
		case "-", "_":
			if m.zoom > 0.1 {
				m.zoom /= 1.25
			}
		}
		return m, nil

	case TickMsg:
		m.runner.Step()
		m.capture()
		m.recorder.Observe(m.stats)
		return m, tick()
	}
	return m, nil
}

// reset reloads the scenario from its seed. Engine configuration and
// the recorder history start over with it.
func (m *Model) reset() {
	bodies, err := scenario.Build(m.scenarioName, m.seed)
	if err != nil {
		return
	}
	m.runner.Do(func(e *physics.Engine) {
		e.ClearBodies()
		for _, b := range bodies {
			e.AddBody(b)
		}
	})
	m.recorder.Reset()
}

// capture copies display state out of the engine in one locked read.
func (m *Model) capture() {
	m.runner.Do(func(e *physics.Engine) {
		active := e.Bodies()
		views := make([]bodyView, 0, len(active))
		for _, b := range active {
			trail := make([]physics.Vec2, len(b.Trail))
			copy(trail, b.Trail)
			views = append(views, bodyView{
				pos:    b.Position,
				radius: b.Radius,
				trail:  trail,
				anchor: b.Anchor,
			})
		}
		m.bodies = views
		m.events = e.RecentCollisions(physics.DefaultEventMaxAge)
		m.stats = e.Stats()
	})
}

// project maps world coordinates to canvas sub-pixels. World y points
// up, canvas y points down.
func (m *Model) project(p physics.Vec2) (int, int) {
	cw, ch := width*2, height*4
	scale := float64(cw) / defaultSpan * m.zoom
	x := cw/2 + int(p.X*scale)
	y := ch/2 - int(p.Y*scale*0.5)
	return x, y
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw := width * 2
	scale := float64(cw) / defaultSpan * m.zoom

	for _, b := range m.bodies {
		if m.trails {
			var px, py int
			for i, p := range b.trail {
				x, y := m.project(p)
				if i > 0 {
					m.canvas.DrawLine(px, py, x, y)
				}
				px, py = x, y
			}
		}

		x, y := m.project(b.pos)
		r := int(b.radius * scale)
		if r < 1 {
			r = 1
		}
		if b.anchor {
			m.canvas.FillCircle(x, y, r)
		} else {
			m.canvas.DrawCircle(x, y, r)
		}
	}

	for _, ev := range m.events {
		x, y := m.project(ev.Position)
		arm := 2 + int(ev.Intensity*6)
		m.canvas.DrawCross(x, y, arm)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := statusRunning.Render("RUNNING")
	if m.stats.Paused {
		status = statusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenarioName)) + "\n")
	s.WriteString(status + "\n\n")

	if series := m.recorder.EnergySeries(); len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", m.stats.TimeElapsed)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.stats.BodyCount)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", m.stats.TotalEnergy)) + "\n")
	s.WriteString(labelStyle.Render("Avg speed") + valueStyle.Render(fmt.Sprintf("%.2f", m.stats.AverageSpeed)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", m.stats.CollisionCount)) + "\n")
	s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.4f", m.recorder.EnergyDrift())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	s.WriteString(helpStyle.Render("SP:Pause R:Reset T:Trails\n+/-:Zoom Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
