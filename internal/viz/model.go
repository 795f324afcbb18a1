package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaosdp/internal/metrics"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 40
	historyCapacity = 300
)

type TickMsg time.Time

type Options struct {
	FPS         int
	TrailLength int
	Theme       string
}

// Model is the terminal host loop: it samples the wall clock on every
// frame, forwards key presses to the driver as events and draws the set.
type Model struct {
	driver        *sim.Driver
	opts          Options
	theme         Theme
	styles        styles
	width, height int
	canvas        *Canvas
	trail         []physics.Vec2
	energyHistory []float64
	simTime       float64
	running       bool
	lastSteps     int
	generation    int
}

func NewModel(driver *sim.Driver, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		driver:        driver,
		opts:          opts,
		theme:         theme,
		styles:        newStyles(theme),
		width:         defaultWidth,
		height:        defaultHeight,
		energyHistory: make([]float64, 0, historyCapacity),
		running:       true,
		generation:    driver.Set().Generation(),
	}
	m.canvas = NewCanvas(m.canvasSize())
	return m
}

// Run blocks until the user quits.
func Run(driver *sim.Driver, opts Options) error {
	_, err := tea.NewProgram(NewModel(driver, opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "d":
			m.driver.Post(sim.EventSelectDefault)
		case "c":
			m.driver.Post(sim.EventSelectChaos)
		case "p":
			m.driver.Post(sim.EventTogglePrecision)
		case " ":
			m.running = !m.running
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(m.canvasSize())
	case TickMsg:
		m.advance(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// advance runs one host frame. While paused the clock is still sampled so
// resuming does not replay the pause as a catch-up burst.
func (m *Model) advance(now time.Time) {
	elapsed := m.driver.Scheduler().Sample(now)
	if !m.running {
		elapsed = 0
	}
	m.lastSteps = m.driver.Tick(elapsed)
	m.simTime += elapsed

	set := m.driver.Set()
	if set.Generation() != m.generation {
		m.trail = m.trail[:0]
		m.energyHistory = m.energyHistory[:0]
		m.generation = set.Generation()
	}

	lead := set.At(0)
	if lead.Tag.Trail && m.opts.TrailLength > 0 {
		m.trail = append(m.trail, lead.Bottom().Position())
		if len(m.trail) > m.opts.TrailLength {
			m.trail = m.trail[len(m.trail)-m.opts.TrailLength:]
		}
	}

	m.energyHistory = append(m.energyHistory, lead.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m Model) canvasSize() (int, int) {
	w := m.width - panelWidth - 4
	h := m.height - 1
	return max(w, 10), max(h, 5)
}

// project maps world coordinates (meters, y down) to canvas dots with the
// pivot in the upper third.
func (m *Model) project(p physics.Vec2) (int, int) {
	model := m.driver.Set().Options().Model
	reach := model.Top.Length + model.Bottom.Length
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	scale := math.Min(float64(cw)/2, float64(ch)/2) * 0.95 / reach
	cx, cy := cw/2, ch/2
	return cx + int(math.Round(p.X*scale)), cy + int(math.Round(p.Y*scale))
}

func (m *Model) draw() {
	m.canvas.Clear()
	set := m.driver.Set()

	for _, p := range m.trail {
		x, y := m.project(p)
		m.canvas.Plot(x, y, m.theme.Trail)
	}

	px, py := m.project(physics.Vec2{})
	for _, dp := range set.Pendulums() {
		color := termColor(dp.Tag.Color)
		tx, ty := m.project(dp.Top().Position())
		bx, by := m.project(dp.Bottom().Position())
		if set.Len() == 1 {
			m.canvas.Line(px, py, tx, ty, m.theme.Rod)
			m.canvas.Line(tx, ty, bx, by, m.theme.Rod)
			m.canvas.Disc(tx, ty, 1, color)
			m.canvas.Disc(bx, by, 1, color)
		} else {
			m.canvas.Line(tx, ty, bx, by, color)
			m.canvas.Plot(bx, by, color)
		}
	}
	m.canvas.Disc(px, py, 0, m.theme.Text)
}

func (m Model) View() string {
	m.draw()
	set := m.driver.Set()
	sched := m.driver.Scheduler()

	var s strings.Builder
	s.WriteString(m.styles.header.Render("DOUBLE PENDULUM") + "\n")
	if m.running {
		s.WriteString(m.styles.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(m.styles.paused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(m.styles.row("Mode", sched.Mode().String()))
	s.WriteString(m.styles.row("Population", fmt.Sprintf("%s (%d)", set.Population(), set.Len())))
	s.WriteString(m.styles.row("Steps/frame", fmt.Sprintf("%d", m.lastSteps)))
	s.WriteString(m.styles.row("Time", fmt.Sprintf("%.2fs", m.simTime)))

	lead := set.At(0)
	s.WriteString(m.styles.row("θ1 / θ2", fmt.Sprintf("%.3f / %.3f", lead.Top().Angle(), lead.Bottom().Angle())))
	if n := len(m.energyHistory); n > 0 {
		s.WriteString(m.styles.row("Energy", fmt.Sprintf("%.3f J", m.energyHistory[n-1])))
	}
	if set.Len() > 1 {
		s.WriteString(m.styles.row("Spread", fmt.Sprintf("%.4f m", metrics.Spread(set.Pendulums()))))
		s.WriteString(m.styles.row("θ1 range", fmt.Sprintf("%.4f rad", metrics.AngleRange(set.Pendulums()))))
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-14),
			asciigraph.Precision(1),
			asciigraph.Caption("energy"))
		s.WriteString("\n" + m.styles.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(panelWidth-4, m.theme) + "\n")
	s.WriteString(m.styles.help.Render("d:default c:chaos p:precision\nspace:pause t:theme q:quit"))

	canvasView := lipgloss.NewStyle().Padding(0, 1).Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
}
