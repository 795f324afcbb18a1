package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/chaosdp/internal/sim"
)

func TestCanvas_SetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != brailleBlank|0x1|0x80 {
		t.Errorf("unexpected cell %U", got)
	}
	c.Unset(0, 0)
	if got := c.Grid[0][0]; got != brailleBlank|0x80 {
		t.Errorf("unexpected cell after unset %U", got)
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Grid[0][1] != brailleBlank {
		t.Error("out of range dot leaked into the grid")
	}

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvas_LineAndColor(t *testing.T) {
	c := NewCanvas(4, 2)
	red := lipgloss.Color("#ff0000")
	c.Line(0, 0, 7, 7, red)

	for i := 0; i < 4; i++ {
		row := i * 4 / 4 / 2
		if c.Grid[row][i] == brailleBlank {
			t.Errorf("diagonal missing cell (%d, %d)", row, i)
		}
	}
	if c.Colors[0][0] != red || c.Colors[1][3] != red {
		t.Error("line did not color its cells")
	}
	if c.Colors[1][0] != "" {
		t.Error("untouched cell was colored")
	}
	if lines := strings.Count(c.Render(), "\n"); lines != 2 {
		t.Errorf("expected 2 rendered rows, got %d", lines)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("nope").Name != ThemeDark.Name {
		t.Error("unknown theme should fall back to dark")
	}
	seen := map[string]bool{}
	th := ThemeDark
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeDark.Name {
		t.Errorf("NextTheme does not cycle through all themes: %v", seen)
	}
}

func newTestModel(count int) Model {
	opts := sim.DefaultOptions()
	opts.ChaosCount = count
	driver := sim.NewDriver(sim.NewSet(opts), sim.NewScheduler(sim.RealTime, 0))
	return NewModel(driver, Options{FPS: 60, TrailLength: 5})
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(m Model, at time.Time) Model {
	next, cmd := m.Update(TickMsg(at))
	if cmd == nil {
		panic("tick did not schedule the next frame")
	}
	return next.(Model)
}

func TestModel_KeysPostEvents(t *testing.T) {
	m := newTestModel(12)
	t0 := time.Unix(0, 0)

	m = press(m, "c")
	m = tick(m, t0)
	if got := m.driver.Set().Len(); got != 12 {
		t.Fatalf("expected 12 pendulums after 'c', got %d", got)
	}

	m = press(m, "p")
	m = tick(m, t0.Add(10*time.Millisecond+100*time.Microsecond))
	if m.driver.Scheduler().Mode() != sim.Precision {
		t.Error("expected precision after 'p'")
	}
	if m.lastSteps != 50 {
		t.Errorf("expected 50 fixed steps for a 10.1ms frame, got %d", m.lastSteps)
	}

	m = press(m, "d")
	m = tick(m, t0.Add(20*time.Millisecond))
	if m.driver.Set().Population() != sim.PopulationDefault {
		t.Error("expected default population after 'd'")
	}
}

func TestModel_PauseSkipsTime(t *testing.T) {
	m := newTestModel(4)
	t0 := time.Unix(0, 0)
	m = tick(m, t0)

	m = press(m, " ")
	m = tick(m, t0.Add(5*time.Second))
	if m.lastSteps != 0 || m.simTime != 0 {
		t.Errorf("paused frame advanced: steps=%d time=%f", m.lastSteps, m.simTime)
	}

	m = press(m, " ")
	m = tick(m, t0.Add(5*time.Second+16*time.Millisecond))
	if m.lastSteps != 1 {
		t.Errorf("expected one real-time step after resume, got %d", m.lastSteps)
	}
	if m.simTime > 0.02 {
		t.Errorf("pause leaked into simulated time: %f", m.simTime)
	}
}

func TestModel_TrailBounded(t *testing.T) {
	m := newTestModel(4)
	t0 := time.Unix(0, 0)
	for i := 0; i < 20; i++ {
		m = tick(m, t0.Add(time.Duration(i)*16*time.Millisecond))
	}
	if len(m.trail) != 5 {
		t.Errorf("expected trail capped at 5, got %d", len(m.trail))
	}

	m = press(m, "c")
	m = tick(m, t0.Add(time.Second))
	if len(m.trail) != 0 {
		t.Errorf("chaos population should not leave a trail, got %d points", len(m.trail))
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(8)
	t0 := time.Unix(0, 0)
	m = tick(m, t0)
	m = tick(m, t0.Add(16*time.Millisecond))
	m = tick(m, t0.Add(32*time.Millisecond))

	view := m.View()
	for _, want := range []string{"DOUBLE PENDULUM", "realtime", "default (1)", "energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if w, h := m.canvasSize(); m.canvas.Width != w || m.canvas.Height != h {
		t.Error("canvas not resized")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("expected quit command")
	}
}
