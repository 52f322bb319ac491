package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/sim"
)

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 0)
	if got := c.Lit(); got != 8 {
		t.Fatalf("lit = %d, want 8", got)
	}
	c.Set(-1, 3)
	c.Set(100, 3)
	if got := c.Lit(); got != 8 {
		t.Fatalf("out of range set changed canvas: %d", got)
	}
	c.Clear()
	if c.Lit() != 0 {
		t.Fatal("clear left dots")
	}
	if rows := strings.Count(c.String(), "\n"); rows != 1 {
		t.Fatalf("rows = %d, want 1 separator", rows+1)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Resize(0, -3)
	if c.Width != 1 || c.Height != 1 {
		t.Fatalf("size = %dx%d, want 1x1", c.Width, c.Height)
	}
}

func TestCardCorners(t *testing.T) {
	tests := []struct {
		name string
		tr   dynamo.Transform
		want mgl64.Vec3
	}{
		{"rest", dynamo.RestPose(1.5), mgl64.Vec3{-CardWidth / 2, 1.5 - CardHeight/2, 0}},
		{"scaled", dynamo.Transform{Position: mgl64.Vec3{1, 0, 0}, Scale: 2}, mgl64.Vec3{1 - CardWidth, -CardHeight, 0}},
		{"half turn", dynamo.Transform{Rotation: mgl64.Vec3{0, math.Pi, 0}, Scale: 1}, mgl64.Vec3{CardWidth / 2, -CardHeight / 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CardCorners(tt.tr)[0]
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("corner = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectTargetIsCentered(t *testing.T) {
	cam := NewCamera()
	x, y, d, ok := cam.Project(cam.Target, 100, 80)
	if !ok || x != 50 || y != 40 || d != cam.Distance {
		t.Fatalf("project target = %d,%d depth %v ok %v", x, y, d, ok)
	}
	if _, _, _, ok := cam.Project(cam.Target.Add(mgl64.Vec3{0, 0, 50}), 100, 80); ok {
		t.Fatal("point behind the camera reported visible")
	}
}

func TestRenderDrawsCard(t *testing.T) {
	c := NewCanvas(40, 20)
	s := &Scene{}
	s.AddCard(dynamo.RestPose(2), false)
	Render(c, s, NewCamera())
	plain := c.Lit()
	if plain == 0 {
		t.Fatal("card not drawn")
	}

	c.Clear()
	s.Reset()
	s.AddCard(dynamo.RestPose(2), true)
	Render(c, s, NewCamera())
	if c.Lit() <= plain {
		t.Fatal("flipped card should draw its back cross")
	}
}

func TestSparklineAndGauge(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3}, 2); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty sparkline = %q", got)
	}
	st := NewStyles(ThemeMono)
	if !strings.Contains(st.Gauge(0.5, 10), "█████") {
		t.Error("half gauge missing fill")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeMidnight.Name {
		t.Error("unknown theme should fall back to midnight")
	}
	th := ThemeMidnight
	for range Themes {
		th = th.Next()
	}
	if th.Name != ThemeMidnight.Name {
		t.Errorf("cycling all themes ended on %s", th.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func TestPlotTrace(t *testing.T) {
	out, err := PlotTrace([][]float64{{0, 1, 2, 1, 0}}, PlotOptions{Height: 4, Caption: "py"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "py") {
		t.Errorf("caption missing:\n%s", out)
	}
	if _, err := PlotTrace(nil, PlotOptions{}); err == nil {
		t.Error("expected error for no series")
	}
	if _, err := PlotTrace([][]float64{{1}, {}}, PlotOptions{}); err == nil {
		t.Error("expected error for empty series")
	}
	many, err := PlotTrace([][]float64{{0, 1}, {1, 0}}, PlotOptions{Width: 20})
	if err != nil || many == "" {
		t.Fatalf("plot many: %q %v", many, err)
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	s, err := sim.NewSession(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, "mono")
}

func run(m Model, frames int) Model {
	start := m.last
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	for i := 1; i <= frames; i++ {
		next, _ := m.Update(TickMsg(start.Add(time.Duration(i) * time.Second / frameRate)))
		m = next.(Model)
	}
	return m
}

func press(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m := newModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(m, 60)
	if got := m.Snapshot().State; got != card.Lifted {
		t.Fatalf("state after enter = %v, want lifted", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = run(m, 90)
	if !m.Snapshot().Flipped {
		t.Fatal("f should flip a lifted card")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEscape})
	m = run(m, 60)
	if got := m.Snapshot().State; got != card.Idle {
		t.Fatalf("state after esc = %v, want idle", got)
	}
	if len(m.Events()) == 0 {
		t.Fatal("notifications not logged")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = run(m, 1)
	if m.Snapshot().Quality != sim.QualityLow {
		t.Fatalf("quality = %v, want low", m.Snapshot().Quality)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestModelPause(t *testing.T) {
	m := newModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	before := m.Session().Time()
	m = run(m, 10)
	if m.Session().Time() != before {
		t.Fatal("paused model advanced the session")
	}
}

func TestModelMouseTap(t *testing.T) {
	m := newModel(t)
	sx, sy, _, ok := m.camera.Project(m.Snapshot().Transform.Position, m.width*2, m.height*4)
	if !ok {
		t.Fatal("card center off screen")
	}
	x, y := sx/2+1, sy/4

	m = press(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if got := m.Session().Machine().State(); got != card.Hovered {
		t.Fatalf("state after hover = %v, want hovered", got)
	}

	m = press(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = press(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := m.Session().Machine().State(); got != card.Lifted {
		t.Fatalf("state after tap = %v, want lifted", got)
	}

	m = press(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.Session().Machine().State(); got != card.Returning {
		t.Fatalf("state after outside click = %v, want returning", got)
	}
}

func TestModelView(t *testing.T) {
	m := newModel(t)
	m = press(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = run(m, 5)
	v := m.View()
	for _, want := range []string{"CARD", "idle", "Particles"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
