package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/sim"
)

const (
	defaultWidth  = 60
	defaultHeight = 22
	panelWidth    = 44
	historyLen    = 240
	eventLog      = 6
	frameRate     = 60
)

// TickMsg drives one simulation frame.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model hosts a session in a terminal. Mouse motion over the card hovers it,
// presses and drags feed the gesture recognizer.
type Model struct {
	session *sim.Session
	canvas  *Canvas
	camera  *Camera
	scene   *Scene
	theme   Theme
	styles  Styles

	width, height int
	paused        bool
	showHelp      bool

	last       time.Time
	fps        float64
	fpsHist    []float64
	heightHist []float64
	events     []string
	snap       sim.Snapshot

	inside   bool
	dragging bool
}

func NewModel(s *sim.Session, theme string) Model {
	th := GetTheme(theme)
	return Model{
		session:    s,
		canvas:     NewCanvas(defaultWidth, defaultHeight),
		camera:     NewCamera(),
		scene:      &Scene{},
		theme:      th,
		styles:     NewStyles(th),
		width:      defaultWidth,
		height:     defaultHeight,
		fpsHist:    make([]float64, 0, historyLen),
		heightHist: make([]float64, 0, historyLen),
		snap:       s.Tick(0),
	}
}

func (m Model) Session() *sim.Session  { return m.session }
func (m Model) Snapshot() sim.Snapshot { return m.snap }
func (m Model) Events() []string       { return m.events }

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-panelWidth-2, 10)
		m.height = max(msg.Height-1, 5)
		m.canvas.Resize(m.width, m.height)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		s.Handle(sim.Tap())
	case "o":
		s.Handle(sim.TapOutside())
	case " ", "f":
		s.Handle(sim.Press(sim.KeyFlip))
	case "esc":
		s.Handle(sim.Press(sim.KeyEscape))
	case "ctrl+r":
		s.Handle(sim.Press(sim.KeyReset))
	case "1":
		s.Handle(sim.Press(sim.KeyQualityLow))
	case "2":
		s.Handle(sim.Press(sim.KeyQualityMedium))
	case "3":
		s.Handle(sim.Press(sim.KeyQualityHigh))
	case "a":
		s.Handle(sim.Press(sim.KeyAutoRotate))
	case "p":
		m.paused = !m.paused
	case "t":
		m.theme = m.theme.Next()
		m.styles = NewStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	case "left":
		m.camera.Orbit(-0.1, 0)
	case "right":
		m.camera.Orbit(0.1, 0)
	case "up":
		m.camera.Orbit(0, 0.1)
	case "down":
		m.camera.Orbit(0, -0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

// canvas cell to viewport pixels; the canvas is inset by one column.
func (m *Model) toPixels(x, y int) (float64, float64) {
	vp := m.session.Config().Viewport
	px := (float64(x-1) + 0.5) / float64(m.width) * vp.Width
	py := (float64(y) + 0.5) / float64(m.height) * vp.Height
	return px, py
}

func (m *Model) overCard(x, y int) bool {
	x0, y0, x1, y1, ok := m.camera.Bounds(m.snap.Transform, m.width, m.height)
	x--
	return ok && x >= x0 && x <= x1 && y >= y0 && y <= y1
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	s := m.session
	px, py := m.toPixels(msg.X, msg.Y)
	vp := s.Config().Viewport
	over := m.overCard(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		s.Handle(sim.Move(px/vp.Width*2-1, 1-py/vp.Height*2))
		if m.dragging {
			s.Handle(sim.Drag(px, py))
		}
		switch {
		case over && !m.inside:
			s.Handle(sim.Enter())
		case !over && m.inside:
			s.Handle(sim.Leave())
		}
		m.inside = over
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if !over {
			s.Handle(sim.TapOutside())
			return
		}
		m.dragging = s.Handle(sim.Down(px, py))
	case tea.MouseActionRelease:
		if m.dragging {
			s.Handle(sim.Up(px, py))
			m.dragging = false
		}
	}
}

func (m *Model) step(now time.Time) {
	dt := 1.0 / frameRate
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	if dt > 0 {
		if m.fps == 0 {
			m.fps = 1 / dt
		} else {
			m.fps = 0.9*m.fps + 0.1/dt
		}
	}
	if m.paused {
		return
	}

	m.session.ReportFPS(m.fps)
	m.snap = m.session.Tick(dt)

	m.fpsHist = pushBounded(m.fpsHist, m.fps)
	m.heightHist = pushBounded(m.heightHist, m.snap.Transform.Position.Y())
	for _, n := range m.snap.Notifications {
		m.events = append(m.events, describe(n))
	}
	if over := len(m.events) - eventLog; over > 0 {
		m.events = append(m.events[:0], m.events[over:]...)
	}
}

func pushBounded(h []float64, v float64) []float64 {
	if len(h) == historyLen {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func describe(n card.Notification) string {
	at := fmt.Sprintf("%6.2fs ", n.Time)
	switch n.Kind {
	case card.GestureDetected:
		return at + "gesture " + n.Gesture
	case card.AchievementUnlocked:
		return at + "achievement " + n.Name
	case card.ParticleBurst:
		return fmt.Sprintf("%s%s +%d", at, n.ParticleType, n.Count)
	case card.QualityChanged:
		return at + "quality " + n.Name
	}
	return at + string(n.Kind)
}

func (m Model) View() string {
	m.canvas.Clear()
	m.scene.Reset()
	m.scene.AddParticles(m.snap.Particles.Positions, m.snap.Particles.Count)
	m.scene.AddCard(m.snap.Transform, m.snap.Flipped)
	Render(m.canvas, m.scene, m.camera)

	st := m.styles
	stats := m.session.Stats()
	capacity := m.session.Pool().Cap()

	var b strings.Builder
	b.WriteString(st.Header.Render("CARD") + "\n")
	status := st.Accent.Render(m.snap.State.String())
	if m.paused {
		status = st.Warn.Render("paused")
	}
	b.WriteString(st.Row("State", status) + "\n")
	b.WriteString(st.Row("Flipped", fmt.Sprint(m.snap.Flipped)) + "\n")
	b.WriteString(st.Row("Time", fmt.Sprintf("%.2fs", m.snap.Time)) + "\n")
	b.WriteString(st.Row("Quality", m.snap.Quality.String()) + "\n")
	b.WriteString(st.Row("FPS", fmt.Sprintf("%.0f ", m.fps)) + st.Particles.Render(Sparkline(m.fpsHist, 16)) + "\n")
	b.WriteString(st.Row("Particles", fmt.Sprintf("%4d ", stats.Particles)) + st.Gauge(float64(stats.Particles)/float64(capacity), 16) + "\n")
	b.WriteString(st.Row("Interactions", fmt.Sprint(stats.Interactions)) + "\n")
	b.WriteString(st.Row("Achievements", fmt.Sprint(len(stats.Achievements))) + "\n")

	if len(m.heightHist) > 1 {
		b.WriteString("\n" + asciigraph.Plot(m.heightHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("height")) + "\n")
	}

	b.WriteString("\n")
	for _, e := range m.events {
		b.WriteString(st.Label.UnsetWidth().Render(e) + "\n")
	}

	if m.showHelp {
		b.WriteString(st.Help.Render(helpText))
	} else {
		b.WriteString(st.Help.Render("enter:lift  f:flip  esc:return  ?:help  q:quit"))
	}

	canvas := st.Canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, st.Panel.Render(b.String()))
}

const helpText = `enter    lift / flip
space f  flip
o        click outside
esc      return
ctrl+r   reset
1 2 3    quality
a        auto-rotate
p        pause
t        theme
arrows   orbit camera
+ -      zoom
q        quit`

// RunLive runs an interactive session until the user quits or ctx ends.
func RunLive(ctx context.Context, s *sim.Session, theme string) error {
	p := tea.NewProgram(NewModel(s, theme), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
