package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Canvas    lipgloss.Style
	Panel     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Accent    lipgloss.Style
	Help      lipgloss.Style
	Particles lipgloss.Style
	Good      lipgloss.Style
	Warn      lipgloss.Style
	Bad       lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Foreground(t.Card).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(40),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value:     lipgloss.NewStyle().Foreground(t.Text),
		Accent:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Help:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Particles: lipgloss.NewStyle().Foreground(t.Particles),
		Good:      lipgloss.NewStyle().Foreground(t.Good),
		Warn:      lipgloss.NewStyle().Foreground(t.Warn),
		Bad:       lipgloss.NewStyle().Foreground(t.Bad),
	}
}

// Row renders a label/value pair.
func (s Styles) Row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}

// Gauge renders fill in [0, 1] as a bar, colored bad when nearly full.
func (s Styles) Gauge(fill float64, width int) string {
	filled := int(fill * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fill > 0.9:
		return s.Bad.Render(bar)
	case fill > 0.6:
		return s.Warn.Render(bar)
	}
	return s.Good.Render(bar)
}

var sparkRunes = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws the last width values scaled to their own range.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[min(max(idx, 0), len(sparkRunes)-1)])
	}
	return b.String()
}
