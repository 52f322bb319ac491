package metrics

import (
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/sim"
)

type PeakParticles struct {
	peak int
}

func NewPeakParticles() *PeakParticles { return &PeakParticles{} }

func (p *PeakParticles) Name() string { return "peak_particles" }

func (p *PeakParticles) Observe(snap sim.Snapshot) {
	p.peak = max(p.peak, snap.Particles.Count)
}

func (p *PeakParticles) Value() float64 { return float64(p.peak) }
func (p *PeakParticles) Reset()         { p.peak = 0 }

type MeanParticles struct {
	sum     int
	samples int
}

func NewMeanParticles() *MeanParticles { return &MeanParticles{} }

func (m *MeanParticles) Name() string { return "mean_particles" }

func (m *MeanParticles) Observe(snap sim.Snapshot) {
	m.sum += snap.Particles.Count
	m.samples++
}

func (m *MeanParticles) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanParticles) Reset() { m.sum, m.samples = 0, 0 }

// Transitions counts card state changes.
type Transitions struct {
	last   card.State
	primed bool
	count  int
}

func NewTransitions() *Transitions { return &Transitions{} }

func (t *Transitions) Name() string { return "transitions" }

func (t *Transitions) Observe(snap sim.Snapshot) {
	if t.primed && snap.State != t.last {
		t.count++
	}
	t.last, t.primed = snap.State, true
}

func (t *Transitions) Value() float64 { return float64(t.count) }
func (t *Transitions) Reset()         { *t = Transitions{} }

// Notifications counts notifications of one kind.
type Notifications struct {
	kind  card.Kind
	count int
}

func NewNotifications(kind card.Kind) *Notifications {
	return &Notifications{kind: kind}
}

func (n *Notifications) Name() string { return string(n.kind) }

func (n *Notifications) Observe(snap sim.Snapshot) {
	for _, note := range snap.Notifications {
		if note.Kind == n.kind {
			n.count++
		}
	}
}

func (n *Notifications) Value() float64 { return float64(n.count) }
func (n *Notifications) Reset()         { n.count = 0 }

// Default returns the metric set recorded for every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewStability(50),
		NewEnergy(1),
		NewMaxSpeed(),
		NewPeakParticles(),
		NewMeanParticles(),
		NewTransitions(),
		NewNotifications(card.CardFlipped),
		NewNotifications(card.GestureDetected),
	}
}
