package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/sim"
)

// motion tracks finite-difference velocity of the card between snapshots.
type motion struct {
	prev     mgl64.Vec3
	prevTime float64
	primed   bool
}

func (m *motion) velocity(snap sim.Snapshot) (mgl64.Vec3, bool) {
	pos := snap.Transform.Position
	defer func() {
		m.prev, m.prevTime, m.primed = pos, snap.Time, true
	}()
	dt := snap.Time - m.prevTime
	if !m.primed || dt <= 0 {
		return mgl64.Vec3{}, false
	}
	return pos.Sub(m.prev).Mul(1 / dt), true
}

// Energy is the mean kinetic energy ½m|v|² of the card.
type Energy struct {
	name        string
	mass        float64
	m           motion
	samples     int
	totalEnergy float64
}

func NewEnergy(mass float64) *Energy {
	return &Energy{
		name: "energy",
		mass: mass,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(snap sim.Snapshot) {
	v, ok := e.m.velocity(snap)
	if !ok {
		return
	}
	e.totalEnergy += 0.5 * e.mass * v.Dot(v)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	*e = Energy{name: e.name, mass: e.mass}
}

// MaxSpeed is the peak card speed in units per second.
type MaxSpeed struct {
	m   motion
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (s *MaxSpeed) Name() string { return "max_speed" }

func (s *MaxSpeed) Observe(snap sim.Snapshot) {
	if v, ok := s.m.velocity(snap); ok {
		s.max = math.Max(s.max, v.Len())
	}
}

func (s *MaxSpeed) Value() float64 { return s.max }
func (s *MaxSpeed) Reset()         { *s = MaxSpeed{} }
