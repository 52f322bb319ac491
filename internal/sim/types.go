package sim

import (
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/particles"
)

// Snapshot is the immutable per-frame output of a session.
type Snapshot struct {
	Tick          uint64
	Time          float64
	State         card.State
	Flipped       bool
	Transform     dynamo.Transform
	Quality       Quality
	Particles     particles.Buffer
	Notifications []card.Notification
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnSnapshot(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnSnapshot(s Snapshot) { f(s) }

// Script supplies scheduled inputs. Inputs returns every input due at or
// before t that has not been returned yet.
type Script interface {
	Inputs(t float64) []Input
}

type RunConfig struct {
	FPS      float64
	Duration float64
}

type Result struct {
	Times          []float64
	Transforms     []dynamo.Transform
	States         []card.State
	Flipped        []bool
	ParticleCounts []int
	Notifications  []card.Notification
	Metrics        map[string]float64
	StepsTaken     int
	Digest         uint64
	Seed           int64
}

type Stats struct {
	Tick            uint64
	Time            float64
	State           card.State
	Quality         Quality
	Particles       int
	ParticlesByType map[string]int
	Evicted         uint64
	Interactions    int
	Gestures        int
	Achievements    []string
}
