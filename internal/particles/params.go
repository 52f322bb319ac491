package particles

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
)

type Params struct {
	Capacity       int
	BoundaryRadius float64
	Restitution    float64
	Damping        float64 // per reference frame
	ReferenceRate  float64
	FadeStart      float64 // age fraction where fading begins

	AttractRadius float64
	OrbitRadius   float64
	AttractLerp   float64 // per reference frame
	AttractGain   float64
	OrbitImpulse  float64 // units/s²
	DriftAccel    float64 // units/s²
	MaxSpeed      float64

	SpawnExtent  mgl64.Vec3
	JitterChance float64
	HueJitter    float64 // fraction of the hue circle
}

func DefaultParams() Params {
	return Params{
		Capacity:       1000,
		BoundaryRadius: 25,
		Restitution:    0.9,
		Damping:        0.99,
		ReferenceRate:  60,
		FadeStart:      0.8,
		AttractRadius:  2,
		OrbitRadius:    1,
		AttractLerp:    0.1,
		AttractGain:    0.3,
		OrbitImpulse:   0.6,
		DriftAccel:     0.36,
		MaxSpeed:       20,
		SpawnExtent:    mgl64.Vec3{20, 10, 20},
		JitterChance:   0.3,
		HueJitter:      0.1,
	}
}

func (p Params) Validate() error {
	if p.Capacity <= 0 {
		return fmt.Errorf("particles: capacity %d: %w", p.Capacity, dynamo.ErrOutOfRange)
	}
	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"boundary_radius", p.BoundaryRadius, 1e-6, 1e6},
		{"restitution", p.Restitution, 0, 1},
		{"damping", p.Damping, 0, 1},
		{"reference_rate", p.ReferenceRate, 1, 1000},
		{"fade_start", p.FadeStart, 0, 0.999},
		{"attract_lerp", p.AttractLerp, 0, 1},
		{"max_speed", p.MaxSpeed, 1e-6, 1e6},
		{"jitter_chance", p.JitterChance, 0, 1},
		{"hue_jitter", p.HueJitter, 0, 1},
	}
	for _, c := range checks {
		if !dynamo.Finite(c.v) || c.v < c.lo || c.v > c.hi {
			return fmt.Errorf("particles: %s=%v not in [%v, %v]: %w", c.name, c.v, c.lo, c.hi, dynamo.ErrOutOfRange)
		}
	}
	for _, v := range []float64{p.AttractRadius, p.OrbitRadius, p.AttractGain, p.OrbitImpulse, p.DriftAccel} {
		if !dynamo.Finite(v) || v < 0 {
			return fmt.Errorf("particles: attraction parameter %v: %w", v, dynamo.ErrOutOfRange)
		}
	}
	if !dynamo.FiniteVec(p.SpawnExtent) {
		return fmt.Errorf("particles: spawn extent: %w", dynamo.ErrNonFinite)
	}
	return nil
}
