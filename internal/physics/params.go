package physics

import (
	"fmt"

	"github.com/san-kum/cardsim/internal/dynamo"
)

const (
	DefaultGravity            = 0.0005
	DefaultFriction           = 0.95
	DefaultAngularDamping     = 0.98
	DefaultSpringStiffness    = 0.1
	DefaultSpringDamping      = 0.8
	DefaultMaxVelocity        = 0.1
	DefaultMaxAngularVelocity = 0.05
	DefaultBounceDamping      = 0.7
	DefaultIdleHeight         = 1.5
	DefaultReferenceRate      = 60.0

	bounceJitterThreshold = 0.01
	bounceJitter          = 0.02
)

type Params struct {
	Gravity            float64
	Friction           float64
	AngularDamping     float64
	SpringStiffness    float64
	SpringDamping      float64
	MaxVelocity        float64
	MaxAngularVelocity float64
	BounceDamping      float64
	IdleHeight         float64
	ReferenceRate      float64
}

func DefaultParams() Params {
	return Params{
		Gravity:            DefaultGravity,
		Friction:           DefaultFriction,
		AngularDamping:     DefaultAngularDamping,
		SpringStiffness:    DefaultSpringStiffness,
		SpringDamping:      DefaultSpringDamping,
		MaxVelocity:        DefaultMaxVelocity,
		MaxAngularVelocity: DefaultMaxAngularVelocity,
		BounceDamping:      DefaultBounceDamping,
		IdleHeight:         DefaultIdleHeight,
		ReferenceRate:      DefaultReferenceRate,
	}
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
		lo   float64
		hi   float64
	}{
		{"gravity", p.Gravity, 0, 1},
		{"friction", p.Friction, 0, 1},
		{"angular_damping", p.AngularDamping, 0, 1},
		{"spring_stiffness", p.SpringStiffness, 0, 1},
		{"spring_damping", p.SpringDamping, 0, 1},
		{"max_velocity", p.MaxVelocity, 1e-9, 10},
		{"max_angular_velocity", p.MaxAngularVelocity, 1e-9, 10},
		{"bounce_damping", p.BounceDamping, 0, 1},
		{"reference_rate", p.ReferenceRate, 1, 1000},
	}
	for _, c := range checks {
		if !dynamo.Finite(c.v) || c.v < c.lo || c.v > c.hi {
			return fmt.Errorf("physics: %s=%v not in [%v, %v]: %w", c.name, c.v, c.lo, c.hi, dynamo.ErrOutOfRange)
		}
	}
	if !dynamo.Finite(p.IdleHeight) {
		return fmt.Errorf("physics: idle_height: %w", dynamo.ErrNonFinite)
	}
	return nil
}
