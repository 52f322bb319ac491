// Package particles implements a capacity-bounded particle pool with
// ambient, aura, burst and trail behaviors and a flat render buffer.
package particles

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownType = errors.New("particles: unknown particle type")

type Behavior uint8

const (
	Ambient Behavior = iota
	Aura
	Burst
	Trail
)

var behaviorNames = [...]string{"ambient", "aura", "burst", "trail"}

func (b Behavior) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return "unknown"
}

func ParseBehavior(s string) (Behavior, error) {
	for i, n := range behaviorNames {
		if n == s {
			return Behavior(i), nil
		}
	}
	return 0, fmt.Errorf("behavior %q: %w", s, ErrUnknownType)
}

// TypeConfig describes one kind of particle. Speed is in units per second,
// Lifetime in seconds.
type TypeConfig struct {
	Name             string
	Behavior         Behavior
	Count            int
	Size             float64
	Speed            float64
	Color            colorful.Color
	Opacity          float64
	Shape            string
	Lifetime         float64
	FollowsAttractor bool
}

type Particle struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Color    colorful.Color
	Size     float64

	BaseOpacity float64
	Opacity     float64

	Lifetime    float64 // remaining, seconds
	MaxLifetime float64

	Behavior         Behavior
	FollowsAttractor bool

	Rotation      float64
	RotationSpeed float64

	Seq uint64 // insertion order
}

// Age returns the consumed fraction of the lifetime in [0, 1].
func (p *Particle) Age() float64 {
	if p.MaxLifetime <= 0 {
		return 1
	}
	return 1 - p.Lifetime/p.MaxLifetime
}

// DefaultTypes returns the stock ambient, aura, burst and trail configs.
func DefaultTypes() map[string]TypeConfig {
	return map[string]TypeConfig{
		"ambient": {Name: "ambient", Behavior: Ambient, Count: 300, Size: 0.02, Speed: 0.6, Color: mustHex("#06B6D4"), Opacity: 0.3, Shape: "code", Lifetime: 10},
		"aura":    {Name: "aura", Behavior: Aura, Count: 80, Size: 0.015, Speed: 1.2, Color: mustHex("#22D3EE"), Opacity: 0.7, Shape: "sphere", Lifetime: 5, FollowsAttractor: true},
		"burst":   {Name: "burst", Behavior: Burst, Count: 50, Size: 0.03, Speed: 3.0, Color: mustHex("#8B5CF6"), Opacity: 1.0, Shape: "sparkle", Lifetime: 1.5},
		"trail":   {Name: "trail", Behavior: Trail, Count: 20, Size: 0.01, Speed: 0.6, Color: mustHex("#22D3EE"), Opacity: 0.7, Shape: "sphere", Lifetime: 1, FollowsAttractor: true},
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
