package sim

import (
	"fmt"

	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/gesture"
	"github.com/san-kum/cardsim/internal/particles"
	"github.com/san-kum/cardsim/internal/physics"
)

// Viewport maps pixel pointer positions onto the world plane of the card.
type Viewport struct {
	Width       float64
	Height      float64
	WorldWidth  float64
	WorldHeight float64
}

type Config struct {
	Seed          int64
	MaxFrameDelta float64
	Quality       Quality
	Ambient       QualityLevels
	AmbientTopUp  int

	MonitorInterval float64
	LowFPS          float64
	MediumFPS       float64

	Viewport Viewport

	Card           card.Params
	Physics        physics.Params
	Particles      particles.Params
	Types          map[string]particles.TypeConfig
	Gesture        gesture.Thresholds
	GestureTimeout float64
}

func DefaultConfig() Config {
	return Config{
		Seed:            1,
		MaxFrameDelta:   0.1,
		Quality:         QualityHigh,
		Ambient:         QualityLevels{Low: 100, Medium: 200, High: 300},
		AmbientTopUp:    10,
		MonitorInterval: 5,
		LowFPS:          30,
		MediumFPS:       45,
		Viewport:        Viewport{Width: 800, Height: 600, WorldWidth: 8, WorldHeight: 6},
		Card:            card.DefaultParams(),
		Physics:         physics.DefaultParams(),
		Particles:       particles.DefaultParams(),
		Types:           particles.DefaultTypes(),
		Gesture:         gesture.DefaultThresholds(),
		GestureTimeout:  gesture.DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if !dynamo.Finite(c.MaxFrameDelta) || c.MaxFrameDelta <= 0 {
		return fmt.Errorf("sim: max frame delta %v: %w", c.MaxFrameDelta, dynamo.ErrInvalidDelta)
	}
	if c.Quality > QualityHigh {
		return fmt.Errorf("sim: quality %d: %w", c.Quality, dynamo.ErrOutOfRange)
	}
	if c.Ambient.Low < 0 || c.Ambient.Medium < c.Ambient.Low || c.Ambient.High < c.Ambient.Medium {
		return fmt.Errorf("sim: ambient levels %+v must be non-decreasing: %w", c.Ambient, dynamo.ErrOutOfRange)
	}
	if c.Ambient.High > c.Particles.Capacity {
		return fmt.Errorf("sim: ambient %d exceeds capacity %d: %w", c.Ambient.High, c.Particles.Capacity, dynamo.ErrOutOfRange)
	}
	if c.AmbientTopUp < 0 {
		return fmt.Errorf("sim: ambient top-up %d: %w", c.AmbientTopUp, dynamo.ErrOutOfRange)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("sim: viewport %vx%v: %w", c.Viewport.Width, c.Viewport.Height, dynamo.ErrOutOfRange)
	}
	if _, ok := c.Types["ambient"]; !ok {
		return fmt.Errorf("sim: ambient: %w", particles.ErrUnknownType)
	}
	if err := c.Card.Validate(); err != nil {
		return err
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	return c.Particles.Validate()
}
