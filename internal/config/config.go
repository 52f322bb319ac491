package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/gesture"
	"github.com/san-kum/cardsim/internal/particles"
	"github.com/san-kum/cardsim/internal/physics"
	"github.com/san-kum/cardsim/internal/sim"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid configuration")

const (
	DefaultFPS      = 60.0
	DefaultDuration = 10.0
	DefaultLogLevel = "info"
)

type Config struct {
	Seed          int64   `yaml:"seed"`
	FPS           float64 `yaml:"fps"`
	Duration      float64 `yaml:"duration"`
	Quality       string  `yaml:"quality"`
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
	LogLevel      string  `yaml:"log_level"`

	Card      CardConfig     `yaml:"card"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Particles ParticleConfig `yaml:"particles"`
	Gesture   GestureConfig  `yaml:"gesture"`
	Monitor   MonitorConfig  `yaml:"monitor"`
	Viewport  ViewportConfig `yaml:"viewport"`
}

type CardConfig struct {
	IdleHeight      float64 `yaml:"idle_height"`
	LiftHeight      float64 `yaml:"lift_height"`
	LiftDuration    float64 `yaml:"lift_duration"`
	FlipDuration    float64 `yaml:"flip_duration"`
	ReturnDuration  float64 `yaml:"return_duration"`
	HoverScale      float64 `yaml:"hover_scale"`
	LiftScale       float64 `yaml:"lift_scale"`
	MaxTiltX        float64 `yaml:"max_tilt_x"`
	MaxTiltY        float64 `yaml:"max_tilt_y"`
	IdleFloat       float64 `yaml:"idle_float"`
	LiftFloat       float64 `yaml:"lift_float"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"`
}

type PhysicsConfig struct {
	Gravity            float64 `yaml:"gravity"`
	Friction           float64 `yaml:"friction"`
	AngularDamping     float64 `yaml:"angular_damping"`
	SpringStiffness    float64 `yaml:"spring_stiffness"`
	SpringDamping      float64 `yaml:"spring_damping"`
	MaxVelocity        float64 `yaml:"max_velocity"`
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"`
	BounceDamping      float64 `yaml:"bounce_damping"`
}

type ParticleConfig struct {
	Capacity       int                   `yaml:"capacity"`
	BoundaryRadius float64               `yaml:"boundary_radius"`
	Restitution    float64               `yaml:"restitution"`
	Damping        float64               `yaml:"damping"`
	AmbientLow     int                   `yaml:"ambient_low"`
	AmbientMedium  int                   `yaml:"ambient_medium"`
	AmbientHigh    int                   `yaml:"ambient_high"`
	AmbientTopUp   int                   `yaml:"ambient_top_up"`
	Types          map[string]TypeConfig `yaml:"types"`
}

type TypeConfig struct {
	Behavior         string  `yaml:"behavior"`
	Count            int     `yaml:"count"`
	Size             float64 `yaml:"size"`
	Speed            float64 `yaml:"speed"`
	Color            string  `yaml:"color"`
	Opacity          float64 `yaml:"opacity"`
	Shape            string  `yaml:"shape"`
	Lifetime         float64 `yaml:"lifetime"`
	FollowsAttractor bool    `yaml:"follows_attractor"`
}

type GestureConfig struct {
	MinDisplacement float64 `yaml:"min_displacement"`
	DragAxis        float64 `yaml:"drag_axis"`
	DragCross       float64 `yaml:"drag_cross"`
	TapRadius       float64 `yaml:"tap_radius"`
	SwipeRatio      float64 `yaml:"swipe_ratio"`
	DiagonalMin     float64 `yaml:"diagonal_min"`
	Timeout         float64 `yaml:"timeout"`
}

type MonitorConfig struct {
	Interval  float64 `yaml:"interval"`
	LowFPS    float64 `yaml:"low_fps"`
	MediumFPS float64 `yaml:"medium_fps"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	s := sim.DefaultConfig()
	c, p, pp, g := s.Card, s.Physics, s.Particles, s.Gesture

	types := make(map[string]TypeConfig, len(s.Types))
	for name, t := range s.Types {
		types[name] = TypeConfig{
			Behavior:         t.Behavior.String(),
			Count:            t.Count,
			Size:             t.Size,
			Speed:            t.Speed,
			Color:            t.Color.Hex(),
			Opacity:          t.Opacity,
			Shape:            t.Shape,
			Lifetime:         t.Lifetime,
			FollowsAttractor: t.FollowsAttractor,
		}
	}

	return &Config{
		Seed:          s.Seed,
		FPS:           DefaultFPS,
		Duration:      DefaultDuration,
		Quality:       s.Quality.String(),
		MaxFrameDelta: s.MaxFrameDelta,
		LogLevel:      DefaultLogLevel,
		Card: CardConfig{
			IdleHeight:      c.IdleHeight,
			LiftHeight:      c.LiftHeight,
			LiftDuration:    c.LiftDuration,
			FlipDuration:    c.FlipDuration,
			ReturnDuration:  c.ReturnDuration,
			HoverScale:      c.HoverScale,
			LiftScale:       c.LiftScale,
			MaxTiltX:        c.MaxTiltX,
			MaxTiltY:        c.MaxTiltY,
			IdleFloat:       c.IdleFloatAmplitude,
			LiftFloat:       c.LiftFloatAmplitude,
			AutoRotateSpeed: c.AutoRotateSpeed,
		},
		Physics: PhysicsConfig{
			Gravity:            p.Gravity,
			Friction:           p.Friction,
			AngularDamping:     p.AngularDamping,
			SpringStiffness:    p.SpringStiffness,
			SpringDamping:      p.SpringDamping,
			MaxVelocity:        p.MaxVelocity,
			MaxAngularVelocity: p.MaxAngularVelocity,
			BounceDamping:      p.BounceDamping,
		},
		Particles: ParticleConfig{
			Capacity:       pp.Capacity,
			BoundaryRadius: pp.BoundaryRadius,
			Restitution:    pp.Restitution,
			Damping:        pp.Damping,
			AmbientLow:     s.Ambient.Low,
			AmbientMedium:  s.Ambient.Medium,
			AmbientHigh:    s.Ambient.High,
			AmbientTopUp:   s.AmbientTopUp,
			Types:          types,
		},
		Gesture: GestureConfig{
			MinDisplacement: g.MinDisplacement,
			DragAxis:        g.DragAxis,
			DragCross:       g.DragCross,
			TapRadius:       g.TapRadius,
			SwipeRatio:      g.SwipeRatio,
			DiagonalMin:     g.DiagonalMin,
			Timeout:         s.GestureTimeout,
		},
		Monitor: MonitorConfig{
			Interval:  s.MonitorInterval,
			LowFPS:    s.LowFPS,
			MediumFPS: s.MediumFPS,
		},
		Viewport: ViewportConfig{
			Width:  s.Viewport.Width,
			Height: s.Viewport.Height,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %f", ErrInvalid, c.FPS)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalid, c.Duration)
	}
	_, err := c.ToSession()
	return err
}

// ToSession converts the file representation into a session config.
func (c *Config) ToSession() (sim.Config, error) {
	s := sim.DefaultConfig()
	s.Seed = c.Seed
	s.MaxFrameDelta = c.MaxFrameDelta

	q, err := sim.ParseQuality(c.Quality)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	s.Quality = q

	s.Card = card.Params{
		IdleHeight:         c.Card.IdleHeight,
		LiftHeight:         c.Card.LiftHeight,
		LiftDuration:       c.Card.LiftDuration,
		FlipDuration:       c.Card.FlipDuration,
		ReturnDuration:     c.Card.ReturnDuration,
		HoverScale:         c.Card.HoverScale,
		LiftScale:          c.Card.LiftScale,
		MaxTiltX:           c.Card.MaxTiltX,
		MaxTiltY:           c.Card.MaxTiltY,
		IdleFloatAmplitude: c.Card.IdleFloat,
		IdleFloatFrequency: s.Card.IdleFloatFrequency,
		LiftFloatAmplitude: c.Card.LiftFloat,
		LiftFloatFrequency: s.Card.LiftFloatFrequency,
		LiftTilt:           s.Card.LiftTilt,
		FlipWobble:         s.Card.FlipWobble,
		AutoRotateSpeed:    c.Card.AutoRotateSpeed,
	}

	s.Physics = physics.Params{
		Gravity:            c.Physics.Gravity,
		Friction:           c.Physics.Friction,
		AngularDamping:     c.Physics.AngularDamping,
		SpringStiffness:    c.Physics.SpringStiffness,
		SpringDamping:      c.Physics.SpringDamping,
		MaxVelocity:        c.Physics.MaxVelocity,
		MaxAngularVelocity: c.Physics.MaxAngularVelocity,
		BounceDamping:      c.Physics.BounceDamping,
		IdleHeight:         c.Card.IdleHeight,
		ReferenceRate:      physics.DefaultReferenceRate,
	}

	s.Particles.Capacity = c.Particles.Capacity
	s.Particles.BoundaryRadius = c.Particles.BoundaryRadius
	s.Particles.Restitution = c.Particles.Restitution
	s.Particles.Damping = c.Particles.Damping
	s.Ambient = sim.QualityLevels{Low: c.Particles.AmbientLow, Medium: c.Particles.AmbientMedium, High: c.Particles.AmbientHigh}
	s.AmbientTopUp = c.Particles.AmbientTopUp

	types, err := c.Particles.types()
	if err != nil {
		return s, err
	}
	s.Types = types

	s.Gesture = gesture.Thresholds{
		MinDisplacement: c.Gesture.MinDisplacement,
		DragAxis:        c.Gesture.DragAxis,
		DragCross:       c.Gesture.DragCross,
		TapRadius:       c.Gesture.TapRadius,
		SwipeRatio:      c.Gesture.SwipeRatio,
		DiagonalMin:     c.Gesture.DiagonalMin,
	}
	s.GestureTimeout = c.Gesture.Timeout

	s.MonitorInterval = c.Monitor.Interval
	s.LowFPS = c.Monitor.LowFPS
	s.MediumFPS = c.Monitor.MediumFPS
	s.Viewport.Width = c.Viewport.Width
	s.Viewport.Height = c.Viewport.Height

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return s, nil
}

func (p ParticleConfig) types() (map[string]particles.TypeConfig, error) {
	out := make(map[string]particles.TypeConfig, len(p.Types))
	names := make([]string, 0, len(p.Types))
	for name := range p.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := p.Types[name]
		b, err := particles.ParseBehavior(t.Behavior)
		if err != nil {
			return nil, fmt.Errorf("%w: type %s: %w", ErrInvalid, name, err)
		}
		color, err := colorful.Hex(t.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: type %s color %q: %v", ErrInvalid, name, t.Color, err)
		}
		if t.Lifetime <= 0 || t.Count < 0 {
			return nil, fmt.Errorf("%w: type %s needs a positive lifetime and non-negative count", ErrInvalid, name)
		}
		out[name] = particles.TypeConfig{
			Name:             name,
			Behavior:         b,
			Count:            t.Count,
			Size:             t.Size,
			Speed:            t.Speed,
			Color:            color,
			Opacity:          t.Opacity,
			Shape:            t.Shape,
			Lifetime:         t.Lifetime,
			FollowsAttractor: t.FollowsAttractor,
		}
	}
	return out, nil
}
