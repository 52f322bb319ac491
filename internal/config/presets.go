package config

import "sort"

// Presets tweak the defaults for common setups.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"snappy": func(c *Config) {
		c.Card.LiftDuration = 0.4
		c.Card.FlipDuration = 0.6
		c.Card.ReturnDuration = 0.3
		c.Physics.SpringStiffness = 0.2
		c.Physics.SpringDamping = 0.6
	},
	"floaty": func(c *Config) {
		c.Card.LiftDuration = 1.2
		c.Card.FlipDuration = 1.8
		c.Card.IdleFloat = 0.1
		c.Physics.Gravity = 0.0002
		c.Physics.SpringStiffness = 0.05
		c.Physics.BounceDamping = 0.85
	},
	"lowpower": func(c *Config) {
		c.Quality = "low"
		c.FPS = 30
		c.Particles.Capacity = 300
		c.Particles.AmbientLow = 50
		c.Particles.AmbientMedium = 100
		c.Particles.AmbientHigh = 150
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
