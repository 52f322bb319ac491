package card

import (
	"fmt"
	"math"

	"github.com/san-kum/cardsim/internal/dynamo"
)

// Params tunes the card choreography. Durations are seconds, angles radians.
type Params struct {
	IdleHeight     float64
	LiftHeight     float64
	LiftDuration   float64
	FlipDuration   float64
	ReturnDuration float64
	HoverScale     float64
	LiftScale      float64
	MaxTiltX       float64
	MaxTiltY       float64

	IdleFloatAmplitude float64
	IdleFloatFrequency float64
	LiftFloatAmplitude float64
	LiftFloatFrequency float64

	LiftTilt        float64
	FlipWobble      float64
	AutoRotateSpeed float64 // rad/s
}

func DefaultParams() Params {
	return Params{
		IdleHeight:         1.5,
		LiftHeight:         2.8,
		LiftDuration:       0.8,
		FlipDuration:       1.2,
		ReturnDuration:     0.6,
		HoverScale:         1.02,
		LiftScale:          1.1,
		MaxTiltX:           math.Pi / 6,
		MaxTiltY:           math.Pi / 4,
		IdleFloatAmplitude: 0.05,
		IdleFloatFrequency: 0.5,
		LiftFloatAmplitude: 0.02,
		LiftFloatFrequency: 2,
		LiftTilt:           0.2,
		FlipWobble:         0.05,
		AutoRotateSpeed:    0.06,
	}
}

func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"lift_duration":   p.LiftDuration,
		"flip_duration":   p.FlipDuration,
		"return_duration": p.ReturnDuration,
		"hover_scale":     p.HoverScale,
		"lift_scale":      p.LiftScale,
	} {
		if !dynamo.Finite(v) || v <= 0 {
			return fmt.Errorf("card: %s=%v must be positive: %w", name, v, dynamo.ErrOutOfRange)
		}
	}
	for _, v := range []float64{
		p.IdleHeight, p.LiftHeight, p.MaxTiltX, p.MaxTiltY,
		p.IdleFloatAmplitude, p.IdleFloatFrequency, p.LiftFloatAmplitude, p.LiftFloatFrequency,
		p.LiftTilt, p.FlipWobble, p.AutoRotateSpeed,
	} {
		if !dynamo.Finite(v) {
			return fmt.Errorf("card: %w", dynamo.ErrNonFinite)
		}
	}
	if p.LiftHeight <= p.IdleHeight {
		return fmt.Errorf("card: lift_height %v must exceed idle_height %v: %w", p.LiftHeight, p.IdleHeight, dynamo.ErrOutOfRange)
	}
	return nil
}
