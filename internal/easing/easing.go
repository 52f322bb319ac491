// Package easing provides the named progress curves used by choreographed
// card animations.
package easing

import (
	"fmt"
	"math"
)

type Name string

const (
	Linear     Name = "linear"
	BounceOut  Name = "bounce-out"
	CubicInOut Name = "cubic-in-out"
	CubicOut   Name = "cubic-out"
)

// Func maps progress in [0, 1] to eased progress.
type Func func(p float64) float64

var curves = map[Name]Func{
	Linear:     func(p float64) float64 { return p },
	BounceOut:  bounceOut,
	CubicInOut: cubicInOut,
	CubicOut:   cubicOut,
}

func Lookup(name Name) (Func, error) {
	fn, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("easing: unknown curve %q", name)
	}
	return fn, nil
}

// Apply evaluates the named curve at p clamped to [0, 1]. Unknown names
// fall back to linear.
func Apply(name Name, p float64) float64 {
	p = Clamp01(p)
	fn, ok := curves[name]
	if !ok {
		return p
	}
	return fn(p)
}

// Progress returns elapsed/duration clamped to [0, 1]. A non-positive
// duration is complete immediately.
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 || math.IsNaN(duration) {
		return 1
	}
	return Clamp01(elapsed / duration)
}

func Clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func bounceOut(x float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case x < 1/d1:
		return n1 * x * x
	case x < 2/d1:
		x -= 1.5 / d1
		return n1*x*x + 0.75
	case x < 2.5/d1:
		x -= 2.25 / d1
		return n1*x*x + 0.9375
	default:
		x -= 2.625 / d1
		return n1*x*x + 0.984375
	}
}

func cubicInOut(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}

func cubicOut(x float64) float64 {
	return 1 - math.Pow(1-x, 3)
}
