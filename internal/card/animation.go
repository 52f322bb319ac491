package card

import (
	"math"

	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/easing"
	"github.com/san-kum/cardsim/internal/physics"
)

type AnimationKind uint8

const (
	AnimLift AnimationKind = iota
	AnimFlip
	AnimReturn
)

func (k AnimationKind) String() string {
	switch k {
	case AnimLift:
		return "lift"
	case AnimFlip:
		return "flip"
	case AnimReturn:
		return "return"
	}
	return "unknown"
}

// AnimationTarget is a time-bounded eased move from Start to End. It owns
// the transform components named by Mask while it runs.
type AnimationTarget struct {
	Kind      AnimationKind
	Start     dynamo.Transform
	End       dynamo.Transform
	StartTime float64
	Elapsed   float64
	Duration  float64
	Easing    easing.Name

	// Tilt is the peak x-rotation offset of a lift, Wobble the x/z wobble
	// amplitude of a flip.
	Tilt   float64
	Wobble float64
}

func (a *AnimationTarget) Progress() float64 {
	return easing.Progress(a.Elapsed, a.Duration)
}

func (a *AnimationTarget) Done() bool { return a.Progress() >= 1 }

func (a *AnimationTarget) Mask() physics.Mask {
	switch a.Kind {
	case AnimLift:
		return physics.PosY | physics.Scale | physics.RotX
	case AnimFlip:
		return physics.Rotation
	default:
		return physics.All
	}
}

// Pose evaluates the animation at progress p. At p >= 1 it is exactly End.
func (a *AnimationTarget) Pose(p float64) dynamo.Transform {
	p = easing.Clamp01(p)
	if p >= 1 {
		return a.End
	}
	t := a.Start.Lerp(a.End, easing.Apply(a.Easing, p))

	switch a.Kind {
	case AnimLift:
		tri := 2 * p
		if p > 0.5 {
			tri = 2 * (1 - p)
		}
		t.Rotation[0] = dynamo.Lerp(a.Start.Rotation[0], a.End.Rotation[0], p) - a.Tilt*tri
	case AnimFlip:
		if math.Abs(p-0.5) < 0.1 {
			w := math.Sin(p*4*math.Pi) * a.Wobble
			t.Rotation[0] += w
			t.Rotation[2] += w
		}
	}
	return t
}
