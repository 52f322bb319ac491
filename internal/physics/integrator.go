package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
)

type Mode int

const (
	ModeSpring Mode = iota
	ModeFreeFall
)

func (m Mode) String() string {
	switch m {
	case ModeSpring:
		return "spring"
	case ModeFreeFall:
		return "free-fall"
	default:
		return "unknown"
	}
}

// Velocity is the integrator state carried between steps, in units per
// reference frame.
type Velocity struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
	Scale   float64
}

// Integrator advances a transform toward a target. It holds no per-body
// state; the rng only feeds the settle-bounce wobble.
type Integrator struct {
	params Params
	rng    *rand.Rand
}

func NewIntegrator(params Params, rng *rand.Rand) *Integrator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Integrator{params: params, rng: rng}
}

func (in *Integrator) Params() Params { return in.params }

// Advance performs one step of dt seconds. Non-finite target components are
// ignored (the current value is kept); non-finite current or velocity
// components are reset before integrating.
func (in *Integrator) Advance(cur, target dynamo.Transform, vel Velocity, dt float64, mode Mode) (dynamo.Transform, Velocity) {
	if !dynamo.Finite(dt) || dt <= 0 {
		return cur, vel
	}
	cur, vel = sanitizeState(cur, vel, target)
	target = sanitizeTarget(target, cur)

	frames := dt * in.params.ReferenceRate

	switch mode {
	case ModeFreeFall:
		return in.freeFall(cur, target, vel, frames)
	default:
		return in.spring(cur, target, vel, frames)
	}
}

func (in *Integrator) spring(cur, target dynamo.Transform, vel Velocity, frames float64) (dynamo.Transform, Velocity) {
	p := in.params

	vel.Linear = in.springVec(cur.Position, target.Position, vel.Linear, p.MaxVelocity)
	vel.Angular = in.springVec(cur.Rotation, target.Rotation, vel.Angular, p.MaxAngularVelocity)
	vel.Scale = in.springScalar(cur.Scale, target.Scale, vel.Scale)

	cur.Position = cur.Position.Add(vel.Linear.Mul(frames))
	cur.Rotation = cur.Rotation.Add(vel.Angular.Mul(frames))
	cur.Scale += vel.Scale * frames
	return cur, vel
}

// freeFall drops the vertical axis onto the floor at target.Position.Y.
// Lateral axes, rotation and scale stay sprung so the card keeps over its
// stand and settles upright.
func (in *Integrator) freeFall(cur, target dynamo.Transform, vel Velocity, frames float64) (dynamo.Transform, Velocity) {
	p := in.params

	sprung := in.springVec(cur.Position, target.Position, vel.Linear, p.MaxVelocity)
	v := mgl64.Vec3{sprung[0], vel.Linear[1], sprung[2]}
	v[1] -= p.Gravity * frames
	v[1] *= math.Pow(p.Friction, frames)

	ang := in.springVec(cur.Rotation, target.Rotation, vel.Angular, p.MaxAngularVelocity)
	ang = ang.Mul(math.Pow(p.AngularDamping, frames))

	v = dynamo.ClampLength(v, p.MaxVelocity)
	pos := cur.Position.Add(v.Mul(frames))

	floor := target.Position[1]
	if pos[1] < floor && v[1] < 0 {
		pos[1] = floor
		v[1] = -v[1] * p.BounceDamping
		if math.Abs(v[1]) > bounceJitterThreshold {
			ang[0] = (in.rng.Float64() - 0.5) * bounceJitter
			ang[2] = (in.rng.Float64() - 0.5) * bounceJitter
		}
	}
	ang = dynamo.ClampLength(ang, p.MaxAngularVelocity)

	vel.Linear = v
	vel.Angular = ang
	vel.Scale = in.springScalar(cur.Scale, target.Scale, vel.Scale)

	cur.Position = pos
	cur.Rotation = cur.Rotation.Add(ang.Mul(frames))
	cur.Scale += vel.Scale * frames
	return cur, vel
}

func (in *Integrator) springVec(x, target, v mgl64.Vec3, max float64) mgl64.Vec3 {
	force := target.Sub(x).Mul(in.params.SpringStiffness)
	damping := v.Mul(-in.params.SpringDamping)
	return dynamo.ClampLength(v.Add(force).Add(damping), max)
}

func (in *Integrator) springScalar(x, target, v float64) float64 {
	v += (target-x)*in.params.SpringStiffness - v*in.params.SpringDamping
	return dynamo.Clamp(v, -in.params.MaxVelocity, in.params.MaxVelocity)
}

func sanitizeTarget(target, cur dynamo.Transform) dynamo.Transform {
	target.Position, _ = dynamo.SanitizeVec(target.Position, cur.Position)
	target.Rotation, _ = dynamo.SanitizeVec(target.Rotation, cur.Rotation)
	target.Scale, _ = dynamo.SanitizeScalar(target.Scale, cur.Scale)
	return target
}

func sanitizeState(cur dynamo.Transform, vel Velocity, target dynamo.Transform) (dynamo.Transform, Velocity) {
	rest := dynamo.RestPose(0)
	fallback, _ := dynamo.SanitizeVec(target.Position, rest.Position)
	cur.Position, _ = dynamo.SanitizeVec(cur.Position, fallback)
	fallback, _ = dynamo.SanitizeVec(target.Rotation, rest.Rotation)
	cur.Rotation, _ = dynamo.SanitizeVec(cur.Rotation, fallback)
	scale, _ := dynamo.SanitizeScalar(target.Scale, rest.Scale)
	cur.Scale, _ = dynamo.SanitizeScalar(cur.Scale, scale)

	vel.Linear, _ = dynamo.SanitizeVec(vel.Linear, mgl64.Vec3{})
	vel.Angular, _ = dynamo.SanitizeVec(vel.Angular, mgl64.Vec3{})
	vel.Scale, _ = dynamo.SanitizeScalar(vel.Scale, 0)
	return cur, vel
}
