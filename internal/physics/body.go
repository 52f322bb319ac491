package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
)

// Mask selects transform components for Pin.
type Mask uint8

const (
	PosX Mask = 1 << iota
	PosY
	PosZ
	RotX
	RotY
	RotZ
	Scale

	Position = PosX | PosY | PosZ
	Rotation = RotX | RotY | RotZ
	All      = Position | Rotation | Scale
)

func (m Mask) Has(c Mask) bool { return m&c != 0 }

// Body is a single integrated transform with its velocity.
type Body struct {
	in  *Integrator
	tr  dynamo.Transform
	vel Velocity
}

func NewBody(in *Integrator, pose dynamo.Transform) *Body {
	b := &Body{in: in}
	b.Reset(pose)
	return b
}

func (b *Body) Transform() dynamo.Transform { return b.tr }
func (b *Body) Velocity() Velocity          { return b.vel }

// Step advances the body toward target. Invalid dt leaves it untouched.
func (b *Body) Step(target dynamo.Transform, dt float64, mode Mode) {
	b.tr, b.vel = b.in.Advance(b.tr, target, b.vel, dt, mode)
}

// ApplyImpulse adds to the linear and angular velocity. Non-finite
// components are dropped and the result respects the velocity limits.
func (b *Body) ApplyImpulse(force, torque mgl64.Vec3) {
	force, _ = dynamo.SanitizeVec(force, mgl64.Vec3{})
	torque, _ = dynamo.SanitizeVec(torque, mgl64.Vec3{})
	p := b.in.params
	b.vel.Linear = dynamo.ClampLength(b.vel.Linear.Add(force), p.MaxVelocity)
	b.vel.Angular = dynamo.ClampLength(b.vel.Angular.Add(torque), p.MaxAngularVelocity)
}

// Pin overwrites the masked components of the transform and zeroes their
// velocity. Used by scripted animations that own part of the pose.
func (b *Body) Pin(t dynamo.Transform, mask Mask) {
	for i, c := range [3]Mask{PosX, PosY, PosZ} {
		if mask.Has(c) && dynamo.Finite(t.Position[i]) {
			b.tr.Position[i] = t.Position[i]
			b.vel.Linear[i] = 0
		}
	}
	for i, c := range [3]Mask{RotX, RotY, RotZ} {
		if mask.Has(c) && dynamo.Finite(t.Rotation[i]) {
			b.tr.Rotation[i] = t.Rotation[i]
			b.vel.Angular[i] = 0
		}
	}
	if mask.Has(Scale) && dynamo.Finite(t.Scale) {
		b.tr.Scale = t.Scale
		b.vel.Scale = 0
	}
}

// Reset places the body at pose with zero velocity. A non-finite pose
// falls back to the rest pose at the configured idle height.
func (b *Body) Reset(pose dynamo.Transform) {
	if !pose.IsValid() {
		pose = dynamo.RestPose(b.in.params.IdleHeight)
	}
	b.tr = pose
	b.vel = Velocity{}
}
