package card

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/easing"
	"github.com/san-kum/cardsim/internal/physics"
	"go.uber.org/zap"
)

type Option func(*Machine)

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

func WithSpawner(s Spawner) Option {
	return func(m *Machine) {
		if s != nil {
			m.spawner = s
		}
	}
}

// Machine owns the card's state, transform and active animation. All
// methods are meant to be called from a single goroutine.
type Machine struct {
	params  Params
	body    *physics.Body
	log     *zap.Logger
	spawner Spawner

	state   State
	flipped bool
	anim    *AnimationTarget

	clock        float64
	pointer      [2]float64
	autoRotate   bool
	autoYaw      float64
	interactions int

	out *outbox
}

func NewMachine(params Params, in *physics.Integrator, opts ...Option) *Machine {
	m := &Machine{
		params:  params,
		log:     zap.NewNop(),
		spawner: nopSpawner{},
		out:     newOutbox(outboxCap),
	}
	for _, o := range opts {
		o(m)
	}
	m.body = physics.NewBody(in, dynamo.RestPose(params.IdleHeight))
	return m
}

func (m *Machine) State() State                 { return m.state }
func (m *Machine) Flipped() bool                { return m.flipped }
func (m *Machine) Transform() dynamo.Transform  { return m.body.Transform() }
func (m *Machine) Velocity() physics.Velocity   { return m.body.Velocity() }
func (m *Machine) Clock() float64               { return m.clock }
func (m *Machine) Interactions() int            { return m.interactions }
func (m *Machine) AutoRotate() bool             { return m.autoRotate }
func (m *Machine) Params() Params               { return m.params }
func (m *Machine) Pointer() (x, y float64)      { return m.pointer[0], m.pointer[1] }
func (m *Machine) DroppedNotifications() uint64 { return m.out.dropped }

// Animation returns a copy of the active animation, if any.
func (m *Machine) Animation() (AnimationTarget, bool) {
	if m.anim == nil {
		return AnimationTarget{}, false
	}
	return *m.anim, true
}

// Drain returns and clears the queued notifications, oldest first.
func (m *Machine) Drain() []Notification { return m.out.drain() }

// Notify queues an externally produced notification, stamping the machine
// clock if n.Time is zero.
func (m *Machine) Notify(n Notification) {
	if n.Time == 0 {
		n.Time = m.clock
	}
	m.out.push(n)
}

func (m *Machine) emit(k Kind) {
	m.out.push(Notification{Kind: k, Time: m.clock, Flipped: m.flipped, Position: m.body.Transform().Position})
}

func (m *Machine) reject(event, reason string) bool {
	m.log.Debug("event ignored",
		zap.String("event", event),
		zap.Stringer("state", m.state),
		zap.String("reason", reason))
	return false
}

func (m *Machine) PointerEnter() bool {
	if m.state != Idle {
		return m.reject("pointer-enter", "not idle")
	}
	m.state = Hovered
	m.emit(CardHovered)
	return true
}

func (m *Machine) PointerLeave() bool {
	if m.state != Hovered {
		return m.reject("pointer-leave", "not hovered")
	}
	m.state = Idle
	return true
}

// Click lifts a resting card and flips a lifted one.
func (m *Machine) Click() bool {
	switch m.state {
	case Idle, Hovered:
		m.startLift()
		return true
	case Lifted:
		return m.Flip()
	}
	return m.reject("click", "animation in progress")
}

func (m *Machine) Flip() bool {
	if m.state != Lifted {
		return m.reject("flip", "card not lifted")
	}
	if m.anim != nil {
		return m.reject("flip", "lift still running")
	}
	m.startFlip()
	return true
}

func (m *Machine) Escape() bool       { return m.requestReturn("escape") }
func (m *Machine) ClickOutside() bool { return m.requestReturn("click-outside") }

// Exit is the gesture-driven return.
func (m *Machine) Exit() bool { return m.requestReturn("exit") }

func (m *Machine) requestReturn(event string) bool {
	if !m.state.Raised() {
		return m.reject(event, "card not raised")
	}
	if m.anim != nil {
		m.log.Debug("return supersedes animation", zap.Stringer("animation", m.anim.Kind))
	}
	m.startReturn()
	return true
}

// Reset snaps the card to its idle pose, clearing velocity, animation and
// flip state.
func (m *Machine) Reset() bool {
	m.anim = nil
	m.state = Idle
	m.flipped = false
	m.autoYaw = 0
	m.body.Reset(dynamo.RestPose(m.params.IdleHeight))
	m.interactions++
	m.emit(CardReset)
	return true
}

// SetPointer records the normalized pointer position used for tilt.
// Values are clamped to [-1, 1]; non-finite values are dropped.
func (m *Machine) SetPointer(x, y float64) bool {
	if !dynamo.Finite(x) || !dynamo.Finite(y) {
		m.log.Warn("pointer rejected", zap.Error(dynamo.ErrNonFinite),
			zap.Float64("x", x), zap.Float64("y", y))
		return false
	}
	m.pointer = [2]float64{dynamo.Clamp(x, -1, 1), dynamo.Clamp(y, -1, 1)}
	return true
}

func (m *Machine) SetAutoRotate(on bool) {
	m.autoRotate = on
}

// ApplyImpulse nudges the card body.
func (m *Machine) ApplyImpulse(force, torque mgl64.Vec3) {
	m.body.ApplyImpulse(force, torque)
}

func (m *Machine) startLift() {
	cur := m.body.Transform()
	cur.Rotation[1] = dynamo.WrapAngle(cur.Rotation[1], 0)
	m.body.Pin(cur, physics.RotY)

	end := cur
	end.Position[1] = m.params.LiftHeight
	end.Rotation[0] = 0
	end.Scale = m.params.LiftScale

	m.anim = &AnimationTarget{
		Kind:      AnimLift,
		Start:     cur,
		End:       end,
		StartTime: m.clock,
		Duration:  m.params.LiftDuration,
		Easing:    easing.BounceOut,
		Tilt:      m.params.LiftTilt,
	}
	m.state = Lifted
	m.autoYaw = 0
	m.interactions++
	m.emit(CardLifted)

	at := end.Position
	m.spawner.RequestSpawn(SpawnRequest{Effect: EffectBurst, Position: at})
	m.spawner.RequestSpawn(SpawnRequest{Effect: EffectAura, Position: at})
}

func (m *Machine) startFlip() {
	cur := m.body.Transform()
	end := cur
	end.Rotation = mgl64.Vec3{0, cur.Rotation[1] + math.Pi, 0}

	m.anim = &AnimationTarget{
		Kind:      AnimFlip,
		Start:     cur,
		End:       end,
		StartTime: m.clock,
		Duration:  m.params.FlipDuration,
		Easing:    easing.CubicInOut,
		Wobble:    m.params.FlipWobble,
	}
	m.state = Rotating
	m.interactions++
}

func (m *Machine) startReturn() {
	cur := m.body.Transform()
	m.anim = &AnimationTarget{
		Kind:      AnimReturn,
		Start:     cur,
		End:       dynamo.RestPose(m.params.IdleHeight),
		StartTime: m.clock,
		Duration:  m.params.ReturnDuration,
		Easing:    easing.CubicOut,
	}
	m.state = Returning
	m.interactions++
}

func (m *Machine) flipYaw() float64 {
	if m.flipped {
		return math.Pi
	}
	return 0
}

// Update advances the machine by dt seconds: continuous target, physics
// step, then the active animation, which overrides the components it owns.
func (m *Machine) Update(dt float64) {
	if !dynamo.Finite(dt) || dt <= 0 {
		return
	}
	m.clock += dt
	if m.state == Idle && m.autoRotate {
		m.autoYaw += m.params.AutoRotateSpeed * dt
	}

	mode := physics.ModeSpring
	if m.state.Resting() {
		mode = physics.ModeFreeFall
	}
	m.body.Step(m.target(), dt, mode)

	if m.anim == nil {
		return
	}
	m.anim.Elapsed += dt
	p := m.anim.Progress()
	m.body.Pin(m.anim.Pose(p), m.anim.Mask())
	if p >= 1 {
		m.complete()
	}
}

func (m *Machine) target() dynamo.Transform {
	p := m.params
	t := m.clock
	switch m.state {
	case Lifted, Rotating:
		tr := dynamo.RestPose(p.LiftHeight + p.LiftFloatAmplitude*math.Sin(t*p.LiftFloatFrequency))
		tr.Rotation = mgl64.Vec3{
			dynamo.Clamp(m.pointer[1]*p.MaxTiltX, -p.MaxTiltX, p.MaxTiltX),
			dynamo.Clamp(m.pointer[0]*p.MaxTiltY, -p.MaxTiltY, p.MaxTiltY) + m.flipYaw(),
			0,
		}
		tr.Scale = p.LiftScale
		return tr
	case Returning:
		return dynamo.RestPose(p.IdleHeight)
	}

	tr := dynamo.RestPose(p.IdleHeight + p.IdleFloatAmplitude*math.Sin(t*p.IdleFloatFrequency))
	if m.state == Hovered {
		tr.Scale = p.HoverScale
	}
	if m.autoRotate {
		tr.Rotation[1] = dynamo.WrapAngle(m.autoYaw, m.body.Transform().Rotation[1])
	}
	return tr
}

func (m *Machine) complete() {
	a := m.anim
	m.anim = nil

	switch a.Kind {
	case AnimLift:
		m.log.Debug("lift complete")
	case AnimFlip:
		m.flipped = !m.flipped
		end := a.End
		end.Rotation[1] = dynamo.WrapAngle(end.Rotation[1], m.flipYaw())
		m.body.Pin(end, physics.Rotation)
		m.state = Lifted
		m.emit(CardFlipped)
		m.spawner.RequestSpawn(SpawnRequest{Effect: EffectBurst, Position: m.body.Transform().Position})
	case AnimReturn:
		m.state = Idle
		m.flipped = false
		m.autoYaw = 0
		m.emit(CardReturned)
	}
}
