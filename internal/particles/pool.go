package particles

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/cardsim/internal/dynamo"
	"go.uber.org/zap"
)

type Option func(*Pool)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// Pool owns a fixed-capacity slice of live particles kept in insertion
// order. When full, new spawns evict the oldest.
type Pool struct {
	params Params
	types  map[string]TypeConfig
	rng    *rand.Rand
	log    *zap.Logger

	live  []Particle
	seq   uint64
	clock float64
	buf   Buffer

	evicted uint64
}

func NewPool(params Params, types map[string]TypeConfig, rng *rand.Rand, opts ...Option) *Pool {
	if params.Capacity <= 0 {
		params.Capacity = DefaultParams().Capacity
	}
	if types == nil {
		types = DefaultTypes()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	p := &Pool{
		params: params,
		types:  types,
		rng:    rng,
		log:    zap.NewNop(),
		live:   make([]Particle, 0, params.Capacity),
	}
	for _, o := range opts {
		o(p)
	}
	p.rebuild()
	return p
}

func (p *Pool) Params() Params { return p.params }
func (p *Pool) Len() int       { return len(p.live) }
func (p *Pool) Cap() int       { return p.params.Capacity }

// Evicted returns how many live particles were dropped to make room.
func (p *Pool) Evicted() uint64 { return p.evicted }

// Particles returns the live particles, oldest first. The slice is owned by
// the pool and only valid until the next mutation.
func (p *Pool) Particles() []Particle { return p.live }

// Buffer returns the render buffer for the current contents. It is reused
// across ticks; callers keeping it must Clone.
func (p *Pool) Buffer() Buffer { return p.buf }

func (p *Pool) Type(name string) (TypeConfig, error) {
	cfg, ok := p.types[name]
	if !ok {
		return TypeConfig{}, fmt.Errorf("%q: %w", name, ErrUnknownType)
	}
	return cfg, nil
}

func (p *Pool) Counts() map[Behavior]int {
	out := make(map[Behavior]int, 4)
	for i := range p.live {
		out[p.live[i].Behavior]++
	}
	return out
}

func (p *Pool) CountOf(b Behavior) int {
	n := 0
	for i := range p.live {
		if p.live[i].Behavior == b {
			n++
		}
	}
	return n
}

func (p *Pool) Clear() {
	p.live = p.live[:0]
	p.rebuild()
}

// Spawn adds count particles of cfg. A nil origin scatters them over the
// spawn extent; a nil velocity draws ±Speed/2 per axis. Returns the number
// spawned.
func (p *Pool) Spawn(cfg TypeConfig, count int, origin, velocity *mgl64.Vec3) int {
	return p.spawn(cfg, count, func() (mgl64.Vec3, mgl64.Vec3) {
		var pos, vel mgl64.Vec3
		if origin != nil {
			pos = *origin
		} else {
			ext := p.params.SpawnExtent
			pos = mgl64.Vec3{
				(p.rng.Float64() - 0.5) * ext[0],
				(p.rng.Float64() - 0.5) * ext[1],
				(p.rng.Float64() - 0.5) * ext[2],
			}
		}
		if velocity != nil {
			vel = *velocity
		} else {
			vel = mgl64.Vec3{
				(p.rng.Float64() - 0.5) * cfg.Speed,
				(p.rng.Float64() - 0.5) * cfg.Speed,
				(p.rng.Float64() - 0.5) * cfg.Speed,
			}
		}
		return pos, vel
	})
}

func (p *Pool) SpawnNamed(name string, count int) (int, error) {
	cfg, err := p.Type(name)
	if err != nil {
		return 0, err
	}
	return p.Spawn(cfg, count, nil, nil), nil
}

// Burst emits count particles from position in random directions at
// 50-100% of cfg.Speed. count <= 0 uses cfg.Count.
func (p *Pool) Burst(position mgl64.Vec3, cfg TypeConfig, count int) int {
	if count <= 0 {
		count = cfg.Count
	}
	return p.spawn(cfg, count, func() (mgl64.Vec3, mgl64.Vec3) {
		theta := p.rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*p.rng.Float64() - 1)
		speed := cfg.Speed * (0.5 + 0.5*p.rng.Float64())
		dir := mgl64.Vec3{
			math.Sin(phi) * math.Cos(theta),
			math.Cos(phi),
			math.Sin(phi) * math.Sin(theta),
		}
		return position, dir.Mul(speed)
	})
}

// Aura scatters count particles in a shell of radius 0.5-1.5 around center.
func (p *Pool) Aura(center mgl64.Vec3, cfg TypeConfig, count int) int {
	if count <= 0 {
		count = cfg.Count
	}
	return p.spawn(cfg, count, func() (mgl64.Vec3, mgl64.Vec3) {
		theta := p.rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*p.rng.Float64() - 1)
		r := 0.5 + p.rng.Float64()
		off := mgl64.Vec3{
			math.Sin(phi) * math.Cos(theta),
			math.Cos(phi),
			math.Sin(phi) * math.Sin(theta),
		}.Mul(r)
		vel := mgl64.Vec3{
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.1,
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.1,
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.1,
		}
		return center.Add(off), vel
	})
}

// Trail lays count trail particles evenly along start→end. count <= 0 uses
// the trail type's Count.
func (p *Pool) Trail(start, end mgl64.Vec3, count int) int {
	cfg, err := p.Type("trail")
	if err != nil {
		p.log.Debug("trail type not configured")
		return 0
	}
	if count <= 0 {
		count = cfg.Count
	}
	i := 0
	return p.spawn(cfg, count, func() (mgl64.Vec3, mgl64.Vec3) {
		f := 0.0
		if count > 1 {
			f = float64(i) / float64(count-1)
		}
		i++
		vel := mgl64.Vec3{
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.2,
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.2,
			(p.rng.Float64() - 0.5) * cfg.Speed * 0.2,
		}
		return dynamo.LerpVec(start, end, f), vel
	})
}

func (p *Pool) spawn(cfg TypeConfig, count int, place func() (mgl64.Vec3, mgl64.Vec3)) int {
	if count <= 0 || cfg.Lifetime <= 0 || !dynamo.Finite(cfg.Lifetime) {
		return 0
	}
	capacity := p.params.Capacity
	skip := 0
	if count > capacity {
		skip = count - capacity
	}

	if over := len(p.live) + count - skip - capacity; over > 0 {
		n := copy(p.live, p.live[over:])
		p.live = p.live[:n]
		p.evicted += uint64(over)
		p.log.Debug("particle pool full, evicting oldest", zap.Int("evicted", over), zap.String("type", cfg.Name))
	}

	spawned := 0
	for i := 0; i < count; i++ {
		pos, vel := place()
		if i < skip {
			continue
		}
		var ok bool
		if pos, ok = dynamo.SanitizeVec(pos, mgl64.Vec3{}); !ok {
			p.log.Warn("non-finite spawn position", zap.Error(dynamo.ErrNonFinite))
		}
		vel, _ = dynamo.SanitizeVec(vel, mgl64.Vec3{})
		p.live = append(p.live, p.newParticle(cfg, pos, vel))
		spawned++
	}
	p.rebuild()
	return spawned
}

func (p *Pool) newParticle(cfg TypeConfig, pos, vel mgl64.Vec3) Particle {
	p.seq++
	color := cfg.Color
	if p.rng.Float64() < p.params.JitterChance {
		h, s, l := color.Hsl()
		h += (p.rng.Float64()*2 - 1) * p.params.HueJitter * 360
		h = math.Mod(h+360, 360)
		color = colorful.Hsl(h, s, l).Clamped()
	}
	return Particle{
		Position:         pos,
		Velocity:         vel,
		Color:            color,
		Size:             cfg.Size * (0.8 + 0.4*p.rng.Float64()),
		BaseOpacity:      cfg.Opacity,
		Opacity:          cfg.Opacity,
		Lifetime:         cfg.Lifetime,
		MaxLifetime:      cfg.Lifetime,
		Behavior:         cfg.Behavior,
		FollowsAttractor: cfg.FollowsAttractor,
		Rotation:         p.rng.Float64() * 2 * math.Pi,
		RotationSpeed:    (p.rng.Float64() - 0.5) * 1.2,
		Seq:              p.seq,
	}
}

// Tick advances every particle by dt seconds and returns the live count.
// Expired and non-finite particles are compacted out in place.
func (p *Pool) Tick(dt float64, attractor mgl64.Vec3, active bool) int {
	if !dynamo.Finite(dt) || dt <= 0 {
		return len(p.live)
	}
	if !dynamo.FiniteVec(attractor) {
		active = false
	}
	prm := p.params
	p.clock += dt
	frames := dt * prm.ReferenceRate
	pull := 1 - math.Pow(1-prm.AttractLerp, frames)
	damp := math.Pow(prm.Damping, frames)

	w := 0
	for i := range p.live {
		pt := p.live[i]

		pt.Lifetime -= dt
		if pt.Lifetime <= 0 {
			continue
		}

		if age := pt.Age(); age > prm.FadeStart {
			pt.Opacity = pt.BaseOpacity * math.Max(0, 1-(age-prm.FadeStart)/(1-prm.FadeStart))
		} else {
			pt.Opacity = pt.BaseOpacity
		}

		pt.Position = pt.Position.Add(pt.Velocity.Mul(dt))
		pt.Rotation += pt.RotationSpeed * dt

		if pt.Behavior == Ambient {
			pt.Velocity[1] += dynamo.FastSin(p.clock+float64(i)) * prm.DriftAccel * dt
		}

		if pt.FollowsAttractor && active {
			to := attractor.Sub(pt.Position)
			d := to.Len()
			switch {
			case d > prm.AttractRadius:
				pt.Velocity = dynamo.LerpVec(pt.Velocity, to.Mul(prm.AttractGain), pull)
			case d < prm.OrbitRadius:
				perp := mgl64.Vec3{-to[2], 0, to[0]}
				if l := perp.Len(); l > 1e-9 {
					pt.Velocity = pt.Velocity.Add(perp.Mul(prm.OrbitImpulse * dt / l))
				}
			}
		}

		if r := pt.Position.Len(); r > prm.BoundaryRadius {
			n := pt.Position.Mul(1 / r)
			if vn := pt.Velocity.Dot(n); vn > 0 {
				pt.Velocity = pt.Velocity.Sub(n.Mul(2 * vn)).Mul(prm.Restitution)
			}
		}

		pt.Velocity = dynamo.ClampLength(pt.Velocity.Mul(damp), prm.MaxSpeed)

		if !dynamo.FiniteVec(pt.Position) || !dynamo.FiniteVec(pt.Velocity) {
			continue
		}
		p.live[w] = pt
		w++
	}
	p.live = p.live[:w]
	p.rebuild()
	return w
}

func (p *Pool) rebuild() {
	p.buf.reset()
	for i := range p.live {
		p.buf.push(&p.live[i])
	}
}
