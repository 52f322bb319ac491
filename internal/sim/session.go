package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/gesture"
	"github.com/san-kum/cardsim/internal/particles"
	"github.com/san-kum/cardsim/internal/physics"
	"go.uber.org/zap"
)

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is one explicitly owned simulation context: a card, its particle
// pool and the gesture tracker. It is not safe for concurrent use.
type Session struct {
	cfg Config
	log *zap.Logger

	machine *card.Machine
	pool    *particles.Pool
	tracker *gesture.Tracker

	quality      Quality
	tick         uint64
	clock        float64
	fpsChecked   bool
	lastFPSCheck float64

	metrics   []Metric
	observers []Observer
}

func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		log:     zap.NewNop(),
		quality: cfg.Quality,
	}
	for _, o := range opts {
		o(s)
	}

	integrator := physics.NewIntegrator(cfg.Physics, rand.New(rand.NewSource(cfg.Seed)))
	s.pool = particles.NewPool(cfg.Particles, cfg.Types, rand.New(rand.NewSource(cfg.Seed^0x5eed)),
		particles.WithLogger(s.log.Named("particles")))
	s.machine = card.NewMachine(cfg.Card, integrator,
		card.WithLogger(s.log.Named("card")),
		card.WithSpawner(spawner{s}))
	s.tracker = gesture.NewTracker(cfg.Gesture, cfg.GestureTimeout)

	if _, err := s.pool.SpawnNamed("ambient", cfg.Ambient.Ambient(s.quality)); err != nil {
		return nil, err
	}
	s.log.Debug("session created", zap.Int64("seed", cfg.Seed), zap.Stringer("quality", s.quality))
	return s, nil
}

func (s *Session) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Session) Config() Config            { return s.cfg }
func (s *Session) Machine() *card.Machine    { return s.machine }
func (s *Session) Pool() *particles.Pool     { return s.pool }
func (s *Session) Tracker() *gesture.Tracker { return s.tracker }
func (s *Session) Quality() Quality          { return s.quality }
func (s *Session) Time() float64             { return s.clock }
func (s *Session) TickCount() uint64         { return s.tick }

// Handle applies one input. It returns whether the input changed anything.
func (s *Session) Handle(in Input) bool {
	switch in.Kind {
	case PointerMove, PointerDown, PointerDrag, PointerUp:
		if !dynamo.Finite(in.X) || !dynamo.Finite(in.Y) {
			err := &dynamo.InputError{Tick: s.tick, Time: s.clock, Field: in.Kind.String(), Wrapped: dynamo.ErrNonFinite}
			s.log.Warn("input dropped", zap.Error(err))
			return false
		}
	}

	switch in.Kind {
	case PointerMove:
		return s.machine.SetPointer(in.X, in.Y)
	case PointerEnter:
		return s.machine.PointerEnter()
	case PointerLeave:
		s.tracker.Cancel()
		return s.machine.PointerLeave()
	case PointerDown:
		return s.tracker.Begin(gesture.Point{X: in.X, Y: in.Y}, s.clock)
	case PointerDrag:
		return s.onGesture(s.tracker.Move(gesture.Point{X: in.X, Y: in.Y}, s.clock))
	case PointerUp:
		return s.onGesture(s.tracker.End(gesture.Point{X: in.X, Y: in.Y}, s.clock))
	case Click:
		if in.Outside {
			return s.machine.ClickOutside()
		}
		return s.machine.Click()
	case KeyPress:
		return s.handleKey(in.Key)
	}
	s.log.Debug("unknown input", zap.Stringer("kind", in.Kind))
	return false
}

func (s *Session) handleKey(k Key) bool {
	switch k {
	case KeyFlip:
		return s.machine.Flip()
	case KeyEscape:
		return s.machine.Escape()
	case KeyReset:
		return s.machine.Reset()
	case KeyQualityLow:
		return s.SetQuality(QualityLow)
	case KeyQualityMedium:
		return s.SetQuality(QualityMedium)
	case KeyQualityHigh:
		return s.SetQuality(QualityHigh)
	case KeyAutoRotate:
		s.machine.SetAutoRotate(!s.machine.AutoRotate())
		return true
	}
	s.log.Debug("unknown key", zap.String("key", string(k)))
	return false
}

func (s *Session) onGesture(res gesture.Result) bool {
	if res.Label == gesture.None {
		return false
	}
	s.machine.Notify(card.Notification{Kind: card.GestureDetected, Time: s.clock, Gesture: string(res.Label)})
	for _, name := range res.Unlocked {
		s.machine.Notify(card.Notification{Kind: card.AchievementUnlocked, Time: s.clock, Name: name})
		s.log.Info("achievement unlocked", zap.String("name", name))
	}

	state := s.machine.State()
	switch res.Label {
	case gesture.Tap:
		s.machine.Click()
	case gesture.VerticalSwipe:
		if res.End.Y > res.Start.Y && state.Raised() {
			s.machine.Exit()
		}
	case gesture.HorizontalSwipe:
		if state == card.Lifted {
			s.machine.Flip()
		}
	case gesture.DiagonalSwipe:
		s.spawn(card.SpawnRequest{Effect: card.EffectBurst, Position: s.machine.Transform().Position})
	}

	if res.Label.IsSwipe() {
		s.pool.Trail(s.toWorld(res.Start), s.toWorld(res.End), 0)
	}
	return true
}

// toWorld projects a pixel position onto the plane through the card.
func (s *Session) toWorld(p gesture.Point) mgl64.Vec3 {
	vp := s.cfg.Viewport
	nx := p.X/vp.Width*2 - 1
	ny := 1 - p.Y/vp.Height*2
	at := s.machine.Transform().Position
	return mgl64.Vec3{
		nx * vp.WorldWidth / 2,
		at[1] + ny*vp.WorldHeight/2,
		at[2],
	}
}

type spawner struct{ s *Session }

func (sp spawner) RequestSpawn(req card.SpawnRequest) { sp.s.spawn(req) }

func (s *Session) spawn(req card.SpawnRequest) {
	name := string(req.Effect)
	cfg, err := s.pool.Type(name)
	if err != nil {
		s.log.Warn("spawn skipped", zap.Error(err))
		return
	}
	var n int
	switch req.Effect {
	case card.EffectAura:
		n = s.pool.Aura(req.Position, cfg, req.Count)
	default:
		n = s.pool.Burst(req.Position, cfg, req.Count)
	}
	s.machine.Notify(card.Notification{
		Kind:         card.ParticleBurst,
		Time:         s.clock,
		Position:     req.Position,
		ParticleType: name,
		Count:        n,
	})
}

// Tick advances the session by dt seconds and returns the resulting
// snapshot. dt is clamped to MaxFrameDelta; non-positive or non-finite
// deltas leave the session untouched.
func (s *Session) Tick(dt float64) Snapshot {
	if !dynamo.Finite(dt) || dt <= 0 {
		s.log.Debug("frame skipped", zap.Error(&dynamo.InputError{Tick: s.tick, Time: s.clock, Field: "dt", Wrapped: dynamo.ErrInvalidDelta}))
		return s.snapshot(nil)
	}
	dt = math.Min(dt, s.cfg.MaxFrameDelta)
	s.tick++
	s.clock += dt

	s.machine.Update(dt)
	pos := s.machine.Transform().Position
	s.pool.Tick(dt, pos, s.machine.State().Raised())
	s.replenish()

	snap := s.snapshot(s.machine.Drain())
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, o := range s.observers {
		o.OnSnapshot(snap)
	}
	return snap
}

func (s *Session) replenish() {
	want := s.cfg.Ambient.Ambient(s.quality)
	have := s.pool.CountOf(particles.Ambient)
	if have >= want || s.cfg.AmbientTopUp == 0 {
		return
	}
	n := min(want-have, s.cfg.AmbientTopUp)
	if _, err := s.pool.SpawnNamed("ambient", n); err != nil {
		s.log.Warn("ambient top-up failed", zap.Error(err))
	}
}

func (s *Session) snapshot(ns []card.Notification) Snapshot {
	return Snapshot{
		Tick:          s.tick,
		Time:          s.clock,
		State:         s.machine.State(),
		Flipped:       s.machine.Flipped(),
		Transform:     s.machine.Transform(),
		Quality:       s.quality,
		Particles:     s.pool.Buffer().Clone(),
		Notifications: ns,
	}
}

func (s *Session) Stats() Stats {
	byType := make(map[string]int)
	for b, n := range s.pool.Counts() {
		byType[b.String()] = n
	}
	return Stats{
		Tick:            s.tick,
		Time:            s.clock,
		State:           s.machine.State(),
		Quality:         s.quality,
		Particles:       s.pool.Len(),
		ParticlesByType: byType,
		Evicted:         s.pool.Evicted(),
		Interactions:    s.machine.Interactions(),
		Gestures:        len(s.tracker.Detected()),
		Achievements:    s.tracker.Achievements(),
	}
}
