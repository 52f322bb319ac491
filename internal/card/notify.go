package card

import "github.com/go-gl/mathgl/mgl64"

type Kind string

const (
	CardLifted          Kind = "card-lifted"
	CardFlipped         Kind = "card-flipped"
	CardReturned        Kind = "card-returned"
	CardReset           Kind = "card-reset"
	CardHovered         Kind = "card-hovered"
	GestureDetected     Kind = "gesture-detected"
	ParticleBurst       Kind = "particle-burst"
	AchievementUnlocked Kind = "achievement-unlocked"
	QualityChanged      Kind = "quality-changed"
)

// Notification is an outbound event. Only the fields relevant to Kind are
// set.
type Notification struct {
	Kind Kind
	Time float64

	Flipped      bool
	Gesture      string
	Position     mgl64.Vec3
	ParticleType string
	Count        int
	Name         string
}

const outboxCap = 256

// outbox is a bounded FIFO; when full the oldest notification is dropped.
type outbox struct {
	buf     []Notification
	head    int
	n       int
	dropped uint64
}

func newOutbox(capacity int) *outbox {
	return &outbox{buf: make([]Notification, capacity)}
}

func (o *outbox) push(n Notification) {
	if o.n == len(o.buf) {
		o.head = (o.head + 1) % len(o.buf)
		o.n--
		o.dropped++
	}
	o.buf[(o.head+o.n)%len(o.buf)] = n
	o.n++
}

func (o *outbox) drain() []Notification {
	if o.n == 0 {
		return nil
	}
	out := make([]Notification, o.n)
	for i := range out {
		out[i] = o.buf[(o.head+i)%len(o.buf)]
	}
	o.head, o.n = 0, 0
	return out
}

// Effect names a particle effect the machine can request.
type Effect string

const (
	EffectBurst Effect = "burst"
	EffectAura  Effect = "aura"
)

type SpawnRequest struct {
	Effect   Effect
	Position mgl64.Vec3
	Count    int // 0 = type default
}

// Spawner receives fire-and-forget particle requests.
type Spawner interface {
	RequestSpawn(SpawnRequest)
}

type nopSpawner struct{}

func (nopSpawner) RequestSpawn(SpawnRequest) {}
