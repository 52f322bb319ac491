package card_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/physics"
)

const frame = 1.0 / 60

type recorder struct {
	requests []card.SpawnRequest
}

func (r *recorder) RequestSpawn(req card.SpawnRequest) {
	r.requests = append(r.requests, req)
}

func step(m *card.Machine, seconds float64) {
	for i := 0; i < int(math.Round(seconds/frame)); i++ {
		m.Update(frame)
	}
}

func finishAnimation(m *card.Machine) {
	for i := 0; i < 600; i++ {
		if _, ok := m.Animation(); !ok {
			return
		}
		m.Update(frame)
	}
	Fail("animation never completed")
}

func kinds(ns []card.Notification) []card.Kind {
	out := make([]card.Kind, len(ns))
	for i, n := range ns {
		out[i] = n.Kind
	}
	return out
}

var _ = Describe("Machine", func() {
	var (
		m      *card.Machine
		spawns *recorder
		params card.Params
	)

	BeforeEach(func() {
		params = card.DefaultParams()
		spawns = &recorder{}
		in := physics.NewIntegrator(physics.DefaultParams(), rand.New(rand.NewSource(1)))
		m = card.NewMachine(params, in, card.WithSpawner(spawns))
	})

	It("starts idle at rest height", func() {
		Expect(m.State()).To(Equal(card.Idle))
		Expect(m.Flipped()).To(BeFalse())
		Expect(m.Transform()).To(Equal(dynamo.RestPose(params.IdleHeight)))
	})

	Describe("illegal events", func() {
		It("leaves an idle card untouched", func() {
			before := m.Transform()
			Expect(m.Flip()).To(BeFalse())
			Expect(m.Escape()).To(BeFalse())
			Expect(m.ClickOutside()).To(BeFalse())
			Expect(m.Exit()).To(BeFalse())
			Expect(m.PointerLeave()).To(BeFalse())

			Expect(m.State()).To(Equal(card.Idle))
			Expect(m.Transform()).To(Equal(before))
			Expect(m.Drain()).To(BeEmpty())
		})

		It("ignores clicks while returning", func() {
			m.Click()
			finishAnimation(m)
			m.Escape()
			Expect(m.Click()).To(BeFalse())
			Expect(m.State()).To(Equal(card.Returning))
		})
	})

	Describe("hover", func() {
		It("enters and leaves hovered", func() {
			Expect(m.PointerEnter()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Hovered))
			Expect(kinds(m.Drain())).To(Equal([]card.Kind{card.CardHovered}))

			step(m, 3)
			Expect(m.Transform().Scale).To(BeNumerically("~", params.HoverScale, 1e-3))

			Expect(m.PointerLeave()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Idle))
		})
	})

	Describe("lift", func() {
		It("lifts on click", func() {
			Expect(m.Click()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Lifted))
			Expect(kinds(m.Drain())).To(Equal([]card.Kind{card.CardLifted}))

			Expect(spawns.requests).To(HaveLen(2))
			Expect(spawns.requests[0].Effect).To(Equal(card.EffectBurst))
			Expect(spawns.requests[1].Effect).To(Equal(card.EffectAura))

			finishAnimation(m)
			tr := m.Transform()
			Expect(tr.Position.Y()).To(BeNumerically("~", params.LiftHeight, 1e-9))
			Expect(tr.Scale).To(BeNumerically("~", params.LiftScale, 1e-9))
			Expect(m.State()).To(Equal(card.Lifted))
		})

		It("lifts from hovered", func() {
			m.PointerEnter()
			Expect(m.Click()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Lifted))
		})

		It("tilts toward the pointer once lifted", func() {
			m.Click()
			finishAnimation(m)
			Expect(m.SetPointer(5, -5)).To(BeTrue())
			x, y := m.Pointer()
			Expect(x).To(Equal(1.0))
			Expect(y).To(Equal(-1.0))

			step(m, 3)
			rot := m.Transform().Rotation
			Expect(rot.X()).To(BeNumerically("~", -params.MaxTiltX, 1e-2))
			Expect(rot.Y()).To(BeNumerically("~", params.MaxTiltY, 1e-2))
		})

		It("rejects a non-finite pointer", func() {
			m.SetPointer(0.5, 0.5)
			Expect(m.SetPointer(math.NaN(), 0)).To(BeFalse())
			x, _ := m.Pointer()
			Expect(x).To(Equal(0.5))
		})
	})

	Describe("flip", func() {
		BeforeEach(func() {
			m.Click()
			finishAnimation(m)
			m.Drain()
			spawns.requests = nil
		})

		It("flips a lifted card", func() {
			Expect(m.Click()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Rotating))

			finishAnimation(m)
			Expect(m.State()).To(Equal(card.Lifted))
			Expect(m.Flipped()).To(BeTrue())

			ns := m.Drain()
			Expect(kinds(ns)).To(Equal([]card.Kind{card.CardFlipped}))
			Expect(ns[0].Flipped).To(BeTrue())
			Expect(spawns.requests).To(HaveLen(1))
			Expect(math.Abs(m.Transform().Rotation.Y() - math.Pi)).To(BeNumerically("<", 1e-9))
		})

		It("restores the face after an even number of flips", func() {
			for i := 0; i < 4; i++ {
				Expect(m.Flip()).To(BeTrue())
				finishAnimation(m)
			}
			Expect(m.Flipped()).To(BeFalse())
			Expect(math.Abs(m.Transform().Rotation.Y())).To(BeNumerically("<", 1e-9))
		})

		It("is ignored while already rotating", func() {
			m.Flip()
			Expect(m.Flip()).To(BeFalse())
			Expect(m.Click()).To(BeFalse())
		})
	})

	It("rejects a flip while the lift is still running", func() {
		m.Click()
		m.Update(frame)
		Expect(m.Flip()).To(BeFalse())
		Expect(m.State()).To(Equal(card.Lifted))
	})

	Describe("return", func() {
		It("supersedes a running flip", func() {
			m.Click()
			finishAnimation(m)
			m.Flip()
			step(m, 0.5)
			m.Drain()

			Expect(m.Escape()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Returning))
			anim, ok := m.Animation()
			Expect(ok).To(BeTrue())
			Expect(anim.Kind).To(Equal(card.AnimReturn))

			finishAnimation(m)
			Expect(m.State()).To(Equal(card.Idle))
			Expect(m.Flipped()).To(BeFalse())
			Expect(m.Transform()).To(Equal(dynamo.RestPose(params.IdleHeight)))
			Expect(kinds(m.Drain())).To(Equal([]card.Kind{card.CardReturned}))
		})

		It("returns a flipped card face up", func() {
			m.Click()
			finishAnimation(m)
			m.Flip()
			finishAnimation(m)
			Expect(m.ClickOutside()).To(BeTrue())
			finishAnimation(m)
			Expect(m.Flipped()).To(BeFalse())
			Expect(m.Transform().Rotation.Y()).To(Equal(0.0))
		})

		It("accepts a gesture exit mid-lift", func() {
			m.Click()
			m.Update(frame)
			Expect(m.Exit()).To(BeTrue())
			Expect(m.State()).To(Equal(card.Returning))
		})
	})

	It("resets from any state", func() {
		m.Click()
		step(m, 0.3)
		m.Drain()

		Expect(m.Reset()).To(BeTrue())
		Expect(m.State()).To(Equal(card.Idle))
		Expect(m.Transform()).To(Equal(dynamo.RestPose(params.IdleHeight)))
		Expect(m.Velocity()).To(Equal(physics.Velocity{}))
		_, ok := m.Animation()
		Expect(ok).To(BeFalse())
		Expect(kinds(m.Drain())).To(Equal([]card.Kind{card.CardReset}))
	})

	It("ignores invalid frame deltas", func() {
		before := m.Transform()
		for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			m.Update(dt)
		}
		Expect(m.Clock()).To(Equal(0.0))
		Expect(m.Transform()).To(Equal(before))
	})

	It("stays finite and near its stand while idle", func() {
		m.SetAutoRotate(true)
		step(m, 20)
		tr := m.Transform()
		Expect(tr.IsValid()).To(BeTrue())
		Expect(tr.Position.Y()).To(BeNumerically("~", params.IdleHeight, 0.1))
		Expect(tr.Rotation.Y()).To(BeNumerically(">", 0))
	})

	It("bounds the notification queue", func() {
		for i := 0; i < 1000; i++ {
			m.Notify(card.Notification{Kind: card.GestureDetected, Count: i})
		}
		ns := m.Drain()
		Expect(ns).To(HaveLen(256))
		Expect(ns[0].Count).To(Equal(1000 - 256))
		Expect(m.DroppedNotifications()).To(Equal(uint64(1000 - 256)))
	})
})
