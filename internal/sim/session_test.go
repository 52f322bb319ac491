package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/particles"
	"github.com/san-kum/cardsim/internal/sim"
)

const frame = 1.0 / 60

func kinds(ns []card.Notification) []card.Kind {
	out := make([]card.Kind, len(ns))
	for i, n := range ns {
		out[i] = n.Kind
	}
	return out
}

func advance(s *sim.Session, seconds float64) []card.Notification {
	var ns []card.Notification
	for i := 0; i < int(math.Round(seconds/frame)); i++ {
		ns = append(ns, s.Tick(frame).Notifications...)
	}
	return ns
}

func liftAndSettle(s *sim.Session) {
	Expect(s.Handle(sim.Tap())).To(BeTrue())
	advance(s, 1)
	Expect(s.Machine().State()).To(Equal(card.Lifted))
	_, animating := s.Machine().Animation()
	Expect(animating).To(BeFalse())
}

var _ = Describe("Session", func() {
	var (
		s   *sim.Session
		cfg sim.Config
	)

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		var err error
		s, err = sim.NewSession(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts with the ambient population for its quality", func() {
		snap := s.Tick(frame)
		Expect(snap.State).To(Equal(card.Idle))
		Expect(s.Pool().CountOf(particles.Ambient)).To(Equal(cfg.Ambient.High))
		Expect(snap.Particles.Count).To(Equal(s.Pool().Len()))
		Expect(snap.Particles.Positions).To(HaveLen(3 * snap.Particles.Count))
	})

	It("rejects an invalid config", func() {
		bad := sim.DefaultConfig()
		bad.MaxFrameDelta = 0
		_, err := sim.NewSession(bad)
		Expect(err).To(HaveOccurred())
	})

	Describe("frame deltas", func() {
		It("clamps long frames", func() {
			snap := s.Tick(5)
			Expect(snap.Time).To(BeNumerically("~", cfg.MaxFrameDelta, 1e-12))
		})

		It("ignores invalid frames", func() {
			for _, dt := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
				snap := s.Tick(dt)
				Expect(snap.Tick).To(BeZero())
				Expect(snap.Time).To(BeZero())
			}
		})
	})

	It("lifts on click and requests particles", func() {
		Expect(s.Handle(sim.Tap())).To(BeTrue())
		snap := s.Tick(frame)
		Expect(snap.State).To(Equal(card.Lifted))
		Expect(kinds(snap.Notifications)).To(Equal([]card.Kind{card.CardLifted, card.ParticleBurst, card.ParticleBurst}))
		Expect(snap.Notifications[1].ParticleType).To(Equal("burst"))
		Expect(snap.Notifications[1].Count).To(Equal(50))
		Expect(snap.Notifications[2].ParticleType).To(Equal("aura"))
		Expect(s.Pool().CountOf(particles.Aura)).To(Equal(80))
	})

	It("returns on click outside", func() {
		liftAndSettle(s)
		Expect(s.Handle(sim.TapOutside())).To(BeTrue())
		ns := advance(s, 1)
		Expect(kinds(ns)).To(ContainElement(card.CardReturned))
		Expect(s.Machine().State()).To(Equal(card.Idle))
	})

	Describe("gestures", func() {
		It("treats a tap as a click", func() {
			s.Handle(sim.Down(400, 300))
			Expect(s.Handle(sim.Up(402, 301))).To(BeTrue())
			snap := s.Tick(frame)
			Expect(snap.State).To(Equal(card.Lifted))

			ks := kinds(snap.Notifications)
			Expect(ks[:3]).To(Equal([]card.Kind{card.GestureDetected, card.AchievementUnlocked, card.CardLifted}))
			Expect(snap.Notifications[0].Gesture).To(Equal("tap"))
			Expect(snap.Notifications[1].Name).To(Equal("first_tap"))
		})

		It("flips on a horizontal swipe and leaves a trail", func() {
			liftAndSettle(s)
			s.Handle(sim.Down(100, 300))
			Expect(s.Handle(sim.Up(500, 320))).To(BeTrue())
			Expect(s.Machine().State()).To(Equal(card.Rotating))
			Expect(s.Pool().CountOf(particles.Trail)).To(Equal(20))
		})

		It("exits on a downward swipe", func() {
			liftAndSettle(s)
			s.Handle(sim.Down(400, 100))
			s.Handle(sim.Up(410, 400))
			Expect(s.Machine().State()).To(Equal(card.Returning))
		})

		It("ignores an upward swipe", func() {
			liftAndSettle(s)
			s.Handle(sim.Down(400, 400))
			s.Handle(sim.Up(410, 100))
			Expect(s.Machine().State()).To(Equal(card.Lifted))
		})

		It("bursts on a diagonal swipe", func() {
			s.Handle(sim.Down(100, 100))
			s.Handle(sim.Up(300, 300))
			Expect(s.Pool().CountOf(particles.Burst)).To(Equal(50))
			Expect(s.Machine().State()).To(Equal(card.Idle))
		})

		It("drops non-finite pointer input", func() {
			Expect(s.Handle(sim.Down(math.NaN(), 1))).To(BeFalse())
			Expect(s.Handle(sim.Move(math.Inf(1), 0))).To(BeFalse())
			Expect(s.Tracker().Active()).To(BeFalse())
		})
	})

	Describe("quality", func() {
		It("switches on keys", func() {
			Expect(s.Handle(sim.Press(sim.KeyQualityLow))).To(BeTrue())
			Expect(s.Quality()).To(Equal(sim.QualityLow))
			Expect(s.Handle(sim.Press(sim.KeyQualityLow))).To(BeFalse())

			snap := s.Tick(frame)
			Expect(kinds(snap.Notifications)).To(Equal([]card.Kind{card.QualityChanged}))
			Expect(snap.Notifications[0].Name).To(Equal("low"))
		})

		It("downgrades from the fps monitor at most once per interval", func() {
			Expect(s.ReportFPS(40)).To(BeTrue())
			Expect(s.Quality()).To(Equal(sim.QualityMedium))

			Expect(s.ReportFPS(20)).To(BeFalse())
			advance(s, cfg.MonitorInterval+0.1)
			Expect(s.ReportFPS(20)).To(BeTrue())
			Expect(s.Quality()).To(Equal(sim.QualityLow))

			advance(s, cfg.MonitorInterval+0.1)
			Expect(s.ReportFPS(120)).To(BeFalse())
			Expect(s.Quality()).To(Equal(sim.QualityLow))
		})
	})

	It("toggles auto-rotate", func() {
		Expect(s.Handle(sim.Press(sim.KeyAutoRotate))).To(BeTrue())
		Expect(s.Machine().AutoRotate()).To(BeTrue())
	})

	It("resets on the reset key", func() {
		liftAndSettle(s)
		s.Handle(sim.Press(sim.KeyReset))
		snap := s.Tick(frame)
		Expect(kinds(snap.Notifications)).To(ContainElement(card.CardReset))
		Expect(snap.State).To(Equal(card.Idle))
	})

	It("notifies observers and metrics every tick", func() {
		var seen int
		s.AddObserver(sim.ObserverFunc(func(sim.Snapshot) { seen++ }))
		advance(s, 0.5)
		Expect(seen).To(Equal(30))
	})

	It("reports stats", func() {
		s.Handle(sim.Tap())
		s.Tick(frame)
		st := s.Stats()
		Expect(st.Interactions).To(Equal(1))
		Expect(st.ParticlesByType).To(HaveKeyWithValue("burst", 50))
		Expect(st.State).To(Equal(card.Lifted))
	})

	Describe("Run", func() {
		script := func() sim.Script {
			return sim.NewSchedule([]sim.Timed{
				{At: 0.1, Input: sim.Enter()},
				{At: 0.5, Input: sim.Tap()},
				{At: 1.5, Input: sim.Press(sim.KeyFlip)},
				{At: 3.0, Input: sim.Press(sim.KeyEscape)},
			})
		}

		It("replays scripted inputs", func() {
			res, err := s.Run(context.Background(), sim.RunConfig{FPS: 60, Duration: 4}, script())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(240))
			Expect(res.Times).To(HaveLen(241))
			Expect(kinds(res.Notifications)).To(ContainElements(
				card.CardHovered, card.CardLifted, card.CardFlipped, card.CardReturned))
			Expect(res.States[len(res.States)-1]).To(Equal(card.Idle))
		})

		It("is deterministic for a seed", func() {
			other, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())

			a, err := s.Run(context.Background(), sim.RunConfig{FPS: 60, Duration: 2}, script())
			Expect(err).NotTo(HaveOccurred())
			b, err := other.Run(context.Background(), sim.RunConfig{FPS: 60, Duration: 2}, script())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Digest).To(Equal(b.Digest))
			Expect(a.Transforms).To(Equal(b.Transforms))
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.Run(ctx, sim.RunConfig{FPS: 60, Duration: 1}, nil)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("rejects a bad run config", func() {
			_, err := s.Run(context.Background(), sim.RunConfig{FPS: 0, Duration: 1}, nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
