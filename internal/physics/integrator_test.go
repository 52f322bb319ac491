package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
)

const frame = 1.0 / 60

func TestModeString(t *testing.T) {
	if ModeSpring.String() != "spring" || ModeFreeFall.String() != "free-fall" {
		t.Errorf("unexpected mode names %q %q", ModeSpring, ModeFreeFall)
	}
	if Mode(9).String() != "unknown" {
		t.Error("expected unknown for out of range mode")
	}
}

func TestSpringConverges(t *testing.T) {
	in := NewIntegrator(DefaultParams(), nil)
	cur := dynamo.RestPose(0)
	target := dynamo.Transform{
		Position: mgl64.Vec3{0.5, 2.8, -0.3},
		Rotation: mgl64.Vec3{0.2, 0.4, 0},
		Scale:    1.1,
	}
	var vel Velocity

	for i := 0; i < 600; i++ {
		cur, vel = in.Advance(cur, target, vel, frame, ModeSpring)
	}

	if d := cur.Position.Sub(target.Position).Len(); d > 1e-3 {
		t.Errorf("position did not converge, distance %f", d)
	}
	if d := cur.Rotation.Sub(target.Rotation).Len(); d > 1e-3 {
		t.Errorf("rotation did not converge, distance %f", d)
	}
	if math.Abs(cur.Scale-target.Scale) > 1e-3 {
		t.Errorf("scale did not converge: %f", cur.Scale)
	}
}

func TestVelocityBounded(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(7))
	in := NewIntegrator(p, rand.New(rand.NewSource(3)))
	cur := dynamo.RestPose(p.IdleHeight)
	var vel Velocity

	for i := 0; i < 2000; i++ {
		target := dynamo.Transform{
			Position: mgl64.Vec3{rng.NormFloat64() * 50, rng.NormFloat64() * 50, rng.NormFloat64() * 50},
			Rotation: mgl64.Vec3{rng.NormFloat64() * 10, rng.NormFloat64() * 10, rng.NormFloat64() * 10},
			Scale:    rng.Float64() * 5,
		}
		if i%17 == 0 {
			target.Position[1] = math.NaN()
			target.Rotation[0] = math.Inf(1)
		}
		mode := ModeSpring
		if i%2 == 0 {
			mode = ModeFreeFall
		}
		cur, vel = in.Advance(cur, target, vel, frame, mode)

		if vel.Linear.Len() > p.MaxVelocity+1e-12 {
			t.Fatalf("step %d: linear speed %f exceeds %f", i, vel.Linear.Len(), p.MaxVelocity)
		}
		if vel.Angular.Len() > p.MaxAngularVelocity+1e-12 {
			t.Fatalf("step %d: angular speed %f exceeds %f", i, vel.Angular.Len(), p.MaxAngularVelocity)
		}
		if !cur.IsValid() {
			t.Fatalf("step %d: transform became non-finite: %+v", i, cur)
		}
	}
}

func TestAdvanceInvalidDelta(t *testing.T) {
	in := NewIntegrator(DefaultParams(), nil)
	cur := dynamo.RestPose(1)
	target := dynamo.RestPose(3)
	vel := Velocity{Linear: mgl64.Vec3{0, 0.05, 0}}

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		got, gotVel := in.Advance(cur, target, vel, dt, ModeSpring)
		if got != cur || gotVel != vel {
			t.Errorf("dt=%v changed state", dt)
		}
	}
}

func TestAdvanceRecoversNonFiniteState(t *testing.T) {
	in := NewIntegrator(DefaultParams(), nil)
	cur := dynamo.Transform{Position: mgl64.Vec3{math.NaN(), 1, 0}, Scale: math.Inf(1)}
	vel := Velocity{Linear: mgl64.Vec3{math.NaN(), 0, 0}}

	got, gotVel := in.Advance(cur, dynamo.RestPose(1.5), vel, frame, ModeSpring)
	if !got.IsValid() {
		t.Errorf("expected finite transform, got %+v", got)
	}
	if !dynamo.FiniteVec(gotVel.Linear) {
		t.Errorf("expected finite velocity, got %v", gotVel.Linear)
	}
}

func TestFreeFallSettlesOnFloor(t *testing.T) {
	p := DefaultParams()
	in := NewIntegrator(p, rand.New(rand.NewSource(1)))
	cur := dynamo.RestPose(3)
	target := dynamo.RestPose(p.IdleHeight)
	var vel Velocity

	for i := 0; i < 3000; i++ {
		cur, vel = in.Advance(cur, target, vel, frame, ModeFreeFall)
		if cur.Position.Y() < p.IdleHeight-1e-9 {
			t.Fatalf("step %d: fell through floor, y=%f", i, cur.Position.Y())
		}
	}

	if math.Abs(cur.Position.Y()-p.IdleHeight) > 0.05 {
		t.Errorf("expected to rest near %f, got %f", p.IdleHeight, cur.Position.Y())
	}
}

func TestFreeFallBounceReflects(t *testing.T) {
	p := DefaultParams()
	in := NewIntegrator(p, rand.New(rand.NewSource(1)))
	cur := dynamo.RestPose(p.IdleHeight + 0.01)
	vel := Velocity{Linear: mgl64.Vec3{0, -0.05, 0}}

	got, gotVel := in.Advance(cur, dynamo.RestPose(p.IdleHeight), vel, frame, ModeFreeFall)

	if got.Position.Y() != p.IdleHeight {
		t.Errorf("expected snap to floor %f, got %f", p.IdleHeight, got.Position.Y())
	}
	if gotVel.Linear.Y() <= 0 {
		t.Errorf("expected upward velocity after bounce, got %f", gotVel.Linear.Y())
	}
	if gotVel.Linear.Y() > 0.05*p.BounceDamping+1e-9 {
		t.Errorf("bounce not damped: %f", gotVel.Linear.Y())
	}
}

func TestFrameRateIndependence(t *testing.T) {
	p := DefaultParams()
	run := func(dt float64, steps int) dynamo.Transform {
		in := NewIntegrator(p, nil)
		cur := dynamo.RestPose(0)
		target := dynamo.RestPose(1)
		var vel Velocity
		for i := 0; i < steps; i++ {
			cur, vel = in.Advance(cur, target, vel, dt, ModeSpring)
		}
		return cur
	}

	a := run(1.0/60, 600)
	b := run(1.0/120, 1200)
	if math.Abs(a.Position.Y()-b.Position.Y()) > 0.01 {
		t.Errorf("60Hz and 120Hz diverged: %f vs %f", a.Position.Y(), b.Position.Y())
	}
}
