// Package physics advances the card's rigid transform toward a target.
//
// Two modes are provided by [Integrator.Advance]:
//
//   - [ModeSpring]: spring-damper pull on position, rotation and scale,
//     used while the card is held or choreographed
//   - [ModeFreeFall]: gravity, friction and a settle bounce on the vertical
//     axis, used while the card rests on its stand
//
// Constants are expressed per reference frame (1/ReferenceRate seconds) and
// every step clamps linear and angular velocity, so a target that jumps
// arbitrarily far in one frame moves the body by a bounded amount.
//
//	in := physics.NewIntegrator(physics.DefaultParams(), rand.New(rand.NewSource(1)))
//	body := physics.NewBody(in, dynamo.RestPose(1.5))
//	body.Step(target, 1.0/60, physics.ModeSpring)
package physics
