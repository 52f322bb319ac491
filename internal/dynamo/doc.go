// Package dynamo provides the shared primitives of the card simulation core.
//
// The package defines the small vocabulary every other simulation package
// speaks:
//
//   - [Transform]: position, Euler rotation and uniform scale of a body
//   - vector helpers on [mgl64.Vec3] (clamping, lerping, finite checks)
//   - [TrigTable]: precomputed sin lookup used by per-particle drift
//   - sentinel errors for rejected input
//
// # Non-finite input
//
// Nothing in the core propagates NaN or Inf. Values that fail [Finite] are
// replaced by a caller-supplied fallback via [SanitizeVec] and reported with
// [ErrNonFinite].
//
// # Thread Safety
//
// All types here are plain values. Sessions built on them are single-threaded.
package dynamo
