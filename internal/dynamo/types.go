package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the rigid pose of the interactive object.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler XYZ, radians
	Scale    float64
}

// RestPose returns an unrotated, unit-scale transform at height y.
func RestPose(y float64) Transform {
	return Transform{
		Position: mgl64.Vec3{0, y, 0},
		Scale:    1,
	}
}

func (t Transform) IsValid() bool {
	return FiniteVec(t.Position) && FiniteVec(t.Rotation) && Finite(t.Scale)
}

// Lerp interpolates every component of t toward to by f.
func (t Transform) Lerp(to Transform, f float64) Transform {
	return Transform{
		Position: LerpVec(t.Position, to.Position, f),
		Rotation: LerpVec(t.Rotation, to.Rotation, f),
		Scale:    Lerp(t.Scale, to.Scale, f),
	}
}

func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func FiniteVec(v mgl64.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// SanitizeVec replaces each non-finite component of v with the matching
// component of fallback. ok is false if anything was replaced.
func SanitizeVec(v, fallback mgl64.Vec3) (out mgl64.Vec3, ok bool) {
	ok = true
	for i := range v {
		if Finite(v[i]) {
			out[i] = v[i]
			continue
		}
		out[i] = fallback[i]
		ok = false
	}
	return out, ok
}

// SanitizeScalar returns fallback when v is not finite.
func SanitizeScalar(v, fallback float64) (float64, bool) {
	if Finite(v) {
		return v, true
	}
	return fallback, false
}

// ClampLength scales v down so that |v| <= max.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func LerpVec(a, b mgl64.Vec3, f float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}

// WrapAngle maps a to the representative nearest ref, i.e. a + 2πk with
// |result - ref| <= π.
func WrapAngle(a, ref float64) float64 {
	return a - 2*math.Pi*math.Round((a-ref)/(2*math.Pi))
}
