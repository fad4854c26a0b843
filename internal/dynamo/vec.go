package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a planar vector in kernel coordinates (y up).
type Vec2 = mgl64.Vec2

// epsilon is the length below which directions are treated as undefined.
const epsilon = 1e-9

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{x, y} }

// Cross returns the z component of a x b.
func Cross(a, b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

// CrossSV returns s x v, where s is a z-axis scalar.
func CrossSV(s float64, v Vec2) Vec2 { return Vec2{-s * v[1], s * v[0]} }

// Perp returns v rotated by +90 degrees.
func Perp(v Vec2) Vec2 { return Vec2{-v[1], v[0]} }

// Rotate returns v rotated by angle radians about the origin.
func Rotate(v Vec2, angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// normalize returns the unit vector along v and its length; a zero vector
// yields (0, 0), 0.
func normalize(v Vec2) (Vec2, float64) {
	l := v.Len()
	if l < epsilon {
		return Vec2{}, 0
	}
	return v.Mul(1 / l), l
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(v Vec2) bool { return isFinite(v[0], v[1]) }

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
