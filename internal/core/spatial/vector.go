// Package spatial holds the small amount of 3D math the desk needs: vectors and
// quaternions from mathgl, rays, planes, colliders, a pinhole camera and
// frame-rate aware smoothing.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type (
	Vec2 = mgl64.Vec2
	Vec3 = mgl64.Vec3
	Quat = mgl64.Quat
)

// World axes. Y is up and cameras look down +Z in their local frame.
var (
	Up      = Vec3{0, 1, 0}
	Right   = Vec3{1, 0, 0}
	Forward = Vec3{0, 0, 1}
)

const epsilon = 1e-9

func Identity() Quat { return mgl64.QuatIdent() }

// AngleAxis returns a rotation of deg degrees about axis.
func AngleAxis(deg float64, axis Vec3) Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Normalize())
}

// Euler builds a rotation from pitch (about X), yaw (about Y) and roll
// (about Z) in degrees, applied roll first, then pitch, then yaw.
func Euler(pitch, yaw, roll float64) Quat {
	return AngleAxis(yaw, Up).Mul(AngleAxis(pitch, Right)).Mul(AngleAxis(roll, Forward)).Normalize()
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp interpolates along the shorter arc between a and b.
func Slerp(a, b Quat, t float64) Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Len() }

func Clamp(v, lo, hi float64) float64 { return mgl64.Clamp(v, lo, hi) }

// SameRotation reports whether a and b describe the same orientation within eps,
// treating q and -q as equal.
func SameRotation(a, b Quat, eps float64) bool {
	return math.Abs(math.Abs(a.Normalize().Dot(b.Normalize()))-1) <= eps
}

// ApproxEqual compares two vectors component-wise.
func ApproxEqual(a, b Vec3, eps float64) bool {
	return a.ApproxEqualThreshold(b, eps)
}
