package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

// Transform is a position plus orientation in world space. Y is up and +Z is
// the local forward axis.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform returns a transform at pos with the identity rotation.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Forward returns the transform's forward direction.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(Forward)
}

// Distance returns the positional distance between two transforms.
func (t Transform) Distance(other Transform) float64 {
	return t.Position.Sub(other.Position).Len()
}

// LerpVec3 moves a toward b by t, where t is clamped to [0, 1].
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = mgl64.Clamp(t, 0, 1)
	if a == b || t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return a.Add(b.Sub(a).Mul(t))
}

// LerpQuat is a normalized lerp along the shortest arc from a toward b.
func LerpQuat(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = mgl64.Clamp(t, 0, 1)
	if a == b || t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatNlerp(a, b, t)
}

// LerpTransform blends position and rotation by the same factor.
func LerpTransform(a, b Transform, t float64) Transform {
	return Transform{
		Position: LerpVec3(a.Position, b.Position, t),
		Rotation: LerpQuat(a.Rotation, b.Rotation, t),
	}
}

// YawRotation returns the rotation about Up that faces dir, ignoring its
// vertical component. A horizontal zero vector yields the identity.
func YawRotation(dir mgl64.Vec3) mgl64.Quat {
	if math.Abs(dir.X()) < mgl64.Epsilon && math.Abs(dir.Z()) < mgl64.Epsilon {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(dir.X(), dir.Z()), Up)
}

// Yaw returns the heading of q in radians around Up.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return math.Atan2(f.X(), f.Z())
}
