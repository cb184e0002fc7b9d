package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SteerVelocity moves the horizontal part of current toward target using a
// snappiness gain. Vertical velocity is left alone.
func SteerVelocity(current, target mgl64.Vec3, snappiness, dt float64) mgl64.Vec3 {
	delta := target.Sub(current)
	delta[1] = 0
	return current.Add(delta.Mul(mgl64.Clamp(snappiness*dt, 0, 1)))
}

// ClampLength scales v down so its length does not exceed max.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if v.LenSqr() > max*max {
		return v.Normalize().Mul(max)
	}
	return v
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Reflect mirrors dir about the surface with the given unit normal.
func Reflect(dir, normal mgl64.Vec3) mgl64.Vec3 {
	return dir.Sub(normal.Mul(2 * dir.Dot(normal)))
}

// AngleAroundAxis returns the signed angle in degrees from dirA to dirB,
// measured in the plane orthogonal to axis.
func AngleAroundAxis(dirA, dirB, axis mgl64.Vec3) float64 {
	axis = axis.Normalize()
	dirA = dirA.Sub(axis.Mul(dirA.Dot(axis)))
	dirB = dirB.Sub(axis.Mul(dirB.Dot(axis)))
	if dirA.Len() < mgl64.Epsilon || dirB.Len() < mgl64.Epsilon {
		return 0
	}

	cos := mgl64.Clamp(dirA.Normalize().Dot(dirB.Normalize()), -1, 1)
	angle := mgl64.RadToDeg(math.Acos(cos))
	if axis.Dot(dirA.Cross(dirB)) < 0 {
		return -angle
	}
	return angle
}

// TurnToward rotates yaw-only rotation q toward dir at an angular velocity of
// angle*smoothing radians per second, never overshooting dir.
func TurnToward(q mgl64.Quat, dir mgl64.Vec3, smoothing, dt float64) mgl64.Quat {
	angle := AngleAroundAxis(q.Rotate(Forward), dir, Up)
	if angle == 0 {
		return q
	}
	step := angle * smoothing * dt
	limit := mgl64.DegToRad(math.Abs(angle))
	step = mgl64.Clamp(step, -limit, limit)
	return mgl64.QuatRotate(step, Up).Mul(q).Normalize()
}
