package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line starting at Origin.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Point returns the point at distance d along the ray.
func (r Ray) Point(d float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(d))
}

// Plane is the set of points p where Normal·p + Distance = 0.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane builds the plane with the given normal passing through point.
func NewPlane(normal, point mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// Raycast returns the distance along r at which it meets the plane. It reports
// false when the ray is parallel to the plane or points away from it.
func (p Plane) Raycast(r Ray) (float64, bool) {
	denom := r.Direction.Dot(p.Normal)
	if math.Abs(denom) < mgl64.Epsilon {
		return 0, false
	}
	dist := -(r.Origin.Dot(p.Normal) + p.Distance) / denom
	return dist, dist >= 0
}

// PlaneRayIntersection returns where r hits p, if it does.
func PlaneRayIntersection(p Plane, r Ray) (mgl64.Vec3, bool) {
	dist, ok := p.Raycast(r)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return r.Point(dist), true
}
