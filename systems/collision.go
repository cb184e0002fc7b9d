package systems

import (
	"math"

	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/tags"
)

// sweepX returns how far obj can move along the TMX x axis by up to dx pixels
// before touching a wall, and whether a wall stopped it.
func sweepX(obj *resolv.Object, dx float64) (float64, bool) {
	if dx == 0 {
		return 0, false
	}
	check := obj.Check(dx, 0, tags.ResolvWall)
	if check == nil {
		return dx, false
	}
	allowed, hit := dx, false
	for _, wall := range check.ObjectsByTags(tags.ResolvWall) {
		if !spansY(obj, wall) {
			continue
		}
		if c := check.ContactWithObject(wall).X(); math.Abs(c) <= math.Abs(allowed) {
			allowed, hit = c, true
		}
	}
	return allowed, hit
}

// sweepY is sweepX along the TMX y axis, which is world Z.
func sweepY(obj *resolv.Object, dy float64) (float64, bool) {
	if dy == 0 {
		return 0, false
	}
	check := obj.Check(0, dy, tags.ResolvWall)
	if check == nil {
		return dy, false
	}
	allowed, hit := dy, false
	for _, wall := range check.ObjectsByTags(tags.ResolvWall) {
		if !spansX(obj, wall) {
			continue
		}
		if c := check.ContactWithObject(wall).Y(); math.Abs(c) <= math.Abs(allowed) {
			allowed, hit = c, true
		}
	}
	return allowed, hit
}

// Cells are coarser than bodies, so a wall sharing a cell may still lie
// beside the path rather than across it.
func spansX(a, b *resolv.Object) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W
}

func spansY(a, b *resolv.Object) bool {
	return a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// overlapping returns the objects carrying tag whose bounds intersect obj.
func overlapping(obj *resolv.Object, tag string) []*resolv.Object {
	check := obj.Check(0, 0, tag)
	if check == nil {
		return nil
	}
	var out []*resolv.Object
	for _, other := range check.ObjectsByTags(tag) {
		if spansX(obj, other) && spansY(obj, other) {
			out = append(out, other)
		}
	}
	return out
}
