package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/yohamta/donburi"
)

func CreateSpace(w donburi.World, width, height, cellWidth, cellHeight int) *donburi.Entry {
	space := archetypes.Space.Spawn(w)
	spaceData := resolv.NewSpace(width, height, cellWidth, cellHeight)
	components.Space.Set(space, spaceData)
	return space
}

// newBody creates a square collision body of size world units centred on pos
// and adds it to the arena space, if there is one.
func newBody(w donburi.World, owner *donburi.Entry, pos mgl64.Vec3, size float64, tag string) *resolv.Object {
	px := leveldata.ToPixels(size)
	obj := resolv.NewObject(0, 0, px, px, tag)
	obj.SetShape(resolv.NewRectangle(0, 0, px, px))
	obj.Data = owner
	PlaceBody(obj, pos)

	if spaceEntry, ok := components.Space.First(w); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}
	return obj
}

// PlaceBody centres obj on the world position pos.
func PlaceBody(obj *resolv.Object, pos mgl64.Vec3) {
	obj.X = leveldata.ToPixels(pos.X()) - obj.W/2
	obj.Y = leveldata.ToPixels(pos.Z()) - obj.H/2
	obj.Update()
}

// BodyCenter returns the world position of obj's centre on the ground plane.
func BodyCenter(obj *resolv.Object, height float64) mgl64.Vec3 {
	return mgl64.Vec3{
		leveldata.ToWorld(obj.X + obj.W/2),
		height,
		leveldata.ToWorld(obj.Y + obj.H/2),
	}
}

// RemoveBody takes the entity's collision body out of the arena space.
func RemoveBody(w donburi.World, entry *donburi.Entry) {
	if !entry.HasComponent(components.Object) {
		return
	}
	obj := components.Object.Get(entry).Object
	if obj == nil {
		return
	}
	if spaceEntry, ok := components.Space.First(w); ok {
		components.Space.Get(spaceEntry).Remove(obj)
	}
	components.Object.SetValue(entry, components.ObjectData{})
}
