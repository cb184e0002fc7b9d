package factory

import (
	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
)

// CreateWall adds a solid wall tile. Coordinates are TMX pixels.
func CreateWall(w donburi.World, x, y, width, height float64) *donburi.Entry {
	wall := archetypes.Wall.Spawn(w)

	obj := resolv.NewObject(x, y, width, height, tags.ResolvWall)
	obj.SetShape(resolv.NewRectangle(0, 0, width, height))
	obj.Data = wall // Link for O(1) lookup

	components.Object.SetValue(wall, components.ObjectData{Object: obj})

	if spaceEntry, ok := components.Space.First(w); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}

	return wall
}
