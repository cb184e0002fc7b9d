package factory

import (
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/yohamta/donburi"
)

// CreateCamera adds the follow camera. Its bounds cover the arena when one is
// loaded.
func CreateCamera(w donburi.World) *donburi.Entry {
	camera := archetypes.Camera.Spawn(w)
	data := &components.CameraData{}

	if levelEntry, ok := components.Level.First(w); ok {
		if arena := components.Level.Get(levelEntry).Arena; arena != nil {
			width, depth := arena.WorldSize()
			data.Bounds = &components.CameraBounds{MaxX: width, MaxZ: depth}
		}
	}

	components.Camera.Set(camera, data)
	return camera
}

func CreateJoystick(w donburi.World) *donburi.Entry {
	return archetypes.Joystick.Spawn(w)
}
