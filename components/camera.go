package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// CameraBounds limits the camera position on the ground plane.
type CameraBounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

type CameraData struct {
	Position mgl64.Vec3
	Target   *donburi.Entry // Followed entity, nil when none
	Bounds   *CameraBounds
}

var Camera = donburi.NewComponentType[CameraData]()
