package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// JoystickData is the virtual stick state. Value is in [-1, 1] on both axes
// with +Y meaning screen up.
type JoystickData struct {
	Value       mgl64.Vec2
	IsCaptured  bool
	IsActivated bool

	Root    mgl64.Vec2 // Screen position the drag is measured from
	Dragged bool       // The current touch has moved the stick
}

var Joystick = donburi.NewComponentType[JoystickData]()

// MoveControllerData maps stick input onto the local tank's motor.
type MoveControllerData struct {
	Enabled  bool // Only the local participant's tank reads input
	Inverted bool // Second participant views the arena from the far side
}

var MoveController = donburi.NewComponentType[MoveControllerData]()
