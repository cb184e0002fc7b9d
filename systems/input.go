package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/yohamta/donburi"
)

// ground is the arena floor that clicks are projected onto.
var ground = gamemath.NewPlane(gamemath.Up, mgl64.Vec3{})

func joystick(w donburi.World) (*components.JoystickData, bool) {
	entry, ok := components.Joystick.First(w)
	if !ok {
		return nil, false
	}
	return components.Joystick.Get(entry), true
}

// PressJoystick starts a touch. Whether it becomes a drag or a click is
// decided by what follows.
func PressJoystick(w donburi.World) {
	if j, ok := joystick(w); ok {
		j.Dragged = false
	}
}

// DragJoystick moves the touch to pos. The first drag captures the stick at
// pos; later drags deflect it, pulling the root along once the deflection
// exceeds the maximum offset.
func DragJoystick(w donburi.World, pos mgl64.Vec2) {
	j, ok := joystick(w)
	if !ok {
		return
	}
	j.Dragged = true

	if !j.IsCaptured {
		j.Root = pos
		j.IsCaptured = true
		return
	}

	// Screen y grows downward; stick y is positive up.
	offset := pos.Sub(j.Root)
	offset[1] = -offset[1]

	maxOffset := cfg.Joystick.MaxOffset
	magnitude := offset.Len()
	if magnitude > maxOffset {
		excess := offset.Sub(offset.Normalize().Mul(maxOffset))
		j.Root = j.Root.Add(mgl64.Vec2{excess.X(), -excess.Y()})
		offset = offset.Normalize().Mul(maxOffset)
	}

	percentage := magnitude / maxOffset
	if magnitude > 0 {
		j.Value = offset.Normalize().Mul(evaluateCurve(percentage))
	} else {
		j.Value = mgl64.Vec2{}
	}
	j.IsActivated = percentage > cfg.Joystick.ActivationValue

	MoveInput.Publish(w, MoveInputEvent{Value: j.Value, Activated: j.IsActivated})
}

// ReleaseJoystick ends a drag. An activated stick applies its action first.
func ReleaseJoystick(w donburi.World) {
	j, ok := joystick(w)
	if !ok || !j.Dragged {
		return
	}

	if j.Value.Len() > cfg.Joystick.ActivationValue {
		ActionApplied.Publish(w, ActionAppliedEvent{Direction: j.Value})
	}

	j.Value = mgl64.Vec2{}
	j.IsCaptured = false
	j.IsActivated = false
	MoveInput.Publish(w, MoveInputEvent{})
}

// ClickJoystick handles a tap that was not a drag: the tapped arena point is
// published for aiming.
func ClickJoystick(w donburi.World, pos mgl64.Vec2) {
	if j, ok := joystick(w); ok && j.Dragged {
		return
	}
	ray, ok := ScreenRay(w, pos)
	if !ok {
		return
	}
	if point, ok := gamemath.PlaneRayIntersection(ground, ray); ok {
		PointSet.Publish(w, PointSetEvent{Point: point})
	}
}

func evaluateCurve(p float64) float64 {
	p = mgl64.Clamp(p, 0, 1)
	return float64(cfg.Joystick.Curve(float32(p), 0, 1, 1))
}

// SubscribeMoveController routes stick input to the local tank's motor.
func SubscribeMoveController(w donburi.World) {
	MoveInput.Subscribe(w, func(w donburi.World, evt MoveInputEvent) {
		components.MoveController.Each(w, func(entry *donburi.Entry) {
			ApplyMoveInput(entry, evt)
		})
	})
}

// ApplyMoveInput maps a screen-space stick value onto the tank's movement
// and facing using the camera's ground axes.
func ApplyMoveInput(entry *donburi.Entry, evt MoveInputEvent) {
	controller := components.MoveController.Get(entry)
	if !controller.Enabled {
		return
	}
	right, forward := ScreenAxes()
	if controller.Inverted {
		right, forward = right.Mul(-1), forward.Mul(-1)
	}
	dir := right.Mul(evt.Value.X()).Add(forward.Mul(evt.Value.Y()))

	var motor components.Movable = components.Tank.Get(entry)
	if evt.Activated {
		motor.SetMovement(gamemath.ClampLength(dir, 1))
	} else {
		motor.SetMovement(mgl64.Vec3{})
	}
	if dir.LenSqr() > 0 {
		motor.SetFacing(dir.Normalize())
	} else {
		motor.SetFacing(mgl64.Vec3{})
	}
}

// SetLocalPlayer enables or disables stick input for a tank.
func SetLocalPlayer(entry *donburi.Entry, local bool) {
	if !entry.HasComponent(components.MoveController) {
		entry.AddComponent(components.MoveController)
	}
	components.MoveController.Get(entry).Enabled = local
}

// SetInverted flips stick directions for a tank.
func SetInverted(entry *donburi.Entry, inverted bool) {
	if entry.HasComponent(components.MoveController) {
		components.MoveController.Get(entry).Inverted = inverted
	}
}
