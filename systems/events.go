package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MoveInputEvent carries the latest stick value in screen space.
type MoveInputEvent struct {
	Value     mgl64.Vec2
	Activated bool
}

// PointSetEvent is published when a click lands on the arena floor.
type PointSetEvent struct {
	Point mgl64.Vec3
}

// ActionAppliedEvent is published when an activated stick is released.
// Direction is the stick value at release.
type ActionAppliedEvent struct {
	Direction mgl64.Vec2
}

var (
	MoveInput     = events.NewEventType[MoveInputEvent]()
	PointSet      = events.NewEventType[PointSetEvent]()
	ActionApplied = events.NewEventType[ActionAppliedEvent]()
)

// ProcessInputEvents delivers queued input to subscribers, one event type at
// a time in a fixed order.
func ProcessInputEvents(w donburi.World) {
	MoveInput.ProcessEvents(w)
	PointSet.ProcessEvents(w)
	ActionApplied.ProcessEvents(w)
}
