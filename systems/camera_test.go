package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/systems/factory"
)

func TestFollowPosition(t *testing.T) {
	target := gamemath.NewTransform(mgl64.Vec3{10, 0, 10})

	got := FollowPosition(target, nil)
	want := mgl64.Vec3{
		10,
		cfg.Camera.HeightOffset,
		10 + cfg.Camera.LookOffset + cfg.Camera.ForwardOffset,
	}
	if !vecNear(got, want) {
		t.Errorf("FollowPosition = %v, want %v", got, want)
	}

	bounds := &components.CameraBounds{MinX: 0, MaxX: 8, MinZ: 0, MaxZ: 12}
	got = FollowPosition(target, bounds)
	if got.X() != 8 || got.Z() != 12 {
		t.Errorf("clamped FollowPosition = %v, want x 8 z 12", got)
	}
}

func TestUpdateCamera_ApproachesTarget(t *testing.T) {
	w := newTestWorld()
	camera := factory.CreateCamera(w)
	tank := factory.CreateTank(w, factory.Identity{Owner: shooterA, Local: true}, at(10, 10), 0)
	SetCameraTarget(w, tank)

	start := components.Camera.Get(camera).Position
	components.Transform.Get(tank).Position = mgl64.Vec3{14, 0, 10}
	UpdateCamera(w, 1.0/60)

	pos := components.Camera.Get(camera).Position
	if pos.X() <= start.X() || pos.X() >= start.X()+4 {
		t.Errorf("camera x = %v, want strictly between %v and %v", pos.X(), start.X(), start.X()+4)
	}
}
