package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/yohamta/donburi"
)

const (
	cameraNear = 0.1
	cameraFar  = 1000.0
)

// UpdateCamera moves the camera toward its follow position above the target.
func UpdateCamera(w donburi.World, dt float64) {
	cameraEntry, ok := components.Camera.First(w)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)
	if camera.Target == nil || !camera.Target.Valid() {
		return
	}

	target := components.Transform.Get(camera.Target)
	next := FollowPosition(*target, camera.Bounds)
	camera.Position = gamemath.LerpVec3(camera.Position, next, dt*cfg.Camera.Smoothness)
}

// SetCameraTarget makes the camera follow entry and jumps it into place.
func SetCameraTarget(w donburi.World, entry *donburi.Entry) {
	cameraEntry, ok := components.Camera.First(w)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)
	camera.Target = entry
	camera.Position = FollowPosition(*components.Transform.Get(entry), camera.Bounds)
}

// FollowPosition is where the camera wants to be for a target: above it,
// ahead of where it faces, and pushed along +Z, clamped to the bounds.
func FollowPosition(target gamemath.Transform, bounds *components.CameraBounds) mgl64.Vec3 {
	next := target.Position.
		Add(gamemath.Up.Mul(cfg.Camera.HeightOffset)).
		Add(target.Forward().Mul(cfg.Camera.LookOffset)).
		Add(gamemath.Forward.Mul(cfg.Camera.ForwardOffset))

	if bounds != nil {
		next[0] = mgl64.Clamp(next[0], bounds.MinX, bounds.MaxX)
		next[2] = mgl64.Clamp(next[2], bounds.MinZ, bounds.MaxZ)
	}
	return next
}

// CameraView returns the unit view direction of the camera. The camera never
// turns, so this only depends on configuration.
func CameraView() mgl64.Vec3 {
	yaw := mgl64.DegToRad(cfg.Camera.Yaw)
	pitch := mgl64.DegToRad(cfg.Camera.Pitch)
	flat := mgl64.QuatRotate(yaw, gamemath.Up).Rotate(gamemath.Forward)
	return flat.Mul(math.Cos(pitch)).Sub(gamemath.Up.Mul(math.Sin(pitch))).Normalize()
}

// ScreenAxes returns the world directions that appear as screen right and
// screen up on the ground plane.
func ScreenAxes() (right, forward mgl64.Vec3) {
	view := CameraView()
	forward = gamemath.Flatten(view).Normalize()
	right = forward.Cross(gamemath.Up).Normalize()
	return right, forward
}

// ScreenRay returns the world ray through a screen point. Screen coordinates
// have their origin at the top left.
func ScreenRay(w donburi.World, screen mgl64.Vec2) (gamemath.Ray, bool) {
	cameraEntry, ok := components.Camera.First(w)
	if !ok {
		return gamemath.Ray{}, false
	}
	eye := components.Camera.Get(cameraEntry).Position

	width, height := cfg.Camera.ScreenWidth, cfg.Camera.ScreenHeight
	view := mgl64.LookAtV(eye, eye.Add(CameraView()), gamemath.Up)
	proj := mgl64.Perspective(mgl64.DegToRad(cfg.Camera.FieldOfView),
		float64(width)/float64(height), cameraNear, cameraFar)

	winY := float64(height) - screen.Y()
	near, err := mgl64.UnProject(mgl64.Vec3{screen.X(), winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return gamemath.Ray{}, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{screen.X(), winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return gamemath.Ray{}, false
	}
	return gamemath.Ray{Origin: near, Direction: far.Sub(near).Normalize()}, true
}
