package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/shared/replication"
)

// Movable is the input side of a motor: where the entity wants to go, where
// it wants to face, and which extra fields it replicates after the base
// transform.
type Movable interface {
	SetMovement(dir mgl64.Vec3)
	SetFacing(dir mgl64.Vec3)
	Extensions() []replication.Extension
}

// MotorData holds the desired movement and facing in world space plus the
// current velocity. Movement has a length between 0 and 1.
type MotorData struct {
	Movement mgl64.Vec3
	Facing   mgl64.Vec3
	Velocity mgl64.Vec3
}

func (m *MotorData) SetMovement(dir mgl64.Vec3) {
	m.Movement = dir
}

func (m *MotorData) SetFacing(dir mgl64.Vec3) {
	m.Facing = dir
}

// Extensions is empty for base motors.
func (m *MotorData) Extensions() []replication.Extension {
	return nil
}

// TurretData is the tank head's world yaw in radians. It travels after the
// base transform.
type TurretData struct {
	Yaw float64

	target   float64
	received bool
}

func (t *TurretData) Encode(w *replication.Writer) error {
	return w.WriteFloat64(t.Yaw)
}

func (t *TurretData) Decode(r *replication.Reader) error {
	yaw, err := r.ReadFloat64()
	if err != nil {
		return err
	}
	t.target = yaw
	t.received = true
	return nil
}

// Blend moves the displayed yaw toward the last received yaw by factor f along
// the shorter way around.
func (t *TurretData) Blend(f float64) {
	if !t.received {
		return
	}
	if f >= 1 {
		t.Yaw = t.target
		return
	}
	delta := math.Remainder(t.target-t.Yaw, 2*math.Pi)
	t.Yaw += delta * mgl64.Clamp(f, 0, 1)
}
