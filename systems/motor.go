package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var localTanks = donburi.NewQuery(filter.Contains(tags.Tank, tags.Local))

// UpdateTankMotors runs one fixed step for every tank this participant owns:
// velocity steering toward the desired movement, wall sliding, then facing.
func UpdateTankMotors(w donburi.World, dt float64) {
	localTanks.Each(w, func(entry *donburi.Entry) {
		stepTankMotor(entry, dt)
	})
}

func stepTankMotor(entry *donburi.Entry, dt float64) {
	tank := components.Tank.Get(entry)
	transform := components.Transform.Get(entry)

	target := tank.Movement.Mul(cfg.Tank.WalkingSpeed)
	tank.Velocity = gamemath.SteerVelocity(tank.Velocity, target, cfg.Tank.Snappiness, dt)

	obj := components.Object.Get(entry).Object
	if obj != nil {
		moveAndSlide(obj, &tank.Velocity, dt)
		transform.Position = factory.BodyCenter(obj, transform.Position.Y())
	} else {
		transform.Position = transform.Position.Add(tank.Velocity.Mul(dt))
	}

	transform.Rotation = face(transform.Rotation, tank.Facing, tank.Movement, dt)
}

// face turns a yaw-only rotation toward facing when one is given, otherwise
// toward the movement direction. With neither it holds still.
func face(rot mgl64.Quat, facing, movement mgl64.Vec3, dt float64) mgl64.Quat {
	if gamemath.Flatten(facing).LenSqr() > 0 {
		return gamemath.LerpQuat(rot, gamemath.YawRotation(facing), cfg.Tank.FacingLerpRate*dt)
	}
	if gamemath.Flatten(movement).LenSqr() > 0 {
		return gamemath.TurnToward(rot, movement, cfg.Tank.TurningSmoothing, dt)
	}
	return rot
}

// moveAndSlide moves obj by vel*dt one axis at a time, stopping flush against
// walls and zeroing the blocked velocity component.
func moveAndSlide(obj *resolv.Object, vel *mgl64.Vec3, dt float64) {
	dx, hitX := sweepX(obj, leveldata.ToPixels(vel.X()*dt))
	obj.X += dx
	if hitX {
		vel[0] = 0
	}

	dz, hitZ := sweepY(obj, leveldata.ToPixels(vel.Z()*dt))
	obj.Y += dz
	if hitZ {
		vel[2] = 0
	}
	obj.Update()
}
