package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var localBullets = donburi.NewQuery(filter.Contains(tags.Bullet, tags.Local))

// SubscribeCannon fires the local tank's cannon at clicked points and along
// the stick direction when a drag is released.
func SubscribeCannon(w donburi.World, s *Session) {
	PointSet.Subscribe(w, func(w donburi.World, evt PointSetEvent) {
		tank, ok := s.Registry.Tank(w, s.Local)
		if !ok {
			return
		}
		from := components.Transform.Get(tank).Position
		FireCannon(w, s, tank, evt.Point.Sub(from))
	})
	ActionApplied.Subscribe(w, func(w donburi.World, evt ActionAppliedEvent) {
		tank, ok := s.Registry.Tank(w, s.Local)
		if !ok {
			return
		}
		var dir mgl64.Vec3
		components.MoveController.Each(w, func(entry *donburi.Entry) {
			if entry.Entity() == tank.Entity() {
				dir = stickDirection(entry, evt.Direction)
			}
		})
		FireCannon(w, s, tank, dir)
	})
}

func stickDirection(entry *donburi.Entry, value mgl64.Vec2) mgl64.Vec3 {
	right, forward := ScreenAxes()
	if components.MoveController.Get(entry).Inverted {
		right, forward = right.Mul(-1), forward.Mul(-1)
	}
	return right.Mul(value.X()).Add(forward.Mul(value.Y()))
}

// FireCannon turns the turret toward dir and launches a bullet from the
// muzzle. It reports false when there is nothing to fire at or the
// participant already has the maximum number of bullets in flight.
func FireCannon(w donburi.World, s *Session, tank *donburi.Entry, dir mgl64.Vec3) bool {
	dir = gamemath.Flatten(dir)
	if dir.LenSqr() == 0 {
		return false
	}
	dir = dir.Normalize()

	data := components.Tank.Get(tank)
	data.Turret.Yaw = gamemath.Yaw(gamemath.YawRotation(dir))

	if countLiveBullets(w) >= cfg.Net.MaxBullets {
		return false
	}

	muzzle := components.Transform.Get(tank).Position.
		Add(dir.Mul(cfg.Tank.MuzzleOffset)).
		Add(gamemath.Up.Mul(cfg.Tank.MuzzleHeight))
	at := gamemath.Transform{Position: muzzle, Rotation: gamemath.YawRotation(dir)}

	reqID := s.NextRequestID()
	factory.CreateBullet(w, factory.Identity{Owner: s.Local, RequestID: reqID, Local: true}, at)
	factory.CreateMuzzleFlash(w, muzzle)

	s.Send(spawnRequest(reqID, netconfig.KindBullet, at))
	s.Send(messages.FireCommand{
		Seq:       s.NextFireSeq(),
		RequestID: reqID,
		X:         muzzle.X(),
		Y:         muzzle.Y(),
		Z:         muzzle.Z(),
		DirX:      dir.X(),
		DirZ:      dir.Z(),
	})
	return true
}

func countLiveBullets(w donburi.World) int {
	n := 0
	localBullets.Each(w, func(entry *donburi.Entry) {
		if !components.Bullet.Get(entry).Exploding {
			n++
		}
	})
	return n
}

func spawnRequest(reqID uint32, kind netconfig.EntityKind, t gamemath.Transform) messages.SpawnRequest {
	return messages.SpawnRequest{
		RequestID: reqID,
		Kind:      kind,
		X:         t.Position.X(),
		Y:         t.Position.Y(),
		Z:         t.Position.Z(),
		RW:        t.Rotation.W,
		RX:        t.Rotation.X(),
		RY:        t.Rotation.Y(),
		RZ:        t.Rotation.Z(),
	}
}

// SpawnLocalTank creates this participant's tank and asks the server to make
// it a networked entity.
func SpawnLocalTank(w donburi.World, s *Session, spawn gamemath.Transform, spawnIndex int) *donburi.Entry {
	reqID := s.NextRequestID()
	tank := factory.CreateTank(w, factory.Identity{Owner: s.Local, RequestID: reqID, Local: true}, spawn, spawnIndex)
	s.Registry.Add(s.Local, tank.Entity())
	s.Send(spawnRequest(reqID, netconfig.KindTank, spawn))
	return tank
}
