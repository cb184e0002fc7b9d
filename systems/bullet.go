package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
)

// NewBulletSystem returns the per-frame bullet update. Owned bullets fly,
// bounce off walls and expire; every bullet, owned or mirrored, explodes when
// it overlaps a tank belonging to someone other than its owner.
func NewBulletSystem(s *Session) func(w donburi.World, dt float64) {
	return func(w donburi.World, dt float64) {
		f := &bulletFrame{session: s}

		tags.Bullet.Each(w, func(entry *donburi.Entry) {
			if components.Bullet.Get(entry).Exploding {
				return
			}
			net := components.Networked.Get(entry)
			if replication.IsAuthoritative(net.Owner, s.Local) {
				f.fly(entry, dt)
			}
			if !components.Bullet.Get(entry).Exploding {
				f.checkTankHits(entry)
			}
		})

		// Entities are created and removed after the query has finished.
		for _, pos := range f.explosions {
			factory.CreateExplosion(w, pos)
		}
		for _, entry := range f.spent {
			factory.RemoveBody(w, entry)
			if entry.HasComponent(tags.Local) {
				entry.Remove()
			}
		}
	}
}

type bulletFrame struct {
	session    *Session
	explosions []mgl64.Vec3
	spent      []*donburi.Entry
}

// fly advances an owned bullet. Wall contact reflects it about the wall's
// normal while it has durability left, and explodes it after.
func (f *bulletFrame) fly(entry *donburi.Entry, dt float64) {
	bullet := components.Bullet.Get(entry)
	transform := components.Transform.Get(entry)
	obj := components.Object.Get(entry).Object

	dir := transform.Forward()
	step := cfg.Bullet.Speed * dt

	if obj == nil {
		transform.Position = transform.Position.Add(dir.Mul(step))
	} else {
		dx, hitX := sweepX(obj, leveldata.ToPixels(dir.X()*step))
		obj.X += dx
		dz, hitZ := sweepY(obj, leveldata.ToPixels(dir.Z()*step))
		obj.Y += dz
		obj.Update()
		transform.Position = factory.BodyCenter(obj, transform.Position.Y())

		if hitX || hitZ {
			if bullet.Durability <= 0 {
				f.explode(entry)
				return
			}
			if hitX {
				dir = gamemath.Reflect(dir, mgl64.Vec3{-sign(dir.X()), 0, 0})
			}
			if hitZ {
				dir = gamemath.Reflect(dir, mgl64.Vec3{0, 0, -sign(dir.Z())})
			}
			transform.Rotation = gamemath.YawRotation(dir)
			bullet.Durability--
		}
	}

	bullet.Remaining -= step
	if bullet.Remaining < 0 {
		f.explode(entry)
	}
}

func (f *bulletFrame) checkTankHits(entry *donburi.Entry) {
	obj := components.Object.Get(entry).Object
	if obj == nil {
		return
	}
	net := components.Networked.Get(entry)

	for _, other := range overlapping(obj, tags.ResolvTank) {
		tank, ok := other.Data.(*donburi.Entry)
		if !ok || !tank.Valid() {
			continue
		}
		victim := components.Networked.Get(tank)
		if victim.Owner == net.Owner {
			continue // own tank
		}

		if replication.IsAuthoritative(net.Owner, f.session.Local) && net.Acknowledged() && victim.Acknowledged() {
			pos := components.Transform.Get(entry).Position
			f.session.Send(messages.HitReport{
				Bullet: net.NetworkID,
				Target: victim.NetworkID,
				X:      pos.X(),
				Y:      pos.Y(),
				Z:      pos.Z(),
			})
		}
		f.explode(entry)
		return
	}
}

// explode stops a bullet and queues its effect and removal from collision.
// Only the owner asks the server to destroy it; a bullet whose spawn has not
// been acknowledged yet is destroyed when the acknowledgement arrives.
func (f *bulletFrame) explode(entry *donburi.Entry) {
	bullet := components.Bullet.Get(entry)
	if bullet.Exploding {
		return
	}
	bullet.Exploding = true

	f.explosions = append(f.explosions, components.Transform.Get(entry).Position)
	f.spent = append(f.spent, entry)

	net := components.Networked.Get(entry)
	if !replication.IsAuthoritative(net.Owner, f.session.Local) {
		return
	}
	if net.Acknowledged() {
		f.session.Send(messages.DestroyRequest{NetworkID: net.NetworkID})
	} else {
		f.session.DeferDestroy(net.RequestID)
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
