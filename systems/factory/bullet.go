package factory

import (
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
)

// CreateBullet spawns a bullet travelling along the transform's forward axis.
func CreateBullet(w donburi.World, id Identity, at gamemath.Transform) *donburi.Entry {
	bullet := archetypes.Bullet.Spawn(w, id.extraComponents()...)

	components.Transform.SetValue(bullet, at)
	components.Bullet.SetValue(bullet, components.BulletData{
		Shooter:    id.Owner,
		Remaining:  cfg.Bullet.MaxRange,
		Durability: cfg.Bullet.Durability,
	})

	obj := newBody(w, bullet, at.Position, cfg.Bullet.CollisionSize, tags.ResolvBullet)
	components.Object.SetValue(bullet, components.ObjectData{Object: obj})

	data := components.Bullet.Get(bullet)
	setNetworked(bullet, id, netconfig.KindBullet, newReplicator(data.Extensions()...))
	return bullet
}
