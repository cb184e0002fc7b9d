package components

import (
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/yohamta/donburi"
)

// BulletData is a bullet's flight state. Its heading is the transform's
// forward axis, so only the base transform is replicated.
type BulletData struct {
	Shooter    netconfig.ParticipantID
	Remaining  float64 // Distance left before the bullet expires
	Durability int     // Wall bounces left
	Exploding  bool
}

// Extensions is empty: bullets replicate the base transform only.
func (b *BulletData) Extensions() []replication.Extension {
	return nil
}

var Bullet = donburi.NewComponentType[BulletData]()
