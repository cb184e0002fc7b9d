package components

import (
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/yohamta/donburi"
)

type TankData struct {
	MotorData

	// Turret is heap allocated so the replicator can keep a stable pointer to
	// it while donburi moves component storage around.
	Turret *TurretData

	SpawnIndex int
}

func (t *TankData) Extensions() []replication.Extension {
	return []replication.Extension{t.Turret}
}

var Tank = donburi.NewComponentType[TankData]()
