package factory

import (
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
)

// Identity describes who owns a networked entity and how the server knows it.
type Identity struct {
	Owner     netconfig.ParticipantID
	NetworkID esync.NetworkId
	RequestID uint32
	Local     bool // Owned by this participant
}

func (id Identity) extraComponents() []donburi.IComponentType {
	if id.Local {
		return []donburi.IComponentType{tags.Local}
	}
	return []donburi.IComponentType{tags.Mirror, esync.NetworkIdComponent}
}

func newReplicator(exts ...replication.Extension) *replication.Replicator {
	recon := replication.NewReconciler(cfg.Reconcile.SnapDistance, cfg.Reconcile.LerpRate)
	return replication.NewReplicator(recon, exts...)
}

func setNetworked(entry *donburi.Entry, id Identity, kind netconfig.EntityKind, rep *replication.Replicator) {
	components.Networked.SetValue(entry, components.NetworkedData{
		NetworkID:  id.NetworkID,
		RequestID:  id.RequestID,
		Owner:      id.Owner,
		Kind:       kind,
		Replicator: rep,
	})
	if !id.Local {
		esync.NetworkIdComponent.SetValue(entry, id.NetworkID)
	}
}

// CreateTank spawns a tank at the given transform. Local tanks read stick
// input; mirrors follow their owner's snapshots.
func CreateTank(w donburi.World, id Identity, spawn gamemath.Transform, spawnIndex int) *donburi.Entry {
	extras := id.extraComponents()
	if id.Local {
		extras = append(extras, components.MoveController)
	}
	tank := archetypes.Tank.Spawn(w, extras...)

	components.Transform.SetValue(tank, spawn)

	data := &components.TankData{
		Turret:     &components.TurretData{Yaw: gamemath.Yaw(spawn.Rotation)},
		SpawnIndex: spawnIndex,
	}
	components.Tank.Set(tank, data)

	obj := newBody(w, tank, spawn.Position, cfg.Tank.CollisionSize, tags.ResolvTank)
	components.Object.SetValue(tank, components.ObjectData{Object: obj})

	setNetworked(tank, id, netconfig.KindTank, newReplicator(data.Extensions()...))

	if id.Local {
		components.MoveController.SetValue(tank, components.MoveControllerData{Enabled: true})
	}
	return tank
}
