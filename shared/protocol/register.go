package protocol

import (
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/shared/netcomponents"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetOwner uint = 10
	SyncIDNetSpawn uint = 11
	SyncIDNetState uint = 12
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
//
// None of them use necs interpolation: receivers smooth state themselves from
// the owner's payload, so the raw latest value is what they need.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetOwner,
		netcomponents.NetOwnerData{},
		netcomponents.NetOwner,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetSpawn,
		netcomponents.NetSpawnData{},
		netcomponents.NetSpawn,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetState,
		netcomponents.NetStateData{},
		netcomponents.NetState,
	); err != nil {
		return err
	}

	return nil
}
