package components

import (
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/yohamta/donburi"
)

// NetworkedData links a local entity to its replicated identity.
type NetworkedData struct {
	NetworkID esync.NetworkId // Zero while the spawn request is in flight
	RequestID uint32
	Owner     netconfig.ParticipantID
	Kind      netconfig.EntityKind

	Replicator *replication.Replicator

	// Inbound is the latest state relayed for a mirror, consumed on the next
	// network tick.
	Inbound replication.Snapshot
}

var Networked = donburi.NewComponentType[NetworkedData]()

// Acknowledged reports whether the server has assigned a network id.
func (n *NetworkedData) Acknowledged() bool {
	return n.NetworkID != 0
}
