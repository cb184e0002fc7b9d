package network

import (
	"log"

	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netcomponents"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/shared/replication"
)

// RemoteEntity is one networked entity as the server last relayed it.
type RemoteEntity struct {
	ID    esync.NetworkId
	Owner netconfig.ParticipantID
	Kind  netconfig.EntityKind
	Spawn gamemath.Transform
	State replication.Snapshot
}

// DecodeSnapshot converts a necs world snapshot into remote entities.
// Entities missing their owner or spawn record are skipped.
func DecodeSnapshot(snapshot esync.WorldSnapshot) []RemoteEntity {
	out := make([]RemoteEntity, 0, len(snapshot))
	for _, ent := range snapshot {
		remote := RemoteEntity{ID: ent.Id}
		var hasOwner, hasSpawn bool

		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				log.Printf("[client] entity %d: %v", ent.Id, err)
				continue
			}
			switch v := instance.(type) {
			case netcomponents.NetOwnerData:
				remote.Owner = v.Participant
				hasOwner = true
			case netcomponents.NetSpawnData:
				remote.Kind = v.Kind
				remote.Spawn = v.Transform()
				hasSpawn = true
			case netcomponents.NetStateData:
				remote.State = replication.Snapshot{Seq: v.Seq, Payload: v.Payload}
			}
		}

		if !hasOwner || !hasSpawn {
			continue
		}
		out = append(out, remote)
	}
	return out
}
