package netcomponents

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetOwnerData names the participant allowed to write this entity's state.
// The server sets it at creation and never changes it.
type NetOwnerData struct {
	Participant netconfig.ParticipantID
}

var NetOwner = donburi.NewComponentType[NetOwnerData]()

// NetSpawnData is the creation record of an entity: what it is, who asked for
// it and where it appeared. Receivers build mirrors from it.
type NetSpawnData struct {
	Kind      netconfig.EntityKind
	RequestID uint32 // Requester's correlation id, echoed in SpawnAccepted

	X, Y, Z        float64
	RW, RX, RY, RZ float64
}

var NetSpawn = donburi.NewComponentType[NetSpawnData]()

// NewNetSpawn flattens a transform into a spawn record.
func NewNetSpawn(kind netconfig.EntityKind, requestID uint32, t gamemath.Transform) NetSpawnData {
	return NetSpawnData{
		Kind:      kind,
		RequestID: requestID,
		X:         t.Position.X(),
		Y:         t.Position.Y(),
		Z:         t.Position.Z(),
		RW:        t.Rotation.W,
		RX:        t.Rotation.V.X(),
		RY:        t.Rotation.V.Y(),
		RZ:        t.Rotation.V.Z(),
	}
}

// Transform returns the spawn transform. A zero rotation decodes as identity.
func (s NetSpawnData) Transform() gamemath.Transform {
	rot := mgl64.Quat{W: s.RW, V: mgl64.Vec3{s.RX, s.RY, s.RZ}}
	if rot.Len() < mgl64.Epsilon {
		rot = mgl64.QuatIdent()
	}
	return gamemath.Transform{
		Position: mgl64.Vec3{s.X, s.Y, s.Z},
		Rotation: rot.Normalize(),
	}
}

// NetStateData is the latest serialized state the owner sent for this entity.
// The server relays it untouched.
type NetStateData struct {
	Seq     uint32
	Payload []byte
}

var NetState = donburi.NewComponentType[NetStateData]()
