package messages

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

// SpawnRequest asks the server to create a networked entity owned by the
// sender. RequestID is echoed back so the sender can match the reply.
type SpawnRequest struct {
	RequestID uint32
	Kind      netconfig.EntityKind

	X, Y, Z        float64
	RW, RX, RY, RZ float64
}

// Transform returns the requested spawn transform. A zero rotation decodes
// as identity.
func (r SpawnRequest) Transform() gamemath.Transform {
	rot := mgl64.Quat{W: r.RW, V: mgl64.Vec3{r.RX, r.RY, r.RZ}}
	if rot.Len() < mgl64.Epsilon {
		rot = mgl64.QuatIdent()
	}
	return gamemath.Transform{
		Position: mgl64.Vec3{r.X, r.Y, r.Z},
		Rotation: rot.Normalize(),
	}
}

// SpawnAccepted carries the global id the server assigned to a new entity.
type SpawnAccepted struct {
	RequestID uint32
	NetworkID esync.NetworkId
	Kind      netconfig.EntityKind
}

// SpawnRejected is sent when a spawn request is refused.
type SpawnRejected struct {
	RequestID uint32
	Reason    string
}

// StateUpdate is one owner-side serialization tick for one entity.
type StateUpdate struct {
	NetworkID esync.NetworkId
	Seq       uint32
	Payload   []byte
}

// DestroyRequest asks the server to remove an entity. Only the owner may send it.
type DestroyRequest struct {
	NetworkID esync.NetworkId
}
