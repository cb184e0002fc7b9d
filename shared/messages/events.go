package messages

import (
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

// FireCommand is sent by a shooter when its cannon fires. Seq increases by one
// per shot and lets the server and receivers drop duplicates.
type FireCommand struct {
	Seq       uint32
	RequestID uint32 // Spawn request of the bullet this shot created

	X, Y, Z    float64 // Muzzle position
	DirX, DirZ float64 // Horizontal firing direction
}

// FireEvent is the relayed form of a FireCommand.
type FireEvent struct {
	Shooter netconfig.ParticipantID
	Command FireCommand
}

// HitReport is sent by a bullet's owner when the bullet strikes another tank.
type HitReport struct {
	Bullet  esync.NetworkId
	Target  esync.NetworkId // The tank that was hit
	X, Y, Z float64
}

// HitEvent is broadcast once the server accepts a HitReport.
type HitEvent struct {
	Shooter netconfig.ParticipantID
	Victim  netconfig.ParticipantID
	Target  esync.NetworkId
	X, Y, Z float64
}
