package messages

import (
	"github.com/google/uuid"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

// JoinRequest is sent by a client after connecting to request joining the room.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	ParticipantID netconfig.ParticipantID
	SessionID     uuid.UUID
	ServerName    string
	TickRate      int
	Arena         string

	// SpawnIndex is the arena spawn point the participant should use.
	SpawnIndex int
	// Inverted is set for the second participant, who faces the arena from
	// the opposite side.
	Inverted bool
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
