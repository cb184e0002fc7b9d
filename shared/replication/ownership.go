package replication

import "github.com/tinychicken/tanks-mp/shared/netconfig"

// IsAuthoritative reports whether the local participant is the single writer
// for an entity recorded as owned by owner.
func IsAuthoritative(owner, local netconfig.ParticipantID) bool {
	return owner.Valid() && owner == local
}
