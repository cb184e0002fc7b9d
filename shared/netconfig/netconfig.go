// Package netconfig defines lightweight types shared between participants and the
// relay server for network serialization. It must stay free of simulation and
// transport dependencies so every binary can import it.
package netconfig

// ParticipantID identifies one connected process in a room. The server assigns
// ids starting at 1; zero means "no participant".
type ParticipantID uint32

const NoParticipant ParticipantID = 0

// Valid reports whether p names a real participant.
func (p ParticipantID) Valid() bool {
	return p != NoParticipant
}

// EntityID is the global identity the server assigns to a networked entity at
// creation. It mirrors esync.NetworkId without importing necs.
type EntityID uint

const NoEntity EntityID = 0

// EntityKind identifies what a networked entity is, so receivers know how to
// build a mirror for it.
type EntityKind int

const (
	KindNone EntityKind = iota
	KindTank
	KindBullet
)

var kindNames = map[EntityKind]string{
	KindNone:   "none",
	KindTank:   "tank",
	KindBullet: "bullet",
}

func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Spawnable reports whether participants may request entities of this kind.
func (k EntityKind) Spawnable() bool {
	return k == KindTank || k == KindBullet
}
