package systems

import (
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// PlayerRegistry tracks the tank entity of every participant in this
// simulation. Tanks are added when spawned or mirrored and removed when
// destroyed.
type PlayerRegistry struct {
	tanks map[netconfig.ParticipantID]donburi.Entity
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{tanks: make(map[netconfig.ParticipantID]donburi.Entity)}
}

func (r *PlayerRegistry) Add(owner netconfig.ParticipantID, tank donburi.Entity) {
	r.tanks[owner] = tank
}

// Remove drops owner's tank if it is still the given entity.
func (r *PlayerRegistry) Remove(owner netconfig.ParticipantID, tank donburi.Entity) {
	if cur, ok := r.tanks[owner]; ok && cur == tank {
		delete(r.tanks, owner)
	}
}

// Tank returns owner's tank entry if it is still alive in w.
func (r *PlayerRegistry) Tank(w donburi.World, owner netconfig.ParticipantID) (*donburi.Entry, bool) {
	e, ok := r.tanks[owner]
	if !ok || !w.Valid(e) {
		return nil, false
	}
	return w.Entry(e), true
}

func (r *PlayerRegistry) Len() int {
	return len(r.tanks)
}

// Owners returns the participants with a registered tank.
func (r *PlayerRegistry) Owners() []netconfig.ParticipantID {
	out := make([]netconfig.ParticipantID, 0, len(r.tanks))
	for p := range r.tanks {
		out = append(out, p)
	}
	return out
}
