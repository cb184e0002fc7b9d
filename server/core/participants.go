package core

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/yohamta/donburi"
	"golang.org/x/time/rate"

	cfg "github.com/tinychicken/tanks-mp/config"
)

// Peer is the connection a participant talks through.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

// ParticipantInfo describes a joined participant, as served by the status endpoint.
type ParticipantInfo struct {
	ID         netconfig.ParticipantID `json:"id"`
	SessionID  string                  `json:"sessionId"`
	Name       string                  `json:"name"`
	SpawnIndex int                     `json:"spawnIndex"`
	Entities   int                     `json:"entities"`
	JoinedAt   time.Time               `json:"joinedAt"`
}

// Participant is one joined connection and everything it owns.
type Participant struct {
	ID         netconfig.ParticipantID
	SessionID  uuid.UUID
	Name       string
	SpawnIndex int
	Inverted   bool
	JoinedAt   time.Time

	peer        Peer
	limiter     *rate.Limiter
	lastFireSeq uint32
	entities    map[donburi.Entity]netconfig.EntityKind
}

// Roster tracks joined participants by connection. It is read by the status
// handler, so every access goes through mu.
type Roster struct {
	mu     sync.RWMutex
	byPeer map[string]*Participant
	nextID netconfig.ParticipantID
	slots  int
}

func NewRoster(slots int) *Roster {
	return &Roster{
		byPeer: make(map[string]*Participant),
		slots:  max(1, slots),
	}
}

// Join admits a peer and assigns it the lowest free spawn slot. It reports
// false when the room is full.
func (r *Roster) Join(peer Peer, name string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPeer[peer.Id()]; ok {
		return existing, true
	}
	if len(r.byPeer) >= cfg.Net.MaxParticipants {
		return nil, false
	}

	r.nextID++
	slot := r.freeSlot()
	p := &Participant{
		ID:         r.nextID,
		SessionID:  uuid.New(),
		Name:       name,
		SpawnIndex: slot % r.slots,
		Inverted:   slot%2 == 1,
		JoinedAt:   time.Now(),
		peer:       peer,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Net.FireRate), cfg.Net.FireBurst),
		entities:   make(map[donburi.Entity]netconfig.EntityKind),
	}
	r.byPeer[peer.Id()] = p
	return p, true
}

func (r *Roster) freeSlot() int {
	used := make(map[int]bool, len(r.byPeer))
	for _, p := range r.byPeer {
		used[p.SpawnIndex] = true
	}
	for slot := 0; ; slot++ {
		if !used[slot] {
			return slot
		}
	}
}

// Leave removes a peer and returns the participant it was.
func (r *Roster) Leave(peer Peer) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byPeer[peer.Id()]
	if ok {
		delete(r.byPeer, peer.Id())
	}
	return p, ok
}

func (r *Roster) Get(peer Peer) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byPeer[peer.Id()]
	return p, ok
}

// Track records that p owns entity.
func (r *Roster) Track(p *Participant, entity donburi.Entity, kind netconfig.EntityKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.entities[entity] = kind
}

func (r *Roster) Untrack(p *Participant, entity donburi.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(p.entities, entity)
}

// Owned returns how many entities of kind p owns.
func (r *Roster) Owned(p *Participant, kind netconfig.EntityKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, k := range p.entities {
		if k == kind {
			n++
		}
	}
	return n
}

// Entities returns every entity p owns.
func (r *Roster) Entities(p *Participant) []donburi.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]donburi.Entity, 0, len(p.entities))
	for e := range p.entities {
		out = append(out, e)
	}
	return out
}

// ByID finds a participant by its assigned id.
func (r *Roster) ByID(id netconfig.ParticipantID) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.byPeer {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Each calls fn for every participant in join order.
func (r *Roster) Each(fn func(p *Participant)) {
	r.mu.RLock()
	list := make([]*Participant, 0, len(r.byPeer))
	for _, p := range r.byPeer {
		list = append(list, p)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	for _, p := range list {
		fn(p)
	}
}

func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPeer)
}

// List returns a copy of every participant's public info in join order.
func (r *Roster) List() []ParticipantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ParticipantInfo, 0, len(r.byPeer))
	for _, p := range r.byPeer {
		result = append(result, ParticipantInfo{
			ID:         p.ID,
			SessionID:  p.SessionID.String(),
			Name:       p.Name,
			SpawnIndex: p.SpawnIndex,
			Entities:   len(p.entities),
			JoinedAt:   p.JoinedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
