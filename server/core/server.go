package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/netcomponents"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/yohamta/donburi"

	cfg "github.com/tinychicken/tanks-mp/config"
)

var (
	ErrNotJoined       = errors.New("not joined")
	ErrNotOwner        = errors.New("not the owner")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrBadKind         = errors.New("kind cannot be spawned")
	ErrTankExists      = errors.New("participant already has a tank")
	ErrBulletLimit     = errors.New("too many live bullets")
	ErrOutOfArena      = errors.New("position outside the arena")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrStaleState      = errors.New("stale state")
	ErrFireRejected    = errors.New("fire rejected")
	ErrBadHit          = errors.New("invalid hit report")
)

// Server is the room relay. It records who owns each networked entity, relays
// owner state through the synced world, and forwards fire and hit events.
// It never simulates entities itself.
type Server struct {
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport
	roster    *Roster
	arena     *ServerArena

	name     string
	version  string
	tickRate int

	// Router callbacks run on transport goroutines; the world is only touched
	// by the loop, which drains this queue every tick.
	mu       sync.Mutex
	commands []func()
}

// NewServer creates a new room server. arena may be nil, in which case spawn
// positions are not vetted.
func NewServer(tickRate int, name, version string, arena *ServerArena) *Server {
	world := donburi.NewWorld()

	slots := 1
	if arena != nil {
		slots = arena.Slots()
	}

	s := &Server{
		world:    world,
		roster:   NewRoster(slots),
		arena:    arena,
		name:     name,
		version:  version,
		tickRate: tickRate,
	}
	s.loop = NewGameLoop(s, tickRate)

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.setupRouterCallbacks()

	return s
}

// Start begins the server on the given port. It blocks while the transport runs.
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Run starts the server and stops the game loop when ctx is done.
func (s *Server) Run(ctx context.Context, port uint) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(port) }()

	select {
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return fmt.Errorf("transport: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.Stop()
		return nil
	}
}

// Stop gracefully shuts down the game loop
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[server] client %s disconnected", client.Id())
		}
		s.enqueue(func() { s.handleDisconnect(client) })
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.enqueue(func() { s.handleJoin(client, msg) })
	})

	router.On(func(client *router.NetworkClient, msg messages.SpawnRequest) {
		s.enqueue(func() { s.handleSpawn(client, msg) })
	})

	router.On(func(client *router.NetworkClient, msg messages.StateUpdate) {
		s.enqueue(func() { s.logRejected("state", client, s.handleState(client, msg)) })
	})

	router.On(func(client *router.NetworkClient, msg messages.DestroyRequest) {
		s.enqueue(func() { s.logRejected("destroy", client, s.handleDestroy(client, msg)) })
	})

	router.On(func(client *router.NetworkClient, msg messages.FireCommand) {
		s.enqueue(func() { s.logRejected("fire", client, s.handleFire(client, msg)) })
	})

	router.On(func(client *router.NetworkClient, msg messages.HitReport) {
		s.enqueue(func() { s.logRejected("hit", client, s.handleHit(client, msg)) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) enqueue(cmd func()) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// ProcessCommands runs every queued command in arrival order and returns how
// many ran. Only the game loop calls it.
func (s *Server) ProcessCommands() int {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		cmd()
	}
	return len(cmds)
}

func (s *Server) logRejected(what string, peer Peer, err error) {
	if err != nil {
		log.Printf("[server] %s from %s rejected: %v", what, peer.Id(), err)
	}
}

func (s *Server) send(peer Peer, msg any) {
	if err := peer.SendMessage(msg); err != nil {
		log.Printf("[server] send %T to %s: %v", msg, peer.Id(), err)
	}
}

// broadcast sends msg to every participant except the one with id except.
func (s *Server) broadcast(msg any, except netconfig.ParticipantID) {
	s.roster.Each(func(p *Participant) {
		if p.ID != except {
			s.send(p.peer, msg)
		}
	})
}

func (s *Server) handleJoin(peer Peer, msg messages.JoinRequest) {
	if s.version != "" && msg.Version != s.version {
		log.Printf("[server] join from %s rejected: version %q, want %q", peer.Id(), msg.Version, s.version)
		s.send(peer, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server requires %s", s.version),
		})
		return
	}

	p, ok := s.roster.Join(peer, msg.PlayerName)
	if !ok {
		log.Printf("[server] join from %s rejected: room full", peer.Id())
		s.send(peer, messages.JoinRejected{Reason: "room is full"})
		return
	}

	arenaName := ""
	if s.arena != nil {
		arenaName = s.arena.Name
	}
	log.Printf("[server] %q joined as participant %d (slot %d)", p.Name, p.ID, p.SpawnIndex)
	s.send(peer, messages.JoinAccepted{
		ParticipantID: p.ID,
		SessionID:     p.SessionID,
		ServerName:    s.name,
		TickRate:      s.tickRate,
		Arena:         arenaName,
		SpawnIndex:    p.SpawnIndex,
		Inverted:      p.Inverted,
	})
}

func (s *Server) handleSpawn(peer Peer, req messages.SpawnRequest) {
	id, err := s.spawn(peer, req)
	if err != nil {
		s.logRejected("spawn", peer, err)
		s.send(peer, messages.SpawnRejected{RequestID: req.RequestID, Reason: err.Error()})
		return
	}
	s.send(peer, messages.SpawnAccepted{RequestID: req.RequestID, NetworkID: id, Kind: req.Kind})
}

// spawn creates a synced entity owned by the sender.
func (s *Server) spawn(peer Peer, req messages.SpawnRequest) (esync.NetworkId, error) {
	p, ok := s.roster.Get(peer)
	if !ok {
		return 0, ErrNotJoined
	}

	switch {
	case !req.Kind.Spawnable():
		return 0, fmt.Errorf("%w: %s", ErrBadKind, req.Kind)
	case req.Kind == netconfig.KindTank && s.roster.Owned(p, netconfig.KindTank) > 0:
		return 0, ErrTankExists
	case req.Kind == netconfig.KindBullet && s.roster.Owned(p, netconfig.KindBullet) >= cfg.Net.MaxBullets:
		return 0, ErrBulletLimit
	}

	t := req.Transform()
	if s.arena != nil {
		inside := s.arena.InBounds(t.Position)
		if req.Kind == netconfig.KindTank {
			inside = s.arena.Contains(t.Position)
		}
		if !inside {
			return 0, fmt.Errorf("%w: %v", ErrOutOfArena, t.Position)
		}
	}

	entity := s.world.Create(netcomponents.NetOwner, netcomponents.NetSpawn, netcomponents.NetState)
	entry := s.world.Entry(entity)
	netcomponents.NetOwner.SetValue(entry, netcomponents.NetOwnerData{Participant: p.ID})
	netcomponents.NetSpawn.SetValue(entry, netcomponents.NewNetSpawn(req.Kind, req.RequestID, t))
	netcomponents.NetState.SetValue(entry, netcomponents.NetStateData{})

	err := srvsync.NetworkSync(s.world, &entity,
		netcomponents.NetOwner,
		netcomponents.NetSpawn,
		netcomponents.NetState,
	)
	if err != nil {
		s.world.Remove(entity)
		return 0, fmt.Errorf("network sync: %w", err)
	}

	id := esync.GetNetworkId(entry)
	if id == nil {
		s.world.Remove(entity)
		return 0, errors.New("entity has no network id")
	}
	s.roster.Track(p, entity, req.Kind)

	log.Printf("[server] participant %d spawned %s %d (request %d)", p.ID, req.Kind, *id, req.RequestID)
	return *id, nil
}

// owned resolves a network id to an entity the sender owns.
func (s *Server) owned(peer Peer, id esync.NetworkId) (*Participant, *donburi.Entry, error) {
	p, ok := s.roster.Get(peer)
	if !ok {
		return nil, nil, ErrNotJoined
	}
	entry, ok := s.entry(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	owner := netcomponents.NetOwner.Get(entry).Participant
	if !replication.IsAuthoritative(owner, p.ID) {
		return nil, nil, fmt.Errorf("%w: entity %d belongs to %d", ErrNotOwner, id, owner)
	}
	return p, entry, nil
}

func (s *Server) entry(id esync.NetworkId) (*donburi.Entry, bool) {
	entity := esync.FindByNetworkId(s.world, id)
	if !s.world.Valid(entity) {
		return nil, false
	}
	return s.world.Entry(entity), true
}

// handleState stores the owner's latest payload for the next world sync.
func (s *Server) handleState(peer Peer, msg messages.StateUpdate) error {
	_, entry, err := s.owned(peer, msg.NetworkID)
	if err != nil {
		return err
	}
	if len(msg.Payload) > cfg.Net.MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(msg.Payload))
	}

	state := netcomponents.NetState.Get(entry)
	if msg.Seq <= state.Seq {
		return fmt.Errorf("%w: seq %d after %d", ErrStaleState, msg.Seq, state.Seq)
	}
	state.Seq = msg.Seq
	state.Payload = append(state.Payload[:0], msg.Payload...)
	return nil
}

func (s *Server) handleDestroy(peer Peer, msg messages.DestroyRequest) error {
	p, entry, err := s.owned(peer, msg.NetworkID)
	if err != nil {
		return err
	}
	s.roster.Untrack(p, entry.Entity())
	s.world.Remove(entry.Entity())
	return nil
}

// handleFire relays a fire command at most once per sequence number.
func (s *Server) handleFire(peer Peer, cmd messages.FireCommand) error {
	p, ok := s.roster.Get(peer)
	if !ok {
		return ErrNotJoined
	}
	if cmd.Seq <= p.lastFireSeq {
		return fmt.Errorf("%w: duplicate seq %d", ErrFireRejected, cmd.Seq)
	}
	if !p.limiter.Allow() {
		return fmt.Errorf("%w: rate limited", ErrFireRejected)
	}
	p.lastFireSeq = cmd.Seq

	s.broadcast(messages.FireEvent{Shooter: p.ID, Command: cmd}, p.ID)
	return nil
}

// handleHit accepts a hit from the bullet's owner on another participant's
// tank and tells everyone.
func (s *Server) handleHit(peer Peer, rep messages.HitReport) error {
	p, bullet, err := s.owned(peer, rep.Bullet)
	if err != nil {
		return err
	}
	if netcomponents.NetSpawn.Get(bullet).Kind != netconfig.KindBullet {
		return fmt.Errorf("%w: entity %d is not a bullet", ErrBadHit, rep.Bullet)
	}

	target, ok := s.entry(rep.Target)
	if !ok {
		return fmt.Errorf("%w: target %d", ErrUnknownEntity, rep.Target)
	}
	if netcomponents.NetSpawn.Get(target).Kind != netconfig.KindTank {
		return fmt.Errorf("%w: target %d is not a tank", ErrBadHit, rep.Target)
	}
	victim := netcomponents.NetOwner.Get(target).Participant
	if victim == p.ID {
		return fmt.Errorf("%w: own tank", ErrBadHit)
	}

	log.Printf("[server] participant %d hit participant %d", p.ID, victim)
	s.broadcast(messages.HitEvent{
		Shooter: p.ID,
		Victim:  victim,
		Target:  rep.Target,
		X:       rep.X,
		Y:       rep.Y,
		Z:       rep.Z,
	}, netconfig.NoParticipant)
	return nil
}

// handleDisconnect removes the participant and everything it owned.
func (s *Server) handleDisconnect(peer Peer) {
	p, ok := s.roster.Leave(peer)
	if !ok {
		return
	}
	entities := s.roster.Entities(p)
	for _, entity := range entities {
		if s.world.Valid(entity) {
			s.world.Remove(entity)
		}
	}
	log.Printf("[server] participant %d left, removed %d entities", p.ID, len(entities))
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

func (s *Server) Roster() *Roster {
	return s.roster
}

// ParticipantCount returns the number of joined participants
func (s *Server) ParticipantCount() int {
	return s.roster.Count()
}
