package scenes

import (
	"errors"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/network"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/systems"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	cfg "github.com/tinychicken/tanks-mp/config"
)

var ErrDisconnected = errors.New("disconnected from server")

// NetClient is the part of the network client the scene needs.
type NetClient interface {
	systems.Sender
	State() network.ClientState
	LatestSnapshot() ([]network.RemoteEntity, bool)
	DrainSpawnReplies() []any
	DrainFireEvents() []messages.FireEvent
	DrainHitEvents() []messages.HitEvent
}

var (
	localNetworked  = donburi.NewQuery(filter.Contains(tags.Local, components.Networked))
	mirroredEntries = donburi.NewQuery(filter.Contains(tags.Mirror, esync.NetworkIdComponent))
)

// NetworkedScene is one participant's view of a room: its own tank and
// bullets, mirrors of everyone else's, and the loop that drives them.
type NetworkedScene struct {
	world     donburi.World
	netClient NetClient
	session   *systems.Session
	loop      *Loop
	arena     *leveldata.ArenaData
	join      messages.JoinAccepted
	bot       *systems.Bot
	once      sync.Once

	bulletSystem func(w donburi.World, dt float64)
	networkTick  func(w donburi.World)

	presentIDs map[esync.NetworkId]bool
	lastFire   map[netconfig.ParticipantID]uint32
}

func NewNetworkedScene(client NetClient, arena *leveldata.ArenaData, join messages.JoinAccepted) *NetworkedScene {
	return &NetworkedScene{
		world:      donburi.NewWorld(),
		netClient:  client,
		session:    systems.NewSession(client, join.ParticipantID),
		arena:      arena,
		join:       join,
		presentIDs: make(map[esync.NetworkId]bool),
		lastFire:   make(map[netconfig.ParticipantID]uint32),
	}
}

// EnableBot lets a seeded bot drive the local tank.
func (ns *NetworkedScene) EnableBot(seed int64) {
	ns.bot = systems.NewBot(seed)
}

func (ns *NetworkedScene) World() donburi.World {
	return ns.world
}

func (ns *NetworkedScene) Session() *systems.Session {
	return ns.session
}

// LocalTank returns this participant's tank.
func (ns *NetworkedScene) LocalTank() (*donburi.Entry, bool) {
	return ns.session.Registry.Tank(ns.world, ns.session.Local)
}

// Update applies everything the server sent since the last frame and then
// advances the simulation by frameDt seconds.
func (ns *NetworkedScene) Update(frameDt float64) error {
	ns.once.Do(ns.configure)

	state := ns.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		log.Println("[sim] disconnected, stopping")
		return ErrDisconnected
	}

	for _, reply := range ns.netClient.DrainSpawnReplies() {
		switch msg := reply.(type) {
		case messages.SpawnAccepted:
			ns.onSpawnAccepted(msg)
		case messages.SpawnRejected:
			ns.onSpawnRejected(msg)
		}
	}
	if snap, ok := ns.netClient.LatestSnapshot(); ok {
		ns.applySnapshot(snap)
	}
	for _, evt := range ns.netClient.DrainFireEvents() {
		ns.onFire(evt)
	}
	for _, evt := range ns.netClient.DrainHitEvents() {
		ns.onHit(evt)
	}

	ns.loop.Advance(frameDt)
	return nil
}

func (ns *NetworkedScene) configure() {
	w := ns.world

	if ns.arena != nil {
		factory.CreateArena(w, ns.arena)
	}
	factory.CreateCamera(w)
	factory.CreateJoystick(w)

	tank := systems.SpawnLocalTank(w, ns.session, ns.spawnTransform(), ns.join.SpawnIndex)
	systems.SetInverted(tank, ns.join.Inverted)
	systems.SetCameraTarget(w, tank)

	systems.SubscribeMoveController(w)
	systems.SubscribeCannon(w, ns.session)

	ns.bulletSystem = systems.NewBulletSystem(ns.session)
	ns.networkTick = systems.NewNetworkTick(ns.session)

	ns.loop = &Loop{
		FixedStep:   cfg.Sim.FixedStep,
		MaxSubSteps: cfg.Sim.MaxSubSteps,
		NetInterval: 1 / float64(cfg.Net.SendRate),
		FixedUpdate: ns.fixedUpdate,
		Update:      ns.update,
		NetworkTick: func() { ns.networkTick(ns.world) },
	}
}

func (ns *NetworkedScene) fixedUpdate(dt float64) {
	w := ns.world
	systems.ProcessInputEvents(w)
	systems.UpdateTankMotors(w, dt)
	ns.bulletSystem(w, dt)
	systems.UpdateReconciliation(w, dt)
}

func (ns *NetworkedScene) update(dt float64) {
	w := ns.world
	if ns.bot != nil {
		ns.bot.Update(w, ns.session, dt)
	}
	systems.UpdateEffects(w, dt)
	systems.UpdateCamera(w, dt)
}

// spawnTransform is where the local tank enters the arena, facing its centre.
func (ns *NetworkedScene) spawnTransform() gamemath.Transform {
	if ns.arena == nil {
		return gamemath.NewTransform(mgl64.Vec3{})
	}
	sp, ok := ns.arena.Spawn(ns.join.SpawnIndex)
	if !ok {
		return gamemath.NewTransform(mgl64.Vec3{})
	}
	pos := sp.World()
	width, depth := ns.arena.WorldSize()
	centre := mgl64.Vec3{width / 2, 0, depth / 2}
	return gamemath.Transform{Position: pos, Rotation: gamemath.YawRotation(centre.Sub(pos))}
}

func findLocal(w donburi.World, requestID uint32) (*donburi.Entry, bool) {
	var found *donburi.Entry
	localNetworked.Each(w, func(entry *donburi.Entry) {
		if found == nil && components.Networked.Get(entry).RequestID == requestID {
			found = entry
		}
	})
	return found, found != nil
}

func (ns *NetworkedScene) onSpawnAccepted(msg messages.SpawnAccepted) {
	deferred := ns.session.TakeDeferredDestroy(msg.RequestID)

	entry, ok := findLocal(ns.world, msg.RequestID)
	if !ok || deferred {
		// Gone before the server knew it existed.
		ns.session.Send(messages.DestroyRequest{NetworkID: msg.NetworkID})
		return
	}
	components.Networked.Get(entry).NetworkID = msg.NetworkID
	log.Printf("[sim] %s %d acknowledged as %d", msg.Kind, msg.RequestID, msg.NetworkID)
}

func (ns *NetworkedScene) onSpawnRejected(msg messages.SpawnRejected) {
	ns.session.TakeDeferredDestroy(msg.RequestID)
	log.Printf("[sim] spawn %d rejected: %s", msg.RequestID, msg.Reason)

	entry, ok := findLocal(ns.world, msg.RequestID)
	if !ok || !entry.HasComponent(tags.Bullet) {
		return
	}
	factory.RemoveBody(ns.world, entry)
	entry.Remove()
}

// applySnapshot creates mirrors for entities other participants own, hands
// each mirror the latest relayed state, and removes mirrors the server no
// longer has.
func (ns *NetworkedScene) applySnapshot(snapshot []network.RemoteEntity) {
	w := ns.world
	clear(ns.presentIDs)

	for _, remote := range snapshot {
		ns.presentIDs[remote.ID] = true
		if remote.Owner == ns.session.Local {
			continue
		}

		var entry *donburi.Entry
		if entity := esync.FindByNetworkId(w, remote.ID); w.Valid(entity) {
			entry = w.Entry(entity)
		} else {
			entry = ns.createMirror(remote)
			if entry == nil {
				continue
			}
		}

		net := components.Networked.Get(entry)
		if !remote.State.Empty() && remote.State.Seq > net.Inbound.Seq {
			net.Inbound = remote.State
		}
	}

	var gone []*donburi.Entry
	mirroredEntries.Each(w, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil || !ns.presentIDs[*id] {
			gone = append(gone, entry)
		}
	})
	for _, entry := range gone {
		ns.removeMirror(entry)
	}
}

func (ns *NetworkedScene) createMirror(remote network.RemoteEntity) *donburi.Entry {
	id := factory.Identity{Owner: remote.Owner, NetworkID: remote.ID}
	switch remote.Kind {
	case netconfig.KindTank:
		tank := factory.CreateTank(ns.world, id, remote.Spawn, 0)
		ns.session.Registry.Add(remote.Owner, tank.Entity())
		return tank
	case netconfig.KindBullet:
		return factory.CreateBullet(ns.world, id, remote.Spawn)
	default:
		log.Printf("[sim] entity %d has unknown kind %s", remote.ID, remote.Kind)
		return nil
	}
}

func (ns *NetworkedScene) removeMirror(entry *donburi.Entry) {
	if entry.HasComponent(components.Tank) {
		owner := components.Networked.Get(entry).Owner
		ns.session.Registry.Remove(owner, entry.Entity())
	}
	factory.RemoveBody(ns.world, entry)
	entry.Remove()
}

// onFire plays another participant's muzzle flash once per shot.
func (ns *NetworkedScene) onFire(evt messages.FireEvent) {
	if evt.Shooter == ns.session.Local {
		return
	}
	if evt.Command.Seq <= ns.lastFire[evt.Shooter] {
		return
	}
	ns.lastFire[evt.Shooter] = evt.Command.Seq
	cmd := evt.Command
	factory.CreateMuzzleFlash(ns.world, mgl64.Vec3{cmd.X, cmd.Y, cmd.Z})
}

// onHit respawns the local tank when it was the victim.
func (ns *NetworkedScene) onHit(evt messages.HitEvent) {
	if evt.Victim != ns.session.Local {
		return
	}
	tank, ok := ns.LocalTank()
	if !ok {
		return
	}
	log.Printf("[sim] hit by participant %d, respawning", evt.Shooter)

	spawn := ns.spawnTransform()
	components.Transform.SetValue(tank, spawn)
	data := components.Tank.Get(tank)
	data.Velocity = mgl64.Vec3{}
	data.Turret.Yaw = gamemath.Yaw(spawn.Rotation)
	if obj := components.Object.Get(tank).Object; obj != nil {
		factory.PlaceBody(obj, spawn.Position)
	}
	systems.SetCameraTarget(ns.world, tank)
}

// Press, Drag, Release and Click feed pointer input into the virtual stick.

func (ns *NetworkedScene) Press() {
	systems.PressJoystick(ns.world)
}

func (ns *NetworkedScene) Drag(pos mgl64.Vec2) {
	systems.DragJoystick(ns.world, pos)
}

func (ns *NetworkedScene) Release() {
	systems.ReleaseJoystick(ns.world)
}

func (ns *NetworkedScene) Click(pos mgl64.Vec2) {
	systems.ClickJoystick(ns.world, pos)
}
