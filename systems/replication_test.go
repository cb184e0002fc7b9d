package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"go.uber.org/mock/gomock"
)

func TestNetworkTick_OwnerSendsAcknowledgedState(t *testing.T) {
	w := newTestWorld()
	s, sender := newMockSession(t, shooterA)

	factory.CreateTank(w, factory.Identity{Owner: shooterA, NetworkID: 9, Local: true}, at(3, 4), 0)
	// Spawn still in flight: never encoded.
	factory.CreateTank(w, factory.Identity{Owner: shooterA, RequestID: 2, Local: true}, at(5, 5), 0)

	var updates []messages.StateUpdate
	sender.EXPECT().SendMessage(gomock.AssignableToTypeOf(messages.StateUpdate{})).
		DoAndReturn(func(msg any) error {
			updates = append(updates, msg.(messages.StateUpdate))
			return nil
		}).Times(2)

	tick := NewNetworkTick(s)
	tick(w)
	tick(w)

	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	for i, u := range updates {
		if u.NetworkID != 9 {
			t.Errorf("update %d for entity %d, want 9", i, u.NetworkID)
		}
		if u.Seq != uint32(i+1) {
			t.Errorf("update %d Seq = %d, want %d", i, u.Seq, i+1)
		}
	}
}

// ownerPayload encodes a tank state the way its owner would.
func ownerPayload(t *testing.T, pos mgl64.Vec3, turretYaw float64) replication.Snapshot {
	t.Helper()
	turret := &components.TurretData{Yaw: turretYaw}
	rep := replication.NewReplicator(replication.NewReconciler(4, 5), turret)
	snap, err := rep.Encode(gamemath.NewTransform(pos))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return snap
}

func TestMirror_InterpolatesAndSnaps(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, victimB)

	mirror := factory.CreateTank(w, factory.Identity{Owner: shooterA, NetworkID: 9}, at(0, 0), 0)
	tick := NewNetworkTick(s)

	// No snapshot yet: stays at the spawn transform.
	UpdateReconciliation(w, 0.1)
	if pos := components.Transform.Get(mirror).Position; pos != (mgl64.Vec3{}) {
		t.Fatalf("mirror moved before any snapshot: %v", pos)
	}

	net := components.Networked.Get(mirror)
	net.Inbound = ownerPayload(t, mgl64.Vec3{1, 0, 0}, math.Pi/2)
	tick(w)
	if !net.Inbound.Empty() {
		t.Error("inbound snapshot not consumed")
	}

	UpdateReconciliation(w, 0.1)
	if pos := components.Transform.Get(mirror).Position; !vecNear(pos, mgl64.Vec3{0.5, 0, 0}) {
		t.Errorf("after interpolation = %v, want (0.5,0,0)", pos)
	}
	if yaw := components.Tank.Get(mirror).Turret.Yaw; math.Abs(yaw-math.Pi/4) > 1e-9 {
		t.Errorf("turret yaw = %v, want pi/4", yaw)
	}

	// A respawn across the arena snaps.
	net.Inbound = ownerPayload(t, mgl64.Vec3{20, 0, 0}, 0)
	net.Inbound.Seq = 2
	tick(w)
	UpdateReconciliation(w, 0.1)
	if pos := components.Transform.Get(mirror).Position; !vecNear(pos, mgl64.Vec3{20, 0, 0}) {
		t.Errorf("after snap = %v, want (20,0,0)", pos)
	}
	if yaw := components.Tank.Get(mirror).Turret.Yaw; yaw != 0 {
		t.Errorf("turret yaw after snap = %v, want 0", yaw)
	}

	obj := components.Object.Get(mirror).Object
	if center := factory.BodyCenter(obj, 0); !vecNear(center, mgl64.Vec3{20, 0, 0}) {
		t.Errorf("collision body at %v, want (20,0,0)", center)
	}
}

func TestMirror_ExplodedBulletStaysPut(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, victimB)

	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5}, at(0, 0))
	components.Bullet.Get(bullet).Exploding = true

	net := components.Networked.Get(bullet)
	net.Inbound = ownerPayload(t, mgl64.Vec3{1, 0, 0}, 0)
	NewNetworkTick(s)(w)
	UpdateReconciliation(w, 0.1)

	if pos := components.Transform.Get(bullet).Position; pos != (mgl64.Vec3{}) {
		t.Errorf("exploded bullet moved to %v", pos)
	}
}
