package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/systems/mocks"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"go.uber.org/mock/gomock"
)

const (
	shooterA netconfig.ParticipantID = 1
	victimB  netconfig.ParticipantID = 2
)

var effectQuery = donburi.NewQuery(filter.Contains(components.Effect))

// newTestWorld returns a world with an empty 640x640 pixel collision space.
func newTestWorld() donburi.World {
	w := donburi.NewWorld()
	factory.CreateSpace(w, 640, 640, 32, 32)
	return w
}

func newMockSession(t *testing.T, local netconfig.ParticipantID) (*Session, *mocks.MockSender) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	return NewSession(sender, local), sender
}

func at(x, z float64) gamemath.Transform {
	return gamemath.NewTransform(mgl64.Vec3{x, 0, z})
}

func TestBullet_OwnerHitSendsDestroy(t *testing.T) {
	w := newTestWorld()
	s, sender := newMockSession(t, shooterA)

	factory.CreateTank(w, factory.Identity{Owner: victimB, NetworkID: 7}, at(10, 10), 1)
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, at(10, 10))

	gomock.InOrder(
		sender.EXPECT().SendMessage(gomock.AssignableToTypeOf(messages.HitReport{})).
			DoAndReturn(func(msg any) error {
				hit := msg.(messages.HitReport)
				if hit.Bullet != 5 || hit.Target != 7 {
					t.Errorf("HitReport = %+v, want bullet 5 target 7", hit)
				}
				return nil
			}),
		sender.EXPECT().SendMessage(messages.DestroyRequest{NetworkID: 5}).Return(nil),
	)

	NewBulletSystem(s)(w, 0.001)

	if w.Valid(bullet.Entity()) {
		t.Error("owned bullet still alive after exploding")
	}
	if n := effectQuery.Count(w); n != 1 {
		t.Errorf("explosions = %d, want 1", n)
	}
}

func TestBullet_ReceiverHitIsEffectOnly(t *testing.T) {
	w := newTestWorld()
	// No expectations: any send fails the test.
	s, _ := newMockSession(t, victimB)

	factory.CreateTank(w, factory.Identity{Owner: victimB, NetworkID: 7, Local: true}, at(10, 10), 1)
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5}, at(10, 10))

	system := NewBulletSystem(s)
	system(w, 0.001)

	if !w.Valid(bullet.Entity()) {
		t.Fatal("mirrored bullet removed locally; only the owner destroys it")
	}
	if !components.Bullet.Get(bullet).Exploding {
		t.Error("mirrored bullet did not explode")
	}
	if components.Object.Get(bullet).Object != nil {
		t.Error("exploded bullet still has a collision body")
	}
	if n := effectQuery.Count(w); n != 1 {
		t.Errorf("explosions = %d, want 1", n)
	}

	// Never explodes twice.
	system(w, 0.001)
	if n := effectQuery.Count(w); n != 1 {
		t.Errorf("explosions after second frame = %d, want 1", n)
	}
}

func TestBullet_IgnoresShootersOwnTank(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, shooterA)

	factory.CreateTank(w, factory.Identity{Owner: shooterA, NetworkID: 3, Local: true}, at(10, 10), 0)
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, at(10, 10))

	NewBulletSystem(s)(w, 0.001)

	if !w.Valid(bullet.Entity()) || components.Bullet.Get(bullet).Exploding {
		t.Error("bullet exploded on its shooter's tank")
	}
}

func TestBullet_UnacknowledgedDestroyIsDeferred(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, shooterA)

	factory.CreateTank(w, factory.Identity{Owner: victimB, NetworkID: 7}, at(10, 10), 1)
	factory.CreateBullet(w, factory.Identity{Owner: shooterA, RequestID: 3, Local: true}, at(10, 10))

	NewBulletSystem(s)(w, 0.001)

	if !s.TakeDeferredDestroy(3) {
		t.Error("destroy of unacknowledged bullet was not deferred")
	}
}

func TestBullet_FliesAlongTransformForward(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, shooterA)

	heading := gamemath.Transform{
		Position: mgl64.Vec3{10, 0, 10},
		Rotation: gamemath.YawRotation(gamemath.Right),
	}
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, heading)
	if n := len(components.Bullet.Get(bullet).Extensions()); n != 0 {
		t.Errorf("bullet replicates %d extension fields, want 0", n)
	}

	NewBulletSystem(s)(w, 0.1)

	pos := components.Transform.Get(bullet).Position
	if want := (mgl64.Vec3{11, 0, 10}); pos.Sub(want).Len() > 1e-6 {
		t.Errorf("bullet at %v, want %v", pos, want)
	}
	if got := components.Bullet.Get(bullet).Remaining; math.Abs(got-99) > 1e-9 {
		t.Errorf("Remaining = %v, want 99", got)
	}
}

func TestBullet_ReflectsOffWall(t *testing.T) {
	w := newTestWorld()
	s, _ := newMockSession(t, shooterA)

	// Wall spanning TMX x 128..192, y 200..232; the bullet flies +Z toward it.
	factory.CreateWall(w, 128, 200, 64, 32)
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, at(10, 12))

	NewBulletSystem(s)(w, 0.1)

	data := components.Bullet.Get(bullet)
	if data.Exploding {
		t.Fatal("bullet exploded with durability left")
	}
	if data.Durability != 0 {
		t.Errorf("Durability = %d, want 0", data.Durability)
	}
	transform := components.Transform.Get(bullet)
	if fwd := transform.Forward(); fwd.Z() > -0.99 {
		t.Errorf("forward after bounce = %v, want -Z", fwd)
	}
	if z := transform.Position.Z(); math.Abs(z-12.35) > 1e-6 {
		t.Errorf("z after bounce = %v, want flush with wall at 12.35", z)
	}
}

func TestBullet_ExplodesOnWallWithoutDurability(t *testing.T) {
	w := newTestWorld()
	s, sender := newMockSession(t, shooterA)

	factory.CreateWall(w, 128, 200, 64, 32)
	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, at(10, 12))
	components.Bullet.Get(bullet).Durability = 0

	sender.EXPECT().SendMessage(messages.DestroyRequest{NetworkID: 5}).Return(nil)

	NewBulletSystem(s)(w, 0.1)

	if w.Valid(bullet.Entity()) {
		t.Error("bullet without durability survived a wall hit")
	}
}

func TestBullet_ExpiresAtRange(t *testing.T) {
	w := newTestWorld()
	s, sender := newMockSession(t, shooterA)

	bullet := factory.CreateBullet(w, factory.Identity{Owner: shooterA, NetworkID: 5, Local: true}, at(10, 10))
	components.Bullet.Get(bullet).Remaining = 0.005

	sender.EXPECT().SendMessage(messages.DestroyRequest{NetworkID: 5}).Return(nil)

	NewBulletSystem(s)(w, 0.001)

	if w.Valid(bullet.Entity()) {
		t.Error("bullet outlived its range")
	}
}
