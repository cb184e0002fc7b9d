package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/yohamta/donburi"
	"go.uber.org/mock/gomock"
)

func TestHasLineOfSight(t *testing.T) {
	w := newTestWorld()
	factory.CreateWall(w, 192, 0, 32, 320) // world x 12..14, z 0..20
	entry, _ := components.Space.First(w)
	space := components.Space.Get(entry)

	if hasLineOfSight(space, mgl64.Vec3{5, 0, 5}, mgl64.Vec3{20, 0, 5}) {
		t.Error("saw through the wall")
	}
	if !hasLineOfSight(space, mgl64.Vec3{5, 0, 25}, mgl64.Vec3{20, 0, 25}) {
		t.Error("blocked past the end of the wall")
	}
	if !hasLineOfSight(nil, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}) {
		t.Error("no space should never block")
	}
}

func TestHasLineOfSight_OnlyWallsBlock(t *testing.T) {
	w := newTestWorld()
	factory.CreateTank(w, factory.Identity{Owner: victimB, NetworkID: 2}, at(12, 5), 1)
	entry, _ := components.Space.First(w)
	space := components.Space.Get(entry)

	if !hasLineOfSight(space, mgl64.Vec3{5, 0, 5}, mgl64.Vec3{20, 0, 5}) {
		t.Fatal("a tank body blocked line of sight")
	}

	factory.CreateWall(w, 256, 0, 32, 160) // world x 16..18, z 0..10
	if hasLineOfSight(space, mgl64.Vec3{5, 0, 5}, mgl64.Vec3{20, 0, 5}) {
		t.Error("saw through the wall")
	}
}

func TestBot_ShootsNearestVisibleTank(t *testing.T) {
	w := newTestWorld()
	s, sender := newMockSession(t, shooterA)
	sender.EXPECT().SendMessage(gomock.Any()).Return(nil).AnyTimes()
	SpawnLocalTank(w, s, at(5, 5), 0)

	factory.CreateWall(w, 192, 0, 32, 160) // hides the far tank at z 5
	factory.CreateTank(w, factory.Identity{Owner: victimB, NetworkID: 2}, at(30, 5), 1)
	factory.CreateTank(w, factory.Identity{Owner: 3, NetworkID: 3}, at(5, 30), 2)

	var points []mgl64.Vec3
	PointSet.Subscribe(w, func(w donburi.World, evt PointSetEvent) {
		points = append(points, evt.Point)
	})

	bot := NewBot(1)
	bot.Update(w, s, 10)
	ProcessInputEvents(w)

	if len(points) != 1 {
		t.Fatalf("got %d shots, want 1", len(points))
	}
	if !vecNear(points[0], mgl64.Vec3{5, 0, 30}) {
		t.Errorf("shot at %v, want the visible tank at (5,0,30)", points[0])
	}
}

func TestBot_SameSeedSameHeadings(t *testing.T) {
	a, b := NewBot(7), NewBot(7)
	for i := 0; i < 10; i++ {
		if ha, hb := a.nextHeading(), b.nextHeading(); ha != hb {
			t.Fatalf("heading %d differs: %v vs %v", i, ha, hb)
		}
	}
}

func TestMergeProfile(t *testing.T) {
	saved := &Profile{PlayerName: "rook", LastServer: "ws://old:8080"}

	got := MergeProfile(saved, "", "ws://new:8080")
	if got.PlayerName != "rook" || got.LastServer != "ws://new:8080" {
		t.Errorf("MergeProfile = %+v", got)
	}
	if got := MergeProfile(nil, "ace", ""); got.PlayerName != "ace" || got.LastServer != "" {
		t.Errorf("MergeProfile(nil) = %+v", got)
	}
}
