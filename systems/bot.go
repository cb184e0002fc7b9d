package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var mirrorTanks = donburi.NewQuery(filter.Contains(tags.Tank, tags.Mirror))

// Bot drives the local tank of a headless participant by publishing the same
// input events a player's stick would.
type Bot struct {
	rng *rand.Rand

	sinceTurn float64
	sinceShot float64
}

// NewBot returns a bot with a fixed seed so runs can be replayed.
func NewBot(seed int64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed))}
}

// Update advances the bot's timers and publishes input for this frame. It
// wanders on a random heading and shoots at the nearest visible tank.
func (b *Bot) Update(w donburi.World, s *Session, dt float64) {
	tank, ok := s.Registry.Tank(w, s.Local)
	if !ok {
		return
	}
	b.sinceTurn += dt
	b.sinceShot += dt

	if b.sinceTurn >= cfg.Bot.TurnInterval {
		b.sinceTurn = 0
		MoveInput.Publish(w, b.nextHeading())
	}

	if b.sinceShot >= cfg.Bot.ShotInterval {
		from := components.Transform.Get(tank).Position
		if target, ok := nearestVisibleTank(w, from); ok {
			b.sinceShot = 0
			PointSet.Publish(w, PointSetEvent{Point: target})
		}
	}
}

func (b *Bot) nextHeading() MoveInputEvent {
	if b.rng.Float64() < cfg.Bot.Wander {
		return MoveInputEvent{}
	}
	angle := b.rng.Float64() * 2 * math.Pi
	return MoveInputEvent{
		Value:     mgl64.Vec2{math.Cos(angle), math.Sin(angle)},
		Activated: true,
	}
}

// nearestVisibleTank returns the position of the closest mirrored tank that
// no wall hides from.
func nearestVisibleTank(w donburi.World, from mgl64.Vec3) (mgl64.Vec3, bool) {
	var space *resolv.Space
	if spaceEntry, ok := components.Space.First(w); ok {
		space = components.Space.Get(spaceEntry)
	}

	var best mgl64.Vec3
	bestDist := math.Inf(1)
	mirrorTanks.Each(w, func(entry *donburi.Entry) {
		pos := components.Transform.Get(entry).Position
		dist := pos.Sub(from).Len()
		if dist >= bestDist {
			return
		}
		if !hasLineOfSight(space, from, pos) {
			return
		}
		best, bestDist = pos, dist
	})
	return best, !math.IsInf(bestDist, 1)
}

// hasLineOfSight walks the segment between two world points and reports
// whether it stays clear of walls.
func hasLineOfSight(space *resolv.Space, from, to mgl64.Vec3) bool {
	if space == nil {
		return true
	}

	x1, y1 := leveldata.ToPixels(from.X()), leveldata.ToPixels(from.Z())
	x2, y2 := leveldata.ToPixels(to.X()), leveldata.ToPixels(to.Z())
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return true
	}
	dx /= dist
	dy /= dist

	stepSize := cfg.Bot.LOSStepSize
	checkSize := cfg.Bot.LOSCheckSize
	var walls []*resolv.Object
	for _, obj := range space.Objects() {
		if obj.HasTags(tags.ResolvWall) {
			walls = append(walls, obj)
		}
	}

	for d := stepSize; d < dist-stepSize; d += stepSize {
		checkX := x1 + dx*d
		checkY := y1 + dy*d

		for _, obj := range walls {
			if checkX+checkSize > obj.X && checkX-checkSize < obj.X+obj.W &&
				checkY+checkSize > obj.Y && checkY-checkSize < obj.Y+obj.H {
				return false
			}
		}
	}
	return true
}
