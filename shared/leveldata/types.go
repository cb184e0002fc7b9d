// Package leveldata provides TMX arena parsing shared between participants and
// the server. It has no dependencies on donburi or resolv; pure data only.
package leveldata

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PixelsPerUnit converts TMX pixel coordinates to world units. The TMX x axis
// is world +X and the TMX y axis is world +Z.
const PixelsPerUnit = 16.0

// ArenaData holds all collision-relevant data parsed from a TMX arena file.
// Coordinates are in TMX pixels.
type ArenaData struct {
	Name        string
	Walls       []WallRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
	TileSize    int
}

// WallRect represents a solid wall tile.
type WallRect struct {
	X, Y, W, H float64
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y  float64
	Index int
}

// World returns the spawn position on the ground plane in world units.
func (s SpawnPoint) World() mgl64.Vec3 {
	return mgl64.Vec3{ToWorld(s.X), 0, ToWorld(s.Y)}
}

// ToWorld converts a TMX pixel distance to world units.
func ToWorld(px float64) float64 {
	return px / PixelsPerUnit
}

// ToPixels converts a world distance to TMX pixels.
func ToPixels(units float64) float64 {
	return units * PixelsPerUnit
}

// Spawn returns the spawn point for the given index, clamped to the points
// the arena defines. It reports false when the arena has none.
func (a *ArenaData) Spawn(index int) (SpawnPoint, bool) {
	if len(a.SpawnPoints) == 0 {
		return SpawnPoint{}, false
	}
	index = max(0, min(index, len(a.SpawnPoints)-1))
	return a.SpawnPoints[index], true
}

// WorldSize returns the arena's extent along world X and Z.
func (a *ArenaData) WorldSize() (float64, float64) {
	return ToWorld(float64(a.MapWidth)), ToWorld(float64(a.MapHeight))
}
