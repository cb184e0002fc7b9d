package core

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/tags"
)

// ServerArena holds the server's collision space and spawn data for an arena.
// The server never simulates entities; the space only vets spawn positions.
type ServerArena struct {
	Name        string
	Space       *resolv.Space
	SpawnPoints []leveldata.SpawnPoint
	MapWidth    int
	MapHeight   int
}

// NewServerArena builds a resolv.Space from parsed arena data.
func NewServerArena(data *leveldata.ArenaData) *ServerArena {
	cell := data.TileSize
	if cell <= 0 {
		cell = 32
	}
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, cell, cell)

	for _, r := range data.Walls {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvWall)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}

	log.Printf("[server] loaded arena %q: %d walls, %d spawn points, %dx%d map",
		data.Name, len(data.Walls), len(data.SpawnPoints), data.MapWidth, data.MapHeight)

	return &ServerArena{
		Name:        data.Name,
		Space:       space,
		SpawnPoints: data.SpawnPoints,
		MapWidth:    data.MapWidth,
		MapHeight:   data.MapHeight,
	}
}

// LoadServerArena loads one arena by name from the given asset tree.
func LoadServerArena(fsys fs.FS, dir, name string) (*ServerArena, error) {
	arenas, names, err := leveldata.LoadAllArenas(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("load all arenas: %w", err)
	}
	data, ok := arenas[name]
	if !ok {
		return nil, fmt.Errorf("arena %q not found (have %v)", name, names)
	}
	return NewServerArena(data), nil
}

// InBounds reports whether a world position lies within the map.
func (a *ServerArena) InBounds(pos mgl64.Vec3) bool {
	x, y := leveldata.ToPixels(pos.X()), leveldata.ToPixels(pos.Z())
	return x >= 0 && y >= 0 && x < float64(a.MapWidth) && y < float64(a.MapHeight)
}

// Contains reports whether a world position lies inside the arena and clear
// of every wall.
func (a *ServerArena) Contains(pos mgl64.Vec3) bool {
	if !a.InBounds(pos) {
		return false
	}
	x, y := leveldata.ToPixels(pos.X()), leveldata.ToPixels(pos.Z())

	cx, cy := a.Space.WorldToSpace(x, y)
	cell := a.Space.Cell(cx, cy)
	if cell == nil {
		return true
	}
	for _, obj := range cell.Objects {
		if !obj.HasTags(tags.ResolvWall) {
			continue
		}
		if x >= obj.X && x < obj.X+obj.W && y >= obj.Y && y < obj.Y+obj.H {
			return false
		}
	}
	return true
}

// Slots is the number of distinct spawn points, at least one.
func (a *ServerArena) Slots() int {
	return max(1, len(a.SpawnPoints))
}
