package factory

import (
	"log"

	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/yohamta/donburi"
)

// CreateArena builds the collision space and walls for an arena.
func CreateArena(w donburi.World, arena *leveldata.ArenaData) *donburi.Entry {
	cell := arena.TileSize
	if cell <= 0 {
		cell = 32
	}
	CreateSpace(w, arena.MapWidth, arena.MapHeight, cell, cell)

	for _, r := range arena.Walls {
		CreateWall(w, r.X, r.Y, r.W, r.H)
	}

	level := archetypes.Level.Spawn(w)
	components.Level.SetValue(level, components.LevelData{Arena: arena})

	log.Printf("[sim] loaded arena %q: %d walls, %d spawn points",
		arena.Name, len(arena.Walls), len(arena.SpawnPoints))
	return level
}
