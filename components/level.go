package components

import (
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/yohamta/donburi"
)

type LevelData struct {
	Arena *leveldata.ArenaData
}

var Level = donburi.NewComponentType[LevelData]()
