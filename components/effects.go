package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

type EffectKind int

const (
	EffectExplosion EffectKind = iota
	EffectMuzzleFlash
)

// EffectData is a local-only visual effect. Progress runs from 0 to 1 over
// the effect's lifetime and the entity is destroyed when the tween finishes.
type EffectData struct {
	Kind     EffectKind
	Tween    *gween.Tween
	Progress float32
}

var Effect = donburi.NewComponentType[EffectData]()
