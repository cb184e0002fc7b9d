package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/tinychicken/tanks-mp/archetypes"
	"github.com/tinychicken/tanks-mp/components"
	cfg "github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/yohamta/donburi"
)

// CreateExplosion plays a local explosion at pos. Effects are never networked.
func CreateExplosion(w donburi.World, pos mgl64.Vec3) *donburi.Entry {
	return createEffect(w, components.EffectExplosion, pos,
		gween.New(0, 1, float32(cfg.Effect.ExplosionDuration), ease.OutQuad))
}

// CreateMuzzleFlash plays a short flash at a cannon's muzzle.
func CreateMuzzleFlash(w donburi.World, pos mgl64.Vec3) *donburi.Entry {
	return createEffect(w, components.EffectMuzzleFlash, pos,
		gween.New(0, 1, float32(cfg.Effect.MuzzleDuration), ease.Linear))
}

func createEffect(w donburi.World, kind components.EffectKind, pos mgl64.Vec3, tw *gween.Tween) *donburi.Entry {
	effect := archetypes.Effect.Spawn(w)
	components.Transform.SetValue(effect, gamemath.NewTransform(pos))
	components.Effect.SetValue(effect, components.EffectData{
		Kind:  kind,
		Tween: tw,
	})
	return effect
}
