package systems

import (
	"github.com/tinychicken/tanks-mp/components"
	"github.com/yohamta/donburi"
)

// UpdateEffects advances effect tweens and removes finished effects.
func UpdateEffects(w donburi.World, dt float64) {
	var toRemove []*donburi.Entry

	components.Effect.Each(w, func(e *donburi.Entry) {
		effect := components.Effect.Get(e)
		if effect.Tween == nil {
			toRemove = append(toRemove, e)
			return
		}
		progress, done := effect.Tween.Update(float32(dt))
		effect.Progress = progress
		if done {
			toRemove = append(toRemove, e)
		}
	})

	for _, e := range toRemove {
		e.Remove()
	}
}
