package archetypes

import (
	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
)

var (
	Tank = newArchetype(
		tags.Tank,
		components.Transform,
		components.Tank,
		components.Object,
		components.Networked,
	)
	Bullet = newArchetype(
		tags.Bullet,
		components.Transform,
		components.Bullet,
		components.Object,
		components.Networked,
	)
	Effect = newArchetype(
		tags.Effect,
		components.Transform,
		components.Effect,
	)
	Wall = newArchetype(
		tags.Wall,
		components.Object,
	)
	Space = newArchetype(
		components.Space,
	)
	Level = newArchetype(
		components.Level,
	)
	Camera = newArchetype(
		components.Camera,
	)
	Joystick = newArchetype(
		components.Joystick,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

// Spawn creates an entity with the archetype's components plus any extras.
func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	all := make([]donburi.IComponentType, 0, len(a.components)+len(cs))
	all = append(all, a.components...)
	all = append(all, cs...)
	return w.Entry(w.Create(all...))
}
