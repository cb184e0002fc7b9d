package components

import (
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/yohamta/donburi"
)

// Transform is the displayed world transform of an entity. Owners write it
// from their motors; mirrors write it from the reconciler.
var Transform = donburi.NewComponentType[gamemath.Transform]()
