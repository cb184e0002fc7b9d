package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObjectData is an entity's collision body in the arena space. Body
// coordinates are TMX pixels; the entity's Transform is the source of truth
// and the body follows it.
type ObjectData struct {
	*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()
