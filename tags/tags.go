package tags

import "github.com/yohamta/donburi"

var (
	Tank   = donburi.NewTag().SetName("Tank")
	Bullet = donburi.NewTag().SetName("Bullet")
	Effect = donburi.NewTag().SetName("Effect")
	Wall   = donburi.NewTag().SetName("Wall")

	// Local marks entities this participant owns and writes state for.
	Local = donburi.NewTag().SetName("Local")
	// Mirror marks entities another participant owns.
	Mirror = donburi.NewTag().SetName("Mirror")
)

// Resolv tags for collision queries
const (
	ResolvWall   = "wall"
	ResolvTank   = "Tank"
	ResolvBullet = "Bullet"
)
