package assets

import (
	"embed"
	"io/fs"
)

//go:embed all:arenas
var assetFS embed.FS

// ArenaDir is the directory inside FS that holds arena .tmx files.
const ArenaDir = "arenas"

// FS returns the embedded asset tree. The server and participants both load
// arenas from it so they agree on spawn points.
func FS() fs.FS {
	return assetFS
}
