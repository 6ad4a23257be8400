// Package webui provides the embedded dashboard assets. The map page is
// compiled into the binary so the service deploys as a single file.
package webui

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// Assets returns the dashboard filesystem rooted at the asset directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// The embedded tree is fixed at compile time; failing here means the
		// binary itself is broken.
		panic(err)
	}
	return sub
}
