// Package static embeds the browser frontend served by the SPA fallback route.
package static

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var dist embed.FS

// Frontend returns the bundle rooted at dist/.
func Frontend() fs.FS {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		// dist is embedded at build time; Sub only fails on an invalid name
		panic(err)
	}
	return sub
}
