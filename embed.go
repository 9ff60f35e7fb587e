package main

import (
	"embed"
	"io/fs"
)

//go:embed frontend/*.html frontend/*.css frontend/*.js
var frontendFiles embed.FS

// overlayFS returns the overlay assets with the "frontend" prefix stripped.
func overlayFS() (fs.FS, error) {
	return fs.Sub(frontendFiles, "frontend")
}
