// Package web embeds the browser client served alongside the API.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Assets returns the client files rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// IndexHTML returns the single page shell.
func IndexHTML() []byte {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}
	return data
}
