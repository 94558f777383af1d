package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// StylesheetPath is the URL of the global stylesheet.
const StylesheetPath = "/static/globals.css"

//go:embed static
var staticFiles embed.FS

// StaticHandler serves the embedded assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
