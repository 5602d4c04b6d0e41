// file: internal/server/static.go
// version: 1.0.0
// guid: 8e1712ef-1d34-42fd-adf7-6567a3a3b2c9

package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

func staticHandler() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
