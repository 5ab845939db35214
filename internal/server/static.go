package server

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// staticFileServer serves the embedded assets. Directory listings and unknown
// files are 404s.
type staticFileServer struct {
	fileServer http.Handler
	fileSystem fs.FS
}

func newStaticFileServer() *staticFileServer {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return &staticFileServer{
		fileServer: http.FileServer(http.FS(sub)),
		fileSystem: sub,
	}
}

func (s *staticFileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static")
	name := strings.TrimPrefix(path, "/")

	info, err := fs.Stat(s.fileSystem, name)
	if name == "" || err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + name
	s.fileServer.ServeHTTP(w, r2)
}
