// Package admin serves the embedded operator page for reviewing pending
// registrations and changing user levels.
package admin

import (
	"io/fs"
	"net/http"
	"strings"
)

// Handler returns an http.Handler that serves the embedded admin page.
// It expects to be mounted behind http.StripPrefix so paths arrive without
// the mount prefix. Any path that doesn't match a static file falls back to
// index.html.
func Handler() http.Handler {
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("admin: failed to get static sub-filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(staticRoot))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "" || path == "/" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			fileServer.ServeHTTP(w, r)
			return
		}

		cleanPath := strings.TrimPrefix(path, "/")
		if f, err := staticRoot.Open(cleanPath); err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
