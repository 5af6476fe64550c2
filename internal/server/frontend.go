package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const notBuiltPage = `<html><body><h1>Frontend not built yet</h1><p>Please build the frontend and place it in the static directory.</p></body></html>`

// handleFrontend serves files from the bundle when the path names one and
// index.html otherwise, so client-side routes survive a reload.
func (s *Server) handleFrontend(w http.ResponseWriter, r *http.Request) {
	if s.frontend == nil {
		writeHTML(w, []byte(notBuiltPage))
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if strings.Contains(name, ".") {
		if info, err := fs.Stat(s.frontend, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, s.frontend, name)
			return
		}
	}

	index, err := fs.ReadFile(s.frontend, "index.html")
	if err != nil {
		writeHTML(w, []byte(notBuiltPage))
		return
	}
	writeHTML(w, index)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
