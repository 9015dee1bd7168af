package handlers

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// StaticHandler serves the embedded stylesheet and scripts
type StaticHandler struct {
	files   fs.FS
	modTime time.Time
}

// NewStaticHandler creates a static handler over files
func NewStaticHandler(files fs.FS) *StaticHandler {
	return &StaticHandler{files: files, modTime: time.Now()}
}

// ServeHTTP serves /static/<name>
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/static/")
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}

	file, err := h.files.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch path.Ext(name) {
	case ".css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	http.ServeContent(w, r, stat.Name(), h.modTime, content)
}
