package server

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

type asset struct {
	data        []byte
	contentType string
}

// assets serves the overlay from memory, minified once at startup.
type assets struct {
	files    map[string]asset
	fallback http.Handler
	loaded   time.Time
}

func newAssets(fsys fs.FS) (*assets, error) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	a := &assets{
		files:    make(map[string]asset),
		fallback: http.FileServer(http.FS(fsys)),
		loaded:   time.Now(),
	}
	var before, after int
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		mediaType, ok := mediaTypes[path.Ext(name)]
		if !ok {
			return nil
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		out, err := m.Bytes(mediaType, raw)
		if err != nil {
			return errors.Wrapf(err, "minify %s", name)
		}
		a.files[name] = asset{data: out, contentType: mediaType + "; charset=utf-8"}
		before += len(raw)
		after += len(out)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"files":  len(a.files),
		"before": before,
		"after":  after,
	}).Debug("Frontend minified")
	return a, nil
}

func (a *assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	f, ok := a.files[name]
	if !ok {
		a.fallback.ServeHTTP(w, r)
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	http.ServeContent(w, r, name, a.loaded, bytes.NewReader(f.data))
}
