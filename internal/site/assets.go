package site

import (
	"net/http"
	"path"
	"strings"
)

type asset struct {
	contentType string
	body        string
}

var assets = map[string]asset{
	"style.css": {contentType: "text/css; charset=utf-8", body: cssContent},
	"app.js":    {contentType: "text/javascript; charset=utf-8", body: jsContent},
}

// AssetNames lists the static assets every page links to.
func AssetNames() []string {
	return []string{"style.css", "app.js"}
}

// AssetHandler serves the page assets by base name. Mount it behind
// http.StripPrefix.
func AssetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Base(strings.TrimPrefix(r.URL.Path, "/"))
		a, ok := assets[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", a.contentType)
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write([]byte(a.body))
	})
}
