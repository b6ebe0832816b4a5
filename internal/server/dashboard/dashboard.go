// Package dashboard renders the browser client for the progress tracker.
package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed index.html
var indexHTML string

var page = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	PlayerURL string
}

// Dashboard serves the single page client. The page is rendered once at construction.
type Dashboard struct {
	body []byte
}

// New renders the page with the given web player base URL.
func New(playerURL string) (*Dashboard, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{PlayerURL: playerURL}); err != nil {
		return nil, err
	}
	return &Dashboard{body: buf.Bytes()}, nil
}

// Routes matches only the root path.
func (d *Dashboard) Routes() []string {
	return []string{"GET /{$}"}
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(d.body)
}
