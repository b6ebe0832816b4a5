package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Catalog describes the JSON payloads served by [NewUpstreamServer].
//
// Paths are relative to the API root, e.g. "/batches" or "/B1/subjects/S1/lectures".
// Each value is wrapped in a `{ "data": ... }` envelope. Raw bodies are served verbatim.
// Statuses overrides the response code for a path.
type Catalog struct {
	Data     map[string]any
	Raw      map[string]string
	Statuses map[string]int
}

// UpstreamServer is a running fake content API.
type UpstreamServer struct {
	*httptest.Server
	requests atomic.Int64
}

// APIRoot returns the API root to configure the client with.
func (u *UpstreamServer) APIRoot() string {
	return u.Server.URL + "/api"
}

// Requests returns the number of requests served.
func (u *UpstreamServer) Requests() int {
	return int(u.requests.Load())
}

// NewUpstreamServer starts a fake content API rooted at /api, closed when the test ends.
func NewUpstreamServer(t *testing.T, c Catalog) *UpstreamServer {
	t.Helper()

	u := &UpstreamServer{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)

		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimPrefix(r.URL.EscapedPath(), "/api")
		if status, ok := c.Statuses[path]; ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"upstream error"}`))
			return
		}

		if body, ok := c.Raw[path]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
			return
		}

		data, ok := c.Data[path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(u.Server.Close)
	return u
}
