package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/repositories"
	"github.com/desertthunder/smarterz/internal/services"
	"github.com/desertthunder/smarterz/internal/tasks"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a progress mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ProgressRequest is the body of mark-done and mark-undone. The id may be a JSON string or number.
type ProgressRequest struct {
	ID json.RawMessage `json:"id"`
}

// API holds the handlers under /api.
type API struct {
	upstream   services.Upstream
	aggregator *tasks.Aggregator
	store      repositories.ProgressStore
	logger     *log.Logger
}

// NewAPI creates the API handlers.
func NewAPI(upstream services.Upstream, aggregator *tasks.Aggregator, store repositories.ProgressStore, logger *log.Logger) *API {
	return &API{upstream: upstream, aggregator: aggregator, store: store, logger: logger}
}

// Register mounts every API route on the router.
func (a *API) Register(r *BasicRouter) {
	r.HandleFunc(http.MethodGet, "/api/batches", a.Batches)
	r.HandleFunc(http.MethodGet, "/api/batch-full/{batchId}", a.BatchFull)
	r.HandleFunc(http.MethodGet, "/api/progress", a.Progress)
	r.HandleFunc(http.MethodPost, "/api/mark-done", a.MarkDone)
	r.HandleFunc(http.MethodPost, "/api/mark-undone", a.MarkUndone)
}

// Batches lists the upstream batches.
func (a *API) Batches(w http.ResponseWriter, r *http.Request) {
	if a.upstream == nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch batches")
		return
	}

	body, err := a.upstream.RawBatches(r.Context())
	if err != nil {
		a.logger.Error("failed to fetch batches", "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch batches")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// BatchFull aggregates every lecture, note and DPP of a batch.
//
// Sub-fetches run to completion even if the client goes away.
func (a *API) BatchFull(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("batchId")

	result, err := a.aggregator.Aggregate(context.WithoutCancel(r.Context()), batchID, nil)
	if err != nil {
		a.logger.Error("failed to fetch batch details", "batch", batchID, "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch batch details")
		return
	}

	if failures := result.Failures(); len(failures) > 0 {
		a.logger.Warn("batch aggregated with missing collections", "batch", batchID, "failed", len(failures), "units", len(result.Units))
	}

	writeJSON(w, http.StatusOK, models.Envelope[models.ContentItem]{Data: result.Items})
}

// Progress returns the completed item IDs.
func (a *API) Progress(w http.ResponseWriter, r *http.Request) {
	ids, err := a.store.Completed()
	if err != nil {
		a.logger.Error("failed to read progress", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read progress")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// MarkDone adds an item to the completed set.
func (a *API) MarkDone(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, "mark done", a.store.MarkDone)
}

// MarkUndone removes an item from the completed set.
func (a *API) MarkUndone(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, "mark undone", a.store.MarkUndone)
}

func (a *API) mutate(w http.ResponseWriter, r *http.Request, action string, apply func(string) error) {
	id, ok := decodeID(w, r)
	if !ok {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := apply(id); err != nil {
		a.logger.Error("failed to "+action, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+action)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// decodeID reads the id field; any unreadable body counts as a missing id.
//
// Numeric ids are stored in their decimal form, matching how catalog IDs are read. Zero is missing.
func decodeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ProgressRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return "", false
	}

	var id string
	if err := json.Unmarshal(req.ID, &id); err == nil {
		return id, id != ""
	}

	var n json.Number
	if err := json.Unmarshal(req.ID, &n); err != nil {
		return "", false
	}
	if f, err := n.Float64(); err != nil || f == 0 {
		return "", false
	}
	return n.String(), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
