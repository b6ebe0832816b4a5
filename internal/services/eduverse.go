package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
)

// EduverseService implements [Upstream] over [APIService].
type EduverseService struct {
	api *APIService
}

// NewEduverseService creates the upstream client. A nil api uses the default base URL and HTTP client.
func NewEduverseService(api *APIService) *EduverseService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	return &EduverseService{api: api}
}

// NewEduverseFromConfig builds the client described by [shared.UpstreamConfig].
func NewEduverseFromConfig(cfg shared.UpstreamConfig) *EduverseService {
	var client *http.Client
	if timeout := cfg.Timeout(); timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	api := NewAPIService(cfg.BaseURL, client).WithRateLimit(cfg.RequestsPerSecond)
	return NewEduverseService(api)
}

// Name returns the service name.
func (e *EduverseService) Name() string {
	return "Eduverse"
}

// RawBatches calls GET /batches and returns the JSON body unchanged.
func (e *EduverseService) RawBatches(ctx context.Context) ([]byte, error) {
	resp, err := e.api.Get(ctx, "/batches")
	if err != nil {
		return nil, fmt.Errorf("%w: GET /batches: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET /batches: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: GET /batches: invalid JSON", shared.ErrDecodeResponse)
	}
	return resp.Body, nil
}

// Batches calls GET /batches and decodes the envelope.
func (e *EduverseService) Batches(ctx context.Context) ([]models.Batch, error) {
	body, err := e.RawBatches(ctx)
	if err != nil {
		return nil, err
	}

	var env models.Envelope[models.Batch]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: GET /batches: %v", shared.ErrDecodeResponse, err)
	}
	return orEmpty(env.Data), nil
}

// Subjects calls GET /batches/{batchId}.
func (e *EduverseService) Subjects(ctx context.Context, batchID string) ([]models.Subject, error) {
	if batchID == "" {
		return nil, fmt.Errorf("%w: batch ID", shared.ErrMissingArgument)
	}

	var env models.Envelope[models.Subject]
	if err := e.api.GetJSON(ctx, "/batches/"+url.PathEscape(batchID), &env); err != nil {
		return nil, err
	}
	return orEmpty(env.Data), nil
}

// Contents calls GET /{batchId}/subjects/{subjectId}/{type}.
func (e *EduverseService) Contents(ctx context.Context, batchID, subjectID string, ct models.ContentType) ([]models.ContentItem, error) {
	endpoint := fmt.Sprintf("/%s/subjects/%s/%s", url.PathEscape(batchID), url.PathEscape(subjectID), ct)

	var env models.Envelope[models.ContentItem]
	if err := e.api.GetJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	return orEmpty(env.Data), nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
