package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
	tu "github.com/desertthunder/smarterz/internal/testing"
)

func TestEduverseService(t *testing.T) {
	upstream := tu.NewUpstreamServer(t, tu.Catalog{
		Data: map[string]any{
			"/batches": []map[string]any{
				{"id": "B1", "name": "Arjuna", "price": 0},
			},
			"/batches/B1": []map[string]any{
				{"id": "S1", "name": "Math"},
				{"id": 2, "name": "Physics"},
			},
			"/B1/subjects/S1/lectures": []map[string]any{
				{"id": "L1", "title": "Intro", "url": "https://cdn/l1.m3u8"},
			},
			"/B1/subjects/S1/notes": nil,
			"/batches/B%2F2":        []map[string]any{},
		},
		Statuses: map[string]int{
			"/B1/subjects/S1/dpps": http.StatusInternalServerError,
		},
	})

	svc := NewEduverseService(NewAPIService(upstream.APIRoot(), nil))
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		if svc.Name() != "Eduverse" {
			t.Errorf("unexpected name %s", svc.Name())
		}
	})

	t.Run("Batches", func(t *testing.T) {
		batches, err := svc.Batches(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batches) != 1 || batches[0].ID != "B1" || batches[0].Name != "Arjuna" {
			t.Errorf("unexpected batches %+v", batches)
		}
		if _, ok := batches[0].Extra["price"]; !ok {
			t.Error("expected extra upstream fields to be kept")
		}
	})

	t.Run("Subjects", func(t *testing.T) {
		subjects, err := svc.Subjects(ctx, "B1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(subjects) != 2 || subjects[1].ID != "2" {
			t.Errorf("unexpected subjects %+v", subjects)
		}
	})

	t.Run("Subjects Escapes Batch ID", func(t *testing.T) {
		subjects, err := svc.Subjects(ctx, "B/2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(subjects) != 0 {
			t.Errorf("expected no subjects, got %v", subjects)
		}
	})

	t.Run("Subjects Requires Batch ID", func(t *testing.T) {
		if _, err := svc.Subjects(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Subjects Unknown Batch", func(t *testing.T) {
		if _, err := svc.Subjects(ctx, "missing"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Contents", func(t *testing.T) {
		items, err := svc.Contents(ctx, "B1", "S1", models.Lectures)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ID != "L1" || !items[0].IsStream() {
			t.Errorf("unexpected items %+v", items)
		}
		if items[0].SubjectName != "" || items[0].Type != "" {
			t.Error("items should come back untagged")
		}
	})

	t.Run("Contents Null Data Is Empty", func(t *testing.T) {
		items, err := svc.Contents(ctx, "B1", "S1", models.Notes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", items)
		}
	})

	t.Run("Contents Upstream Failure", func(t *testing.T) {
		if _, err := svc.Contents(ctx, "B1", "S1", models.DPPs); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestRawBatches(t *testing.T) {
	const body = `{"success":true,"total":1,"data":[{"id":7,"name":"B"}]}`

	t.Run("Returns Body Unchanged", func(t *testing.T) {
		upstream := tu.NewUpstreamServer(t, tu.Catalog{Raw: map[string]string{"/batches": body}})
		svc := NewEduverseService(NewAPIService(upstream.APIRoot(), nil))

		got, err := svc.RawBatches(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != body {
			t.Errorf("expected %s, got %s", body, got)
		}

		batches, err := svc.Batches(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batches) != 1 || batches[0].ID != "7" {
			t.Errorf("unexpected batches %+v", batches)
		}
	})

	t.Run("Non 2xx", func(t *testing.T) {
		upstream := tu.NewUpstreamServer(t, tu.Catalog{Statuses: map[string]int{"/batches": http.StatusBadGateway}})
		svc := NewEduverseService(NewAPIService(upstream.APIRoot(), nil))

		if _, err := svc.RawBatches(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		upstream := tu.NewUpstreamServer(t, tu.Catalog{Raw: map[string]string{"/batches": "<html>"}})
		svc := NewEduverseService(NewAPIService(upstream.APIRoot(), nil))

		if _, err := svc.RawBatches(context.Background()); !errors.Is(err, shared.ErrDecodeResponse) {
			t.Errorf("expected ErrDecodeResponse, got %v", err)
		}
	})
}

func TestNewEduverseFromConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		svc := NewEduverseFromConfig(shared.DefaultConfig().Upstream)
		if svc.api.httpClient != http.DefaultClient {
			t.Error("expected default client when no timeout is configured")
		}
		if svc.api.limiter != nil {
			t.Error("expected no limiter by default")
		}
	})

	t.Run("Timeout And Limit", func(t *testing.T) {
		svc := NewEduverseFromConfig(shared.UpstreamConfig{
			BaseURL:           "http://localhost:1/api",
			TimeoutSeconds:    3,
			RequestsPerSecond: 10,
		})
		if svc.api.httpClient.Timeout != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", svc.api.httpClient.Timeout)
		}
		if svc.api.limiter == nil {
			t.Error("expected limiter")
		}
		if svc.api.BaseURL() != "http://localhost:1/api" {
			t.Errorf("unexpected base URL %s", svc.api.BaseURL())
		}
	})
}
