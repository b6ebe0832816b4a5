package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
	tu "github.com/desertthunder/smarterz/internal/testing"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *bytes.Buffer {
	return &bytes.Buffer{}
}

func newTestAggregator(up *tu.FakeUpstream) *Aggregator {
	return NewAggregator(up, shared.NewLogger(quietLogger()))
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("Single Subject Scenario", func(t *testing.T) {
		up := &tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{
				"B1": {{ID: "S1", Name: "Math"}},
			},
			Items: map[string][]models.ContentItem{
				tu.ContentKey("B1", "S1", models.Lectures): {{ID: "L1", Title: "Intro"}},
				tu.ContentKey("B1", "S1", models.Notes):    {},
			},
			Failures: map[string]error{
				tu.ContentKey("B1", "S1", models.DPPs): errors.New("boom"),
			},
		}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out, err := json.Marshal(result.Items)
		if err != nil {
			t.Fatalf("failed to marshal items: %v", err)
		}
		want := `[{"_subjectName":"Math","_type":"lectures","id":"L1","title":"Intro"}]`
		if string(out) != want {
			t.Errorf("expected %s, got %s", want, out)
		}

		failures := result.Failures()
		if len(failures) != 1 || failures[0].Type != models.DPPs || failures[0].Subject.ID != "S1" {
			t.Errorf("expected dpps failure to be recorded, got %+v", failures)
		}
		if len(failures[0].Items) != 0 {
			t.Error("failed unit should contribute no items")
		}
	})

	t.Run("Issues Three Fetches Per Subject", func(t *testing.T) {
		subjects := []models.Subject{{ID: "S1", Name: "Math"}, {ID: "S2", Name: "Physics"}, {ID: "S3", Name: "Chemistry"}}
		up := &tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{"B1": subjects},
			Items:       map[string][]models.ContentItem{},
		}
		expectedItems := 0
		for i, s := range subjects {
			for _, ct := range models.ContentTypes() {
				var items []models.ContentItem
				for n := 0; n <= i; n++ {
					items = append(items, models.ContentItem{ID: fmt.Sprintf("%s-%s-%d", s.ID, ct, n)})
				}
				up.Items[tu.ContentKey("B1", s.ID, ct)] = items
				expectedItems += len(items)
			}
		}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		calls := up.Calls()
		if len(calls) != len(subjects)*3 {
			t.Fatalf("expected %d fetches, got %d: %v", len(subjects)*3, len(calls), calls)
		}
		for _, s := range subjects {
			for _, ct := range models.ContentTypes() {
				if !slices.Contains(calls, tu.ContentKey("B1", s.ID, ct)) {
					t.Errorf("missing fetch for %s/%s", s.ID, ct)
				}
			}
		}
		if len(result.Items) != expectedItems {
			t.Errorf("expected %d items, got %d", expectedItems, len(result.Items))
		}
		if len(result.Units) != len(subjects)*3 {
			t.Errorf("expected %d units, got %d", len(subjects)*3, len(result.Units))
		}
	})

	t.Run("Orders By Subject Then Type", func(t *testing.T) {
		up := &tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{
				"B1": {{ID: "S1", Name: "Math"}, {ID: "S2", Name: "Physics"}},
			},
			Items: map[string][]models.ContentItem{
				tu.ContentKey("B1", "S2", models.DPPs):     {{ID: "p-dpp"}},
				tu.ContentKey("B1", "S1", models.Notes):    {{ID: "m-note-1"}, {ID: "m-note-2"}},
				tu.ContentKey("B1", "S2", models.Lectures): {{ID: "p-lec"}},
				tu.ContentKey("B1", "S1", models.Lectures): {{ID: "m-lec"}},
				tu.ContentKey("B1", "S1", models.DPPs):     {{ID: "m-dpp"}},
			},
		}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []string
		for _, item := range result.Items {
			got = append(got, item.ID)
		}
		want := []string{"m-lec", "m-note-1", "m-note-2", "m-dpp", "p-lec", "p-dpp"}
		if !slices.Equal(got, want) {
			t.Errorf("expected order %v, got %v", want, got)
		}

		if result.Items[4].SubjectName != "Physics" || result.Items[4].Type != models.Lectures {
			t.Errorf("expected tags on p-lec, got %+v", result.Items[4])
		}
	})

	t.Run("Partial Failure Keeps Other Units", func(t *testing.T) {
		up := &tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{
				"B1": {{ID: "S1", Name: "Math"}, {ID: "S2", Name: "Physics"}},
			},
			Items: map[string][]models.ContentItem{
				tu.ContentKey("B1", "S1", models.Lectures): {{ID: "a"}},
				tu.ContentKey("B1", "S2", models.Lectures): {{ID: "b"}},
				tu.ContentKey("B1", "S2", models.Notes):    {{ID: "c"}},
			},
			Failures: map[string]error{
				tu.ContentKey("B1", "S2", models.Lectures): errors.New("timeout"),
				tu.ContentKey("B1", "S1", models.Notes):    errors.New("500"),
			},
		}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []string
		for _, item := range result.Items {
			got = append(got, item.ID)
		}
		if !slices.Equal(got, []string{"a", "c"}) {
			t.Errorf("expected [a c], got %v", got)
		}
		if len(result.Failures()) != 2 {
			t.Errorf("expected 2 failures, got %d", len(result.Failures()))
		}
	})

	t.Run("Subject List Failure Is Fatal", func(t *testing.T) {
		up := &tu.FakeUpstream{SubjectErr: errors.New("upstream down")}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if !errors.Is(err, shared.ErrAggregation) {
			t.Errorf("expected ErrAggregation, got %v", err)
		}
		if result != nil {
			t.Error("expected nil result")
		}
		if len(up.Calls()) != 0 {
			t.Error("no content fetches should be issued")
		}
	})

	t.Run("No Subjects Yields Empty List", func(t *testing.T) {
		up := &tu.FakeUpstream{SubjectList: map[string][]models.Subject{"B1": {}}}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Items == nil || len(result.Items) != 0 {
			t.Errorf("expected empty non-nil items, got %#v", result.Items)
		}
	})

	t.Run("Nil Upstream", func(t *testing.T) {
		_, err := NewAggregator(nil, shared.NewLogger(quietLogger())).Aggregate(ctx, "B1", nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Does Not Deduplicate", func(t *testing.T) {
		up := &tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{"B1": {{ID: "S1", Name: "Math"}}},
			Items: map[string][]models.ContentItem{
				tu.ContentKey("B1", "S1", models.Lectures): {{ID: "X"}},
				tu.ContentKey("B1", "S1", models.Notes):    {{ID: "X"}},
			},
		}

		result, err := newTestAggregator(up).Aggregate(ctx, "B1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Items) != 2 {
			t.Errorf("expected duplicate IDs to be kept, got %d items", len(result.Items))
		}
	})
}

// barrierUpstream blocks every content fetch until all expected fetches are in flight.
type barrierUpstream struct {
	tu.FakeUpstream
	expected int32
	arrived  atomic.Int32
	release  chan struct{}
}

func (b *barrierUpstream) Contents(ctx context.Context, batchID, subjectID string, ct models.ContentType) ([]models.ContentItem, error) {
	if b.arrived.Add(1) == b.expected {
		close(b.release)
	}
	select {
	case <-b.release:
		return []models.ContentItem{{ID: subjectID + "-" + string(ct)}}, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("fetches were not issued concurrently")
	}
}

func TestAggregateConcurrency(t *testing.T) {
	up := &barrierUpstream{
		FakeUpstream: tu.FakeUpstream{
			SubjectList: map[string][]models.Subject{
				"B1": {{ID: "S1", Name: "Math"}, {ID: "S2", Name: "Physics"}},
			},
		},
		expected: 6,
		release:  make(chan struct{}),
	}

	result, err := NewAggregator(up, shared.NewLogger(quietLogger())).Aggregate(context.Background(), "B1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failures := result.Failures(); len(failures) != 0 {
		t.Fatalf("expected all fetches in flight together, got failures: %v", failures[0].Err)
	}
	if len(result.Items) != 6 {
		t.Errorf("expected 6 items, got %d", len(result.Items))
	}
}

func TestAggregateProgress(t *testing.T) {
	up := &tu.FakeUpstream{
		SubjectList: map[string][]models.Subject{"B1": {{ID: "S1", Name: "Math"}}},
		Failures: map[string]error{
			tu.ContentKey("B1", "S1", models.DPPs): errors.New("boom"),
		},
	}

	progress := make(chan ProgressUpdate, 16)
	if _, err := newTestAggregator(up).Aggregate(context.Background(), "B1", progress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(progress)

	var phases []Phase
	var skipped int
	for update := range progress {
		phases = append(phases, update.Phase)
		if unit, ok := update.Data.(FetchResult); ok && unit.Failed() {
			skipped++
		}
	}

	if len(phases) != 5 {
		t.Fatalf("expected 5 updates, got %d: %v", len(phases), phases)
	}
	if phases[0] != FetchSubjects || phases[4] != Flatten {
		t.Errorf("unexpected phase sequence %v", phases)
	}
	if skipped != 1 {
		t.Errorf("expected one skipped unit, got %d", skipped)
	}

	t.Run("Full Channel Does Not Block", func(t *testing.T) {
		full := make(chan ProgressUpdate)
		done := make(chan struct{})
		go func() {
			defer close(done)
			newTestAggregator(up).Aggregate(context.Background(), "B1", full)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("aggregate blocked on an unbuffered progress channel")
		}
	})
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		FetchSubjects: "fetch_subjects",
		FetchContents: "fetch_contents",
		Flatten:       "flatten",
		Phase(99):     "",
	}
	for p, want := range tc {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}
