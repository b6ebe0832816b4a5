// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/smarterz/internal/models"
)

// ContentKey addresses one subject/type collection in a [FakeUpstream] or [Catalog].
func ContentKey(batchID, subjectID string, ct models.ContentType) string {
	return fmt.Sprintf("%s/%s/%s", batchID, subjectID, ct)
}

// FakeUpstream is an in-memory test double for services.Upstream.
//
// BatchBody, when set, is returned by RawBatches instead of an envelope of BatchList.
// Keys present in Failures return that error. Calls records every Contents key requested.
type FakeUpstream struct {
	BatchList   []models.Batch
	BatchBody   []byte
	BatchErr    error
	SubjectList map[string][]models.Subject
	SubjectErr  error
	Items       map[string][]models.ContentItem
	Failures    map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *FakeUpstream) Batches(ctx context.Context) ([]models.Batch, error) {
	if f.BatchErr != nil {
		return nil, f.BatchErr
	}
	return f.BatchList, nil
}

func (f *FakeUpstream) RawBatches(ctx context.Context) ([]byte, error) {
	if f.BatchErr != nil {
		return nil, f.BatchErr
	}
	if f.BatchBody != nil {
		return f.BatchBody, nil
	}
	batches := f.BatchList
	if batches == nil {
		batches = []models.Batch{}
	}
	return json.Marshal(models.Envelope[models.Batch]{Data: batches})
}

func (f *FakeUpstream) Subjects(ctx context.Context, batchID string) ([]models.Subject, error) {
	if f.SubjectErr != nil {
		return nil, f.SubjectErr
	}
	subjects, ok := f.SubjectList[batchID]
	if !ok {
		return nil, errors.New("batch not found")
	}
	return subjects, nil
}

func (f *FakeUpstream) Contents(ctx context.Context, batchID, subjectID string, ct models.ContentType) ([]models.ContentItem, error) {
	key := ContentKey(batchID, subjectID, ct)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.Failures[key]; ok {
		return nil, err
	}
	items := f.Items[key]
	out := make([]models.ContentItem, len(items))
	copy(out, items)
	return out, nil
}

func (f *FakeUpstream) Name() string { return "fake" }

// Calls returns the content keys requested so far, in completion order.
func (f *FakeUpstream) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
