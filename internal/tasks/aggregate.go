package tasks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/services"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

var upstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "smarterz_upstream_fetches_total",
	Help: "Per-subject content fetches issued during aggregation, by content type and outcome",
}, []string{"type", "outcome"})

// FetchResult is the outcome of fetching one content type for one subject.
type FetchResult struct {
	Subject models.Subject
	Type    models.ContentType
	Items   []models.ContentItem // Tagged items; empty when Err is set
	Err     error                // Reason the unit contributed nothing
}

// Failed reports whether the fetch failed and was replaced by an empty list.
func (r FetchResult) Failed() bool {
	return r.Err != nil
}

// AggregateResult holds the flattened catalog of a batch and the per-unit outcomes behind it.
type AggregateResult struct {
	BatchID  string
	Subjects []models.Subject
	Units    []FetchResult        // Subject-major, type-minor
	Items    []models.ContentItem // Concatenation of every successful unit
}

// Failures returns the units that contributed no items because their fetch failed.
func (r *AggregateResult) Failures() []FetchResult {
	var failed []FetchResult
	for _, u := range r.Units {
		if u.Failed() {
			failed = append(failed, u)
		}
	}
	return failed
}

// Aggregator flattens a batch's subjects and content collections into one tagged list.
type Aggregator struct {
	upstream services.Upstream
	logger   *log.Logger
}

// NewAggregator creates an Aggregator reading from upstream. A nil logger uses [shared.NewLogger].
func NewAggregator(upstream services.Upstream, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{upstream: upstream, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (a *Aggregator) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Aggregate fetches every subject × content type of batchID concurrently and flattens the result.
//
// Only a subject-list failure is returned as an error. progress may be nil.
func (a *Aggregator) Aggregate(ctx context.Context, batchID string, progress chan<- ProgressUpdate) (*AggregateResult, error) {
	if a.upstream == nil {
		return nil, fmt.Errorf("%w: upstream not initialized", shared.ErrServiceUnavailable)
	}

	a.sendProgress(progress, fetchSubjectsUpdate(batchID))

	subjects, err := a.upstream.Subjects(ctx, batchID)
	if err != nil {
		a.logger.Error("failed to fetch subjects", "batch", batchID, "error", err)
		return nil, fmt.Errorf("%w: batch %s: %v", shared.ErrAggregation, batchID, err)
	}

	types := models.ContentTypes()
	units := make([]FetchResult, len(subjects)*len(types))
	total := len(units)

	var (
		g    errgroup.Group
		done atomic.Int64
	)
	for i, subject := range subjects {
		for j, ct := range types {
			idx := i*len(types) + j
			g.Go(func() error {
				units[idx] = a.fetchUnit(ctx, batchID, subject, ct)
				step := int(done.Add(1))
				a.sendProgress(progress, fetchContentsUpdate(step, total, units[idx]))
				return nil
			})
		}
	}
	_ = g.Wait()

	result := &AggregateResult{
		BatchID:  batchID,
		Subjects: subjects,
		Units:    units,
		Items:    []models.ContentItem{},
	}
	for _, u := range units {
		result.Items = append(result.Items, u.Items...)
	}

	if failed := len(result.Failures()); failed > 0 {
		a.logger.Warn("aggregated with partial failures", "batch", batchID, "failed", failed, "units", total)
	}
	a.logger.Debug("aggregated batch", "batch", batchID, "subjects", len(subjects), "items", len(result.Items))

	a.sendProgress(progress, flattenUpdate(result.Items))
	return result, nil
}

// fetchUnit fetches one subject/type collection, substituting an empty list on failure.
func (a *Aggregator) fetchUnit(ctx context.Context, batchID string, subject models.Subject, ct models.ContentType) FetchResult {
	unit := FetchResult{Subject: subject, Type: ct, Items: []models.ContentItem{}}

	items, err := a.upstream.Contents(ctx, batchID, subject.ID, ct)
	if err != nil {
		upstreamFetches.WithLabelValues(string(ct), "error").Inc()
		a.logger.Warn("content fetch failed", "batch", batchID, "subject", subject.ID, "type", ct, "error", err)
		unit.Err = err
		return unit
	}

	upstreamFetches.WithLabelValues(string(ct), "ok").Inc()
	for _, item := range items {
		unit.Items = append(unit.Items, item.Tagged(subject.Name, ct))
	}
	return unit
}
