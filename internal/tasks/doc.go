// Package tasks aggregates a batch's catalog into one flat, tagged list of content items.
//
// # Aggregation
//
// [Aggregator.Aggregate] fetches the subject list of a batch, then fans out one request per subject and
// [models.ContentType] (lectures, notes, dpps). All S×3 requests run concurrently and are awaited together.
//
// Each request produces a [FetchResult]. A failed request contributes no items and keeps its error, so callers
// can inspect partial failures through [AggregateResult.Failures] while the flattened [AggregateResult.Items]
// silently omits them. One failure never cancels another request.
//
// A failure fetching the subject list is fatal and reported as [shared.ErrAggregation].
//
// # Ordering
//
// Items are ordered by subject (upstream order), then by type in [models.ContentTypes] order, then by the order
// the upstream returned them. Nothing is de-duplicated.
//
// # Progress Reporting
//
// Aggregate accepts an optional channel of [ProgressUpdate]. Sends never block; updates are dropped when the
// channel is full. The TUI uses this to show fetch progress.
//
// # Metrics
//
// Every per-type request increments smarterz_upstream_fetches_total{type, outcome}.
package tasks
