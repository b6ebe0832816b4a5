// Package models defines the catalog entities returned by the content API and the completed-item set tracked locally.
//
// Catalog types are ephemeral DTOs rebuilt on every request:
//   - [Batch] : a top-level course grouping subjects
//   - [Subject] : a topic within a batch
//   - [ContentItem] : a lecture, note or DPP (daily practice problem), tagged with its subject and [ContentType]
//
// Upstream records carry more fields than the tracker reads. [ContentItem] and [Batch] keep the unknown fields and
// write them back out, so the HTTP surface returns the upstream object with the synthesized tags added.
// Known fields keep their upstream encoding unless changed: a numeric id is read as "11" but written back as 11.
//
// [CompletedSet] is the only persisted state: a duplicate-free list of item IDs. IDs are not scoped per batch.
package models
