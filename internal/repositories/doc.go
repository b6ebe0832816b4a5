// Package repositories persists the set of content items marked done.
//
// [ProgressStore] is the injected abstraction used by the HTTP surface, CLI and TUI. Implementations:
//   - [FileStore] : a single JSON document `{ "completed": [...] }`, loaded and rewritten wholesale on every call
//   - [SQLiteStore] : a completed_items table managed by the shared migrations
//   - [MemoryStore] : an in-process set for tests
//
// Every implementation keeps insertion order and rejects duplicates on insert. None of them coordinate concurrent
// writers across processes: two simultaneous toggles against a [FileStore] can lose an update (last write wins).
// A missing or corrupt JSON document reads as an empty set.
package repositories
