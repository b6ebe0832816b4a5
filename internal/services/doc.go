// Package services implements the read-only client for the upstream content API.
//
// # Upstream Interface
//
// [Upstream] is the seam the aggregator, HTTP surface, CLI and TUI depend on. Tests substitute fakes.
//
// # Eduverse Implementation
//
// [EduverseService] maps the three catalog endpoints onto typed calls:
//
//	GET /batches                               → [EduverseService.Batches], [EduverseService.RawBatches]
//	GET /batches/{batchId}                     → [EduverseService.Subjects]
//	GET /{batchId}/subjects/{subjectId}/{type} → [EduverseService.Contents]
//
// Every response is wrapped in a `{ "data": [...] }` envelope. A null or missing data field decodes as empty.
// [EduverseService.RawBatches] skips decoding and hands back the body as sent, for proxying.
//
// # Transport
//
// [APIService] performs the raw GET requests. It issues no retries and sends no credentials.
// An optional client-side limiter ([APIService.WithRateLimit]) and timeout come from configuration and are off by default.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrDecodeResponse] : body was not the expected envelope
package services
