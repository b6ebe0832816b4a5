// Package server exposes the progress tracker over HTTP and serves the browser dashboard.
//
// # Routes
//
//	GET  /                        → embedded dashboard
//	GET  /api/batches             → batch list from the content API
//	GET  /api/batch-full/{batchId} → aggregated, tagged content of a batch
//	GET  /api/progress            → completed item IDs
//	POST /api/mark-done           → add {"id": ...} to the completed set
//	POST /api/mark-undone         → remove {"id": ...} from the completed set
//	GET  /metrics                 → Prometheus metrics
//
// Handlers are stateless. Failures collapse to one generic `{"error": "..."}` message per endpoint with status 500;
// the cause is only logged. The only validation is the presence check on the `id` field.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Path patterns use the
// ServeMux wildcard syntax, so handlers read path parameters with [http.Request.PathValue].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The dashboard is registered this way.
package server
