// Package server provides HTTP routing, middleware, and the JSON catalogue API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered with method-qualified
// patterns ("GET /api/shows/{id}") so the mux answers 405 for other methods and fills [http.Request.PathValue].
//
// # Middleware
//
//   - [RequestLogger] logs method, path, status and duration for every request
//   - [Recoverer] turns a handler panic into a 500 response
//   - [RateLimit] applies a token bucket per client IP, backed by a TTL cache of limiters
//
// # Catalogue Handler
//
// [CatalogueHandler] exposes the catalogue engine as read-only JSON:
//
//	GET /api/shows?page=N    one index page grouped by genre
//	GET /api/shows/{id}      show details with cast
//	GET /api/cache/{id}      a show from the record cache, 404 when absent
//	GET /api/search?q=...    a single search run through a search coordinator
//	GET /health              liveness probe
//
// Domain errors map to status codes in one place (see statusFor), so handlers only return errors.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
