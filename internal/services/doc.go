// Package services defines the [CatalogueService] interface for show catalogue
// providers and implements it for the public TVmaze REST API.
//
// # TVmaze Implementation
//
// [TVMazeService] issues unauthenticated GET requests against https://api.tvmaze.com.
// Every request waits on a token-bucket limiter so bulk syncs stay under the
// published limit of 20 calls every 10 seconds.
//
// Endpoints used:
//   - GET /shows?page=N : one page of the show index (250 shows per page)
//   - GET /shows/{id}?embed=cast : show details with cast
//   - GET /search/shows?q= : scored fuzzy search
//
// # Raw Access
//
// [APIService] returns undecoded responses for the `api get` command.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrShowNotFound] : 404 from a show or page endpoint
package services
