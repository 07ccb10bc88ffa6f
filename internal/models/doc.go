// Package models defines the TVmaze catalogue entities used across tvx.
//
// The package contains two categories of types:
//
// 1. Wire types decoded from the TVmaze REST API
//   - [Show] : A catalogue entry as returned by /shows and /search/shows
//   - [ShowDetails] : A show with embedded cast from /shows/{id}?embed=cast
//   - [SearchResultItem] : A scored search hit wrapping a [Show]
//   - [CastMember], [Person], [Character] : Cast credits
//
// 2. Derived views
//   - [GroupedShows] : Shows bucketed by genre for browsing
//
// The Repository[T] interface defines the CRUD surface implemented by the
// SQLite repositories.
package models
