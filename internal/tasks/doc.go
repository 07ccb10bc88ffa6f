// Package tasks orchestrates catalogue fetches and feeds their results into the
// in-memory caches, with real-time progress reporting.
//
// # Core Operations
//
// [CatalogueEngine] exposes four operations:
//
//  1. [CatalogueEngine.Browse] : Fetch one page of the show index
//     - Writes the batch through to the [cache.ShowCache]
//     - Persists it via the optional [ShowCacher]
//     - Returns the page grouped by genre
//
//  2. [CatalogueEngine.Sync] : Fetch a range of index pages with a worker pool
//     - A 404 from the catalogue marks the end of the index and stops dispatching
//     - Per-page failures are collected, not fatal
//
//  3. [CatalogueEngine.Details] : Show details with cast, served from the TTL
//     details cache when fresh
//
//  4. [CatalogueEngine.Lookup] : Read a show from the record cache only
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for UI rendering.
// Updates use select with default to prevent blocking.
//
// # Show Caching
//
// The optional [ShowCacher] interface enables persistence of every fetched page.
// Persistence errors are logged and otherwise ignored so browsing keeps working
// without a database.
package tasks
