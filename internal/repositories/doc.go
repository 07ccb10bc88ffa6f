// Package repositories implements SQLite persistence for catalogue data.
//
// Key Implementations:
//   - [ShowRepository] : Shows observed in listing batches, stored as their full JSON payload
//     with name, genres and rating columns for filtering
//   - [ShowCacheAdapter] : tasks.ShowCacher backed by [ShowRepository]
//   - [SearchHistoryRepository] : Completed searches with result counts and failures
//
// Sequence numbers provide stable, human-readable ordering (e.g., search #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// [WarmCache] loads persisted shows into the in-memory record cache at startup so offline lookups work
// before the first listing fetch.
package repositories
