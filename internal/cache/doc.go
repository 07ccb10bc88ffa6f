// Package cache holds in-memory stores for catalogue records.
//
// [ShowCache] keeps every show observed in a listing batch for the life of the
// process. [DetailsCache] keeps show details with embedded cast for a bounded time.
package cache
