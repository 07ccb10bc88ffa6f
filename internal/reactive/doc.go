// Package reactive provides observable values and a debouncer built on them.
//
// A [Value] is a goroutine-safe cell that notifies subscribers on every Set.
// [Debounce] mirrors a source Value into a second Value, applying only the last
// change that stayed put for a full quiet period.
package reactive
