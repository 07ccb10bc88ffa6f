// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the TVmaze catalogue:
//  1. [GenreView] : Browse one page of the show index grouped by genre (n/p change page)
//  2. [ShowListView] : Shows in the selected genre
//  3. [SearchView] : Search as you type, with a spinner while a lookup is in flight
//  4. [DetailView] : Summary, schedule and cast for one show
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Page fetches report progress through a channel from the CatalogueEngine.
//
// The search field writes into a reactive value. A debouncer mirrors it into a settled value, and each settled value
// starts a coordinator search. Coordinator state changes are coalesced into a signal channel that the model drains
// with a command, so the coordinator never touches the model directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, n, p, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
