// Package search coordinates show lookups against the catalogue and publishes
// the newest result set.
//
// Every call to [Coordinator.Search] is tagged with a sequence number. A lookup
// writes its outcome back only if no newer search has started since, so a slow
// response can never overwrite a fresher one.
package search

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/reactive"
)

// DefaultBaseURL is the TVmaze API root.
const DefaultBaseURL = "https://api.tvmaze.com"

// Lookup performs the HTTP request for a fully built search URL.
type Lookup func(ctx context.Context, url string) ([]models.SearchResultItem, error)

// Recorder receives the outcome of every search that was still current when it
// completed.
type Recorder func(query string, resultCount int, err error)

// Option configures a [Coordinator].
type Option func(*Coordinator)

// WithBaseURL sets the API root used to build search URLs. An empty base keeps the default.
func WithBaseURL(base string) Option {
	return func(c *Coordinator) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithLogger sets the logger lookup failures are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithErrorHook registers fn to be called with every lookup failure.
func WithErrorHook(fn func(query string, err error)) Option {
	return func(c *Coordinator) { c.onError = fn }
}

// WithRecorder registers fn to receive completed search outcomes.
func WithRecorder(fn Recorder) Option {
	return func(c *Coordinator) { c.recorder = fn }
}

// Coordinator runs searches and owns the observable result state.
//
// Output subscribers are notified while the coordinator holds its lock, so they
// must not call Search on the same goroutine. The error hook and recorder run
// after the lock is released and may do either.
type Coordinator struct {
	lookup   Lookup
	baseURL  string
	logger   *log.Logger
	onError  func(query string, err error)
	recorder Recorder

	results *reactive.Value[[]models.Show]
	loading *reactive.Value[bool]
	err     *reactive.Value[error]

	mu       sync.Mutex
	sequence uint64
}

// New creates a Coordinator that resolves searches through lookup.
func New(lookup Lookup, opts ...Option) *Coordinator {
	c := &Coordinator{
		lookup:  lookup,
		baseURL: DefaultBaseURL,
		results: reactive.NewValue([]models.Show{}),
		loading: reactive.NewValue(false),
		err:     reactive.NewValue[error](nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Results holds the shows from the most recent current search, in API order.
func (c *Coordinator) Results() *reactive.Value[[]models.Show] { return c.results }

// Loading is true while the current search is in flight.
func (c *Coordinator) Loading() *reactive.Value[bool] { return c.loading }

// Err holds the failure of the current search, or nil.
func (c *Coordinator) Err() *reactive.Value[error] { return c.err }

// URL builds the lookup URL for query. Spaces are encoded as %20.
func (c *Coordinator) URL(query string) string {
	return BuildURL(c.baseURL, query)
}

// BuildURL returns base + "/search/shows?q=" + the encoded, trimmed query.
func BuildURL(base, query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(query)), "+", "%20")
	return strings.TrimRight(base, "/") + "/search/shows?q=" + escaped
}

// Search starts a search for query.
//
// State is reset before Search returns: Loading is true, Err is nil and Results
// is empty. The lookup runs on its own goroutine and the returned channel is
// closed once its outcome has been applied or discarded.
//
// An empty or whitespace-only query performs no lookup. It clears Results and
// Err, sets Loading to false and invalidates any search still in flight.
func (c *Coordinator) Search(ctx context.Context, query string) <-chan struct{} {
	done := make(chan struct{})
	trimmed := strings.TrimSpace(query)

	c.mu.Lock()
	c.sequence++
	seq := c.sequence
	c.results.Set([]models.Show{})
	c.err.Set(nil)
	c.loading.Set(trimmed != "")
	c.mu.Unlock()

	if trimmed == "" {
		close(done)
		return done
	}

	target := c.URL(trimmed)

	go func() {
		defer close(done)

		items, err := c.lookup(ctx, target)

		c.mu.Lock()
		if seq != c.sequence {
			c.mu.Unlock()
			c.logger.Debug("discarding stale search response", "query", trimmed, "sequence", seq)
			return
		}
		count := c.apply(trimmed, items, err)
		c.mu.Unlock()

		c.report(trimmed, count, err)
	}()

	return done
}

// SearchSync runs [Coordinator.Search] and waits for it to finish or ctx to end.
func (c *Coordinator) SearchSync(ctx context.Context, query string) {
	select {
	case <-c.Search(ctx, query):
	case <-ctx.Done():
	}
}

// apply publishes a lookup outcome and returns the result count. Callers hold
// c.mu so a newer Search cannot interleave its reset with this write-back.
func (c *Coordinator) apply(query string, items []models.SearchResultItem, err error) int {
	if err != nil {
		c.logger.Error("search lookup failed", "query", query, "error", err)
		c.results.Set([]models.Show{})
		c.err.Set(err)
		c.loading.Set(false)
		return 0
	}

	shows := models.ShowsFromResults(items)
	c.results.Set(shows)
	c.err.Set(nil)
	c.loading.Set(false)
	return len(shows)
}

// report hands a published outcome to the error hook and the recorder. It runs
// without c.mu held, so either may block or start another search.
func (c *Coordinator) report(query string, count int, err error) {
	if err != nil && c.onError != nil {
		c.onError(query, err)
	}
	if c.recorder != nil {
		c.recorder(query, count, err)
	}
}

// Bind starts a search every time debounced settles on a new value and returns
// a func that stops listening.
func Bind(ctx context.Context, debounced *reactive.Value[string], c *Coordinator) func() {
	return debounced.Subscribe(func(query string) {
		c.Search(ctx, query)
	})
}
