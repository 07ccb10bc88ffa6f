// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/reactive"
	"github.com/desertthunder/tvx/internal/shared"
)

// MockCatalogue is a test double for [services.CatalogueService]
type MockCatalogue struct {
	mu sync.Mutex

	Pages         map[int][]models.Show
	PageErrors    map[int]error
	Details       map[int]*models.ShowDetails
	SearchResults []models.SearchResultItem
	SearchErr     error
	BaseURL       string

	ListCalls   []int
	DetailCalls []int
	LookupURLs  []string
}

func NewMockCatalogue() *MockCatalogue {
	return &MockCatalogue{
		Pages:      make(map[int][]models.Show),
		PageErrors: make(map[int]error),
		Details:    make(map[int]*models.ShowDetails),
		BaseURL:    "https://api.tvmaze.test",
	}
}

func (m *MockCatalogue) Name() string { return "mock" }

func (m *MockCatalogue) ListShows(ctx context.Context, page int) ([]models.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, page)

	if err := m.PageErrors[page]; err != nil {
		return nil, err
	}
	shows, ok := m.Pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: page %d", shared.ErrShowNotFound, page)
	}
	return shows, nil
}

func (m *MockCatalogue) GetShowDetails(ctx context.Context, id int) (*models.ShowDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailCalls = append(m.DetailCalls, id)

	details, ok := m.Details[id]
	if !ok {
		return nil, fmt.Errorf("%w: show %d", shared.ErrShowNotFound, id)
	}
	return details, nil
}

func (m *MockCatalogue) Lookup(ctx context.Context, rawURL string) ([]models.SearchResultItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LookupURLs = append(m.LookupURLs, rawURL)

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

func (m *MockCatalogue) SearchURL(query string) string {
	return m.BaseURL + "/search/shows?q=" + strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(query)), "+", "%20")
}

// Calls returns copies of the recorded call arguments.
func (m *MockCatalogue) Calls() (list, details []int, lookups []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.ListCalls...), append([]int(nil), m.DetailCalls...), append([]string(nil), m.LookupURLs...)
}

// MakeShow builds a minimal show for fixtures.
func MakeShow(id int, name string, genres ...string) models.Show {
	return models.Show{
		ID:     id,
		Name:   name,
		Genres: genres,
		URL:    fmt.Sprintf("https://www.tvmaze.com/shows/%d", id),
		Links:  models.Links{Self: models.Link{Href: fmt.Sprintf("https://api.tvmaze.com/shows/%d", id)}},
	}
}

// ManualClock is a [reactive.Clock] driven by Advance instead of wall time.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      int
	fn       func()
	done     bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func NewManualClock() *ManualClock { return &ManualClock{} }

func (c *ManualClock) AfterFunc(d time.Duration, f func()) reactive.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, deadline: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, running due callbacks in deadline order
// on the calling goroutine.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.now = next.deadline
		c.mu.Unlock()

		next.fn()
	}
}

// Pending reports how many timers are scheduled and not yet fired or stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (c *ManualClock) nextDue(target time.Duration) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline == c.timers[j].deadline {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].deadline < c.timers[j].deadline
	})
	if len(c.timers) == 0 || c.timers[0].deadline > target {
		return nil
	}
	return c.timers[0]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Eventually polls cond until it holds or the timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s: %s", timeout, msg)
}
