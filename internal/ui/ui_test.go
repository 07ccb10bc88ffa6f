package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/cache"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/tasks"
	tu "github.com/desertthunder/tvx/internal/testing"
)

const debounce = 300 * time.Millisecond

var errNetwork = errors.New("Network Error")

func newCatalogue() *tu.MockCatalogue {
	m := tu.NewMockCatalogue()
	m.Pages[0] = []models.Show{
		tu.MakeShow(1, "Under the Dome", "Drama", "Science-Fiction"),
		tu.MakeShow(2, "Person of Interest", "Action", "Science-Fiction"),
	}
	m.Pages[1] = []models.Show{tu.MakeShow(250, "The Amazing Race")}
	summary := "<p><b>Under the Dome</b> is the story of a small town.</p>"
	m.Details[1] = &models.ShowDetails{
		Show: models.Show{ID: 1, Name: "Under the Dome", Genres: []string{"Drama"}, Status: "Ended", Summary: &summary},
		Embedded: &models.Embedded{Cast: []models.CastMember{
			{Person: models.Person{Name: "Mike Vogel"}, Character: models.Character{Name: "Dale Barbara"}},
		}},
	}
	return m
}

func newTestModel(t *testing.T) (*Model, *tu.MockCatalogue, *tu.ManualClock) {
	t.Helper()
	catalogue := newCatalogue()
	clock := tu.NewManualClock()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	engine := tasks.NewCatalogueEngine(catalogue, cache.NewShowCache(), nil).WithLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(ctx, engine, Opts{Debounce: debounce, Clock: clock, BaseURL: catalogue.BaseURL, Logger: logger})
	t.Cleanup(func() {
		cancel()
		m.Close()
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, catalogue, clock
}

// runUntil executes cmd and feeds each resulting message back into the model until
// a message of the wanted kind has been applied.
func runUntil(t *testing.T, m *Model, cmd tea.Cmd, kind MsgKind) {
	t.Helper()
	for i := 0; i < 20; i++ {
		if cmd == nil {
			t.Fatalf("command chain ended before message kind %d", kind)
		}
		msg, ok := cmd().(Msg)
		if !ok {
			t.Fatalf("expected a Msg from command")
		}
		_, cmd = m.Update(msg)
		if msg.kind == kind {
			return
		}
	}
	t.Fatalf("message kind %d never arrived", kind)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestBrowse(t *testing.T) {
	t.Run("First page groups shows by genre", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		runUntil(t, m, m.startBrowse(0), MsgPageFetched)

		if m.browsing {
			t.Error("expected browsing to finish")
		}
		if got := len(m.genreList.Items()); got != 3 {
			t.Fatalf("expected 3 genres, got %d", got)
		}
		first := m.genreList.Items()[0].(genreItem)
		if first.name != "Action" || first.Description() != "1 show" {
			t.Errorf("unexpected first genre %+v", first)
		}
		if !strings.Contains(m.status, "2 shows on page 0") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Enter opens the genre and esc returns", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		runUntil(t, m, m.startBrowse(0), MsgPageFetched)

		m.genreList.Select(2)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != ShowListView {
			t.Fatalf("expected show list view, got %d", m.view)
		}
		if got := len(m.showList.Items()); got != 2 {
			t.Errorf("expected 2 Science-Fiction shows, got %d", got)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != GenreView {
			t.Errorf("expected genre view, got %d", m.view)
		}
	})

	t.Run("Next and previous page", func(t *testing.T) {
		m, catalogue, _ := newTestModel(t)
		runUntil(t, m, m.startBrowse(0), MsgPageFetched)

		_, cmd := m.Update(keyRunes("n"))
		runUntil(t, m, cmd, MsgPageFetched)
		if m.page != 1 {
			t.Fatalf("expected page 1, got %d", m.page)
		}

		_, cmd = m.Update(keyRunes("p"))
		runUntil(t, m, cmd, MsgPageFetched)
		if m.page != 0 {
			t.Errorf("expected page 0, got %d", m.page)
		}

		if _, cmd = m.Update(keyRunes("p")); cmd != nil {
			t.Error("expected no fetch before page 0")
		}

		list, _, _ := catalogue.Calls()
		if len(list) != 3 {
			t.Errorf("expected 3 page fetches, got %v", list)
		}
	})

	t.Run("Past the last page keeps the current page", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		runUntil(t, m, m.startBrowse(1), MsgPageFetched)

		_, cmd := m.Update(keyRunes("n"))
		runUntil(t, m, cmd, MsgPageFetched)

		if m.page != 1 || m.err != nil {
			t.Errorf("expected to stay on page 1 without error, got page %d err %v", m.page, m.err)
		}
		if !strings.Contains(m.status, "No shows past page 1") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		if _, cmd := m.Update(keyRunes("q")); !isQuit(cmd) {
			t.Error("expected q to quit")
		}
	})
}

func TestDetails(t *testing.T) {
	m, _, _ := newTestModel(t)
	runUntil(t, m, m.startBrowse(0), MsgPageFetched)

	m.genreList.Select(1)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runUntil(t, m, cmd, MsgDetailsFetched)

	if m.view != DetailView {
		t.Fatalf("expected detail view, got %d", m.view)
	}

	out := m.View()
	for _, want := range []string{"Under the Dome", "is the story of a small town.", "Mike Vogel as Dale Barbara", "Ended"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(out, "<p>") {
		t.Error("expected summary HTML to be stripped")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ShowListView {
		t.Errorf("expected to return to show list, got %d", m.view)
	}
}

func TestSearch(t *testing.T) {
	t.Run("Typing settles into one lookup", func(t *testing.T) {
		m, catalogue, clock := newTestModel(t)
		catalogue.SearchResults = []models.SearchResultItem{
			{Score: 0.9, Show: tu.MakeShow(1, "Under the Dome")},
		}

		m.Update(keyRunes("/"))
		if m.view != SearchView {
			t.Fatalf("expected search view, got %d", m.view)
		}

		m.Update(keyRunes("un"))
		clock.Advance(100 * time.Millisecond)
		m.Update(keyRunes("der dome"))
		if m.query.Get() != "under dome" {
			t.Fatalf("expected tracked query, got %q", m.query.Get())
		}

		clock.Advance(debounce)

		tu.Eventually(t, time.Second, func() bool {
			return !m.coordinator.Loading().Get() && len(m.coordinator.Results().Get()) == 1
		}, "search never settled")

		_, _, lookups := catalogue.Calls()
		want := "https://api.tvmaze.test/search/shows?q=under%20dome"
		if len(lookups) != 1 || lookups[0] != want {
			t.Errorf("expected single lookup %q, got %v", want, lookups)
		}

		m.Update(searchChangedMsg(snapshot(m.coordinator)))
		if got := len(m.searchList.Items()); got != 1 {
			t.Errorf("expected 1 result item, got %d", got)
		}
		if !strings.Contains(m.View(), "Under the Dome") {
			t.Error("expected result in view")
		}
	})

	t.Run("Typed letters never trigger shortcuts", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		m.Update(keyRunes("/"))

		_, cmd := m.Update(keyRunes("q"))
		if isQuit(cmd) {
			t.Error("expected q to be typed into the query")
		}
		m.Update(keyRunes("np"))
		if m.input.Value() != "qnp" {
			t.Errorf("expected input qnp, got %q", m.input.Value())
		}
		if m.browsing {
			t.Error("expected no page fetch from search input")
		}
	})

	t.Run("Lookup failure shows an error line", func(t *testing.T) {
		m, catalogue, clock := newTestModel(t)
		catalogue.SearchErr = errNetwork

		m.Update(keyRunes("/"))
		m.Update(keyRunes("lost"))
		clock.Advance(debounce)

		tu.Eventually(t, time.Second, func() bool {
			return m.coordinator.Err().Get() != nil
		}, "expected search error")

		m.Update(searchChangedMsg(snapshot(m.coordinator)))
		if !strings.Contains(m.View(), "Search failed: Network Error") {
			t.Errorf("expected error line, got %q", m.View())
		}
	})

	t.Run("Change notifications reach the model", func(t *testing.T) {
		m, _, clock := newTestModel(t)

		m.Update(keyRunes("/"))
		m.Update(keyRunes("x"))
		clock.Advance(debounce)

		msg, ok := m.waitForSearch()().(Msg)
		if !ok || msg.kind != MsgSearchChanged {
			t.Fatalf("expected search change message, got %+v", msg)
		}
	})

	t.Run("Esc leaves search", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		m.Update(keyRunes("/"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != GenreView {
			t.Errorf("expected genre view, got %d", m.view)
		}
	})
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("unexpected wrap %q", got)
	}
}
