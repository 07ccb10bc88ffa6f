package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/reactive"
	"github.com/desertthunder/tvx/internal/search"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GenreView ViewState = iota
	ShowListView
	SearchView
	DetailView
)

const maxCast = 12

// Opts configures the search pipeline behind [SearchView].
type Opts struct {
	Debounce time.Duration
	Clock    reactive.Clock // defaults to [reactive.SystemClock]
	BaseURL  string
	Recorder search.Recorder
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.CatalogueEngine
	width  int
	height int

	page         int
	grouped      models.GroupedShows
	genre        string
	genreList    list.Model
	showList     list.Model
	browsing     bool
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate

	details    *models.ShowDetails
	detailFrom ViewState

	input        textinput.Model
	spinner      spinner.Model
	searchList   list.Model
	query        *reactive.Value[string]
	debouncer    *reactive.Debouncer[string]
	coordinator  *search.Coordinator
	searchSignal chan struct{}
	searchState  searchSnapshot
	release      []func()

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// Call [Model.Close] once the program exits to stop the debouncer.
func NewModel(ctx context.Context, engine *tasks.CatalogueEngine, opts Opts) *Model {
	if opts.Clock == nil {
		opts.Clock = reactive.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	input := textinput.New()
	input.Placeholder = "Search shows..."
	input.Prompt = "/ "
	input.CharLimit = 120

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.header))

	m := &Model{
		ctx:          ctx,
		view:         GenreView,
		engine:       engine,
		input:        input,
		spinner:      sp,
		query:        reactive.NewValue(""),
		searchSignal: make(chan struct{}, 1),
		searchState:  searchSnapshot{results: []models.Show{}},
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.genreList = newList(nil, "Genres", m.listWidth(), m.listHeight())
	m.showList = newList(nil, "Shows", m.listWidth(), m.listHeight())
	m.searchList = newList(nil, "Results", m.listWidth(), m.listHeight()-2)

	searchOpts := []search.Option{search.WithBaseURL(opts.BaseURL), search.WithLogger(opts.Logger)}
	if opts.Recorder != nil {
		searchOpts = append(searchOpts, search.WithRecorder(opts.Recorder))
	}
	m.coordinator = search.New(m.lookup, searchOpts...)
	m.debouncer = reactive.NewDebouncer(m.query, opts.Debounce, opts.Clock)

	notify := func() {
		select {
		case m.searchSignal <- struct{}{}:
		default:
		}
	}
	m.release = append(m.release,
		search.Bind(ctx, m.debouncer.Output(), m.coordinator),
		m.coordinator.Results().Subscribe(func([]models.Show) { notify() }),
		m.coordinator.Loading().Subscribe(func(bool) { notify() }),
		m.coordinator.Err().Subscribe(func(error) { notify() }),
		m.debouncer.Stop,
	)

	return m
}

// Close stops the search pipeline.
func (m *Model) Close() {
	for _, fn := range m.release {
		fn()
	}
	m.release = nil
}

// lookup resolves coordinator requests through the engine's catalogue.
func (m *Model) lookup(ctx context.Context, url string) ([]models.SearchResultItem, error) {
	if m.engine == nil || m.engine.Catalogue() == nil {
		return nil, fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable)
	}
	return m.engine.Catalogue().Lookup(ctx, url)
}

// Init initializes the TUI by fetching the first index page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startBrowse(0), m.waitForSearch(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case GenreView:
			return m.handleGenreKeys(msg)
		case ShowListView:
			return m.handleShowListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		m.status = m.progress.Message
		return m, m.waitForProgress()

	case MsgPageFetched:
		data := msg.data.(pageFetched)
		m.browsing = false
		m.progressChan = nil
		m.doneChan = nil
		if data.err != nil {
			if errors.Is(data.err, shared.ErrShowNotFound) && data.page > 0 {
				m.status = fmt.Sprintf("No shows past page %d", m.page)
				return m, nil
			}
			m.err = data.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.page = data.page
		m.grouped = data.result.Grouped
		m.genreList = newList(genreItems(m.grouped), fmt.Sprintf("Genres • page %d", m.page), m.listWidth(), m.listHeight())
		m.status = fmt.Sprintf("%d shows on page %d • %d cached", len(data.result.Shows), m.page, m.engine.Shows().Len())
		m.view = GenreView
		return m, nil

	case MsgDetailsFetched:
		data := msg.data.(detailsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.details = data.details
		m.view = DetailView
		return m, nil

	case MsgSearchChanged:
		m.searchState = msg.data.(searchSnapshot)
		m.searchList = newList(showItems(m.searchState.results), "Results", m.listWidth(), m.listHeight()-2)
		return m, m.waitForSearch()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case GenreView:
		body = m.renderGenres()
	case ShowListView:
		body = m.renderShows()
	case SearchView:
		body = m.renderSearch()
	case DetailView:
		body = m.renderDetails()
	}

	var footer []string
	if m.err != nil {
		footer = append(footer, styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.status != "" && m.view != SearchView {
		footer = append(footer, styles.muted.Render(m.status))
	}
	if len(footer) == 0 {
		return body
	}
	return body + "\n" + strings.Join(footer, "\n")
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m, m.enterSearch()
	case key.Matches(msg, m.keys.next):
		if m.browsing {
			return m, nil
		}
		return m, m.startBrowse(m.page + 1)
	case key.Matches(msg, m.keys.prev):
		if m.browsing || m.page == 0 {
			return m, nil
		}
		return m, m.startBrowse(m.page - 1)
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.genreList.SelectedItem().(genreItem); ok {
			m.genre = item.name
			m.showList = newList(showItems(m.grouped[item.name]), item.name, m.listWidth(), m.listHeight())
			m.view = ShowListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.genreList, cmd = m.genreList.Update(msg)
	return m, cmd
}

func (m *Model) handleShowListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = GenreView
		return m, nil
	case key.Matches(msg, m.keys.search):
		return m, m.enterSearch()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.showList.SelectedItem().(showItem); ok {
			m.detailFrom = ShowListView
			return m, m.fetchDetails(item.show.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.showList, cmd = m.showList.Update(msg)
	return m, cmd
}

// handleSearchKeys routes keys to the text input, except for navigation keys that
// cannot be typed into a query.
func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.view = GenreView
		return m, nil
	case tea.KeyEnter:
		if item, ok := m.searchList.SelectedItem().(showItem); ok {
			m.detailFrom = SearchView
			return m, m.fetchDetails(item.show.ID)
		}
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.query.Get() {
		m.query.Set(value)
	}
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.detailFrom
		if m.view == SearchView {
			return m, m.input.Focus()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) enterSearch() tea.Cmd {
	m.view = SearchView
	m.err = nil
	return m.input.Focus()
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GenreView:
		m.genreList, cmd = m.genreList.Update(msg)
	case ShowListView:
		m.showList, cmd = m.showList.Update(msg)
	case SearchView:
		m.searchList, cmd = m.searchList.Update(msg)
	}
	return m, cmd
}

func (m *Model) listWidth() int  { return max(m.width-4, 20) }
func (m *Model) listHeight() int { return max(m.height-8, 10) }

func (m *Model) resizeLists() {
	m.genreList.SetSize(m.listWidth(), m.listHeight())
	m.showList.SetSize(m.listWidth(), m.listHeight())
	m.searchList.SetSize(m.listWidth(), m.listHeight()-2)
}

// startBrowse fetches page on a goroutine and streams its progress.
func (m *Model) startBrowse(page int) tea.Cmd {
	m.browsing = true
	m.err = nil
	m.progressChan = make(chan tasks.ProgressUpdate, 8)
	m.doneChan = make(chan Msg, 1)

	progress, done := m.progressChan, m.doneChan
	go func() {
		result, err := m.engine.Browse(m.ctx, page, progress)
		done <- pageFetchedMsg(page, result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fetchDetails(id int) tea.Cmd {
	return func() tea.Msg {
		details, err := m.engine.Details(m.ctx, id, nil)
		return detailsFetchedMsg(details, err)
	}
}

// waitForSearch blocks until the coordinator changes, then reports its state.
func (m *Model) waitForSearch() tea.Cmd {
	ctx, signal, c := m.ctx, m.searchSignal, m.coordinator
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-signal:
		}
		return searchChangedMsg(snapshot(c))
	}
}

func snapshot(c *search.Coordinator) searchSnapshot {
	return searchSnapshot{
		results: c.Results().Get(),
		loading: c.Loading().Get(),
		err:     c.Err().Get(),
	}
}

func (m *Model) renderGenres() string {
	title := styles.title.Render("TVmaze")
	if m.browsing && m.grouped == nil {
		return fmt.Sprintf("%s\n%s %s", title, m.spinner.View(), m.progress.Message)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.next, m.keys.prev, m.keys.search, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.genreList.View(), helpView)
}

func (m *Model) renderShows() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.search, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.showList.View(), helpView)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.searchState.loading:
		b.WriteString(m.spinner.View() + " Searching...")
	case m.searchState.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Search failed: %v", m.searchState.err)))
	case strings.TrimSpace(m.query.Get()) == "":
		b.WriteString(styles.help.Render("Type to search the TVmaze catalogue"))
	case len(m.searchState.results) == 0 && m.debouncer.Output().Get() == m.query.Get():
		b.WriteString(styles.warn.Render("No shows found"))
	}
	b.WriteString("\n")

	if len(m.searchState.results) > 0 {
		b.WriteString(m.searchList.View())
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
		m.keys.enter,
		m.keys.back,
		m.keys.abort,
	}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetails() string {
	if m.details == nil {
		return styles.err.Render("No show selected")
	}
	d := m.details

	var b strings.Builder
	b.WriteString(styles.title.Render(d.Name))
	b.WriteString("\n")

	facts := []struct{ label, value string }{
		{"Genres", strings.Join(d.Genres, ", ")},
		{"Rating", d.RatingString()},
		{"Premiered", d.PremieredString()},
		{"Status", d.Status},
		{"Channel", d.Channel()},
		{"Runtime", shared.FormatRuntime(d.Runtime)},
		{"Language", d.Language},
	}
	for _, f := range facts {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", styles.header.Render(f.label+":"), f.value)
	}

	if summary := d.PlainSummary(); summary != "" {
		b.WriteString("\n")
		b.WriteString(wrap(summary, max(m.width-4, 40)))
		b.WriteString("\n")
	}

	if cast := d.Cast(); len(cast) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.header.Render("Cast"))
		b.WriteString("\n")
		for i, member := range cast {
			if i == maxCast {
				fmt.Fprintf(&b, "  %s\n", styles.muted.Render(fmt.Sprintf("and %d more", len(cast)-maxCast)))
				break
			}
			fmt.Fprintf(&b, "  %s as %s\n", member.Person.Name, member.Character.Name)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}

// wrap breaks text on spaces so no line exceeds width runes where possible.
func wrap(text string, width int) string {
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		n := len([]rune(word))
		if i > 0 {
			if lineLen+1+n > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}
