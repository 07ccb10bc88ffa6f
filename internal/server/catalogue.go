package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/search"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/tasks"
)

const (
	routeShows  = "GET /api/shows"
	routeShow   = "GET /api/shows/{id}"
	routeCache  = "GET /api/cache/{id}"
	routeSearch = "GET /api/search"
	routeHealth = "GET /health"
)

// CatalogueOpts configures a [CatalogueHandler].
type CatalogueOpts struct {
	BaseURL     string          // search lookups are built against this base (default [search.DefaultBaseURL])
	ResultLimit int             // caps search results, 0 means no cap
	Recorder    search.Recorder // optional, sees every settled search
	Logger      *log.Logger
}

// CatalogueHandler serves read-only JSON views over a [tasks.CatalogueEngine].
type CatalogueHandler struct {
	engine   *tasks.CatalogueEngine
	baseURL  string
	limit    int
	recorder search.Recorder
	logger   *log.Logger
}

// NewCatalogueHandler creates a handler backed by engine.
func NewCatalogueHandler(engine *tasks.CatalogueEngine, opts CatalogueOpts) *CatalogueHandler {
	if opts.BaseURL == "" {
		opts.BaseURL = search.DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &CatalogueHandler{
		engine:   engine,
		baseURL:  opts.BaseURL,
		limit:    opts.ResultLimit,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
}

// Routes implements [Handler].
func (h *CatalogueHandler) Routes() []string {
	return []string{routeShows, routeShow, routeCache, routeSearch, routeHealth}
}

// ServeHTTP dispatches on the mux pattern that matched the request.
func (h *CatalogueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case routeShows:
		h.handleShows(w, r)
	case routeShow:
		h.handleShow(w, r)
	case routeCache:
		h.handleCached(w, r)
	case routeSearch:
		h.handleSearch(w, r)
	case routeHealth:
		h.handleHealth(w, r)
	default:
		writeError(w, h.logger, fmt.Errorf("%w: no route for %s %s", shared.ErrShowNotFound, r.Method, r.URL.Path))
	}
}

type genreGroup struct {
	Name  string        `json:"name"`
	Shows []models.Show `json:"shows"`
}

type showsPageResponse struct {
	Page   int          `json:"page"`
	Count  int          `json:"count"`
	Genres []genreGroup `json:"genres"`
}

type searchResponse struct {
	Query   string        `json:"query"`
	Results []models.Show `json:"results"`
	Error   string        `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Catalogue   string `json:"catalogue"`
	CachedShows int    `json:"cached_shows"`
}

func (h *CatalogueHandler) handleShows(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, h.logger, fmt.Errorf("%w: page must be a non-negative integer, got %q", shared.ErrInvalidArgument, raw))
			return
		}
		page = n
	}

	result, err := h.engine.Browse(r.Context(), page, nil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	genres := result.Grouped.Genres()
	groups := make([]genreGroup, 0, len(genres))
	for _, name := range genres {
		groups = append(groups, genreGroup{Name: name, Shows: result.Grouped[name]})
	}

	writeJSON(w, http.StatusOK, showsPageResponse{Page: result.Page, Count: len(result.Shows), Genres: groups})
}

func (h *CatalogueHandler) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	details, err := h.engine.Details(r.Context(), id, nil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CatalogueHandler) handleCached(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	show, err := h.engine.Lookup(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// handleSearch runs one search through a fresh coordinator and reports its settled state.
func (h *CatalogueHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	catalogue := h.engine.Catalogue()
	if catalogue == nil {
		writeError(w, h.logger, fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable))
		return
	}

	opts := []search.Option{search.WithBaseURL(h.baseURL), search.WithLogger(h.logger)}
	if h.recorder != nil {
		opts = append(opts, search.WithRecorder(h.recorder))
	}
	coordinator := search.New(catalogue.Lookup, opts...)
	coordinator.SearchSync(r.Context(), query)

	if err := r.Context().Err(); err != nil {
		h.logger.Debug("search request cancelled", "query", query, "error", err)
		return
	}

	results := coordinator.Results().Get()
	if h.limit > 0 && len(results) > h.limit {
		results = results[:h.limit]
	}

	resp := searchResponse{Query: strings.TrimSpace(query), Results: results}
	status := http.StatusOK
	if err := coordinator.Err().Get(); err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

func (h *CatalogueHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	name := "none"
	if c := h.engine.Catalogue(); c != nil {
		name = c.Name()
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Catalogue: name, CachedShows: h.engine.Shows().Len()})
}

func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: show id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
