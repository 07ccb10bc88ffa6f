// package tasks implements catalogue fetch operations that feed the show caches.
//
// The core abstraction is CatalogueEngine, which pairs a catalogue service with
// the record cache. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/cache"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

// ShowCacher persists fetched shows.
// Implemented by repositories.ShowCacheAdapter.
type ShowCacher interface {
	UpsertAll(ctx context.Context, shows []models.Show) error
}

// BrowseResult is one page of the show index.
type BrowseResult struct {
	Page    int
	Shows   []models.Show
	Grouped models.GroupedShows
}

// CatalogueEngine coordinates catalogue fetches with the in-memory caches.
type CatalogueEngine struct {
	catalogue services.CatalogueService
	shows     *cache.ShowCache
	details   *cache.DetailsCache
	cacher    ShowCacher
	logger    *log.Logger
}

// NewCatalogueEngine creates an engine. details may be nil to disable detail caching.
func NewCatalogueEngine(catalogue services.CatalogueService, shows *cache.ShowCache, details *cache.DetailsCache) *CatalogueEngine {
	if shows == nil {
		shows = cache.NewShowCache()
	}
	return &CatalogueEngine{
		catalogue: catalogue,
		shows:     shows,
		details:   details,
		logger:    log.Default(),
	}
}

// WithCacher sets the persistence layer for fetched pages.
func (e *CatalogueEngine) WithCacher(c ShowCacher) *CatalogueEngine {
	e.cacher = c
	return e
}

// WithLogger sets the logger used for non-fatal failures.
func (e *CatalogueEngine) WithLogger(l *log.Logger) *CatalogueEngine {
	if l != nil {
		e.logger = l
	}
	return e
}

// Shows returns the record cache the engine writes to.
func (e *CatalogueEngine) Shows() *cache.ShowCache { return e.shows }

// Catalogue returns the underlying catalogue service.
func (e *CatalogueEngine) Catalogue() services.CatalogueService { return e.catalogue }

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogueEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Browse fetches one index page, writes it through to the caches and groups it by genre.
func (e *CatalogueEngine) Browse(ctx context.Context, page int, progress chan<- ProgressUpdate) (*BrowseResult, error) {
	if e.catalogue == nil {
		return nil, fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchPageUpdate(page))

	shows, err := e.catalogue.ListShows(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}

	e.store(ctx, shows)
	e.sendProgress(progress, cachePageUpdate(page, shows))

	return &BrowseResult{Page: page, Shows: shows, Grouped: models.GroupByGenre(shows)}, nil
}

// Details returns show details with cast, preferring a fresh cached copy.
func (e *CatalogueEngine) Details(ctx context.Context, id int, progress chan<- ProgressUpdate) (*models.ShowDetails, error) {
	if e.details != nil {
		if d, ok := e.details.Get(id); ok {
			e.sendProgress(progress, fetchDetailsUpdate(id, true))
			return d, nil
		}
	}

	if e.catalogue == nil {
		return nil, fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchDetailsUpdate(id, false))

	details, err := e.catalogue.GetShowDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch show %d: %w", id, err)
	}

	if e.details != nil {
		e.details.Set(details)
	}
	return details, nil
}

// Lookup reads a show from the record cache without fetching.
func (e *CatalogueEngine) Lookup(id int) (models.Show, error) {
	show, ok := e.shows.Get(id)
	if !ok {
		return models.Show{}, fmt.Errorf("%w: %d", shared.ErrNotCached, id)
	}
	return show, nil
}

// store writes a batch to the record cache, then to the cacher if one is set.
func (e *CatalogueEngine) store(ctx context.Context, shows []models.Show) {
	e.shows.Put(shows)

	if e.cacher == nil || len(shows) == 0 {
		return
	}
	if err := e.cacher.UpsertAll(ctx, shows); err != nil {
		e.logger.Warn("failed to persist shows", "count", len(shows), "error", err)
	}
}

func isEndOfIndex(err error) bool {
	return errors.Is(err, shared.ErrShowNotFound)
}
