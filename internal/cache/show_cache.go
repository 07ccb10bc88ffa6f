package cache

import (
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/desertthunder/tvx/internal/models"
)

// ShowCache is an id-keyed store of shows. Entries are never expired or removed.
type ShowCache struct {
	mu    sync.RWMutex
	shows map[int]models.Show
}

func NewShowCache() *ShowCache {
	return &ShowCache{shows: make(map[int]models.Show)}
}

// Put stores every show in the batch, replacing any entry with the same id.
func (c *ShowCache) Put(shows []models.Show) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, show := range shows {
		c.shows[show.ID] = show
	}
}

// Get returns the cached show for id. It never fetches.
func (c *ShowCache) Get(id int) (models.Show, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	show, ok := c.shows[id]
	return show, ok
}

func (c *ShowCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.shows)
}

// All returns a snapshot of the cache ordered by id.
func (c *ShowCache) All() []models.Show {
	c.mu.RLock()
	shows := make([]models.Show, 0, len(c.shows))
	for _, show := range c.shows {
		shows = append(shows, show)
	}
	c.mu.RUnlock()

	sort.Slice(shows, func(i, j int) bool { return shows[i].ID < shows[j].ID })
	return shows
}

// showNames adapts a slice of shows to [fuzzy.Source].
type showNames []models.Show

func (s showNames) String(i int) string { return s[i].Name }
func (s showNames) Len() int            { return len(s) }

// Find fuzzy-matches query against cached show names, best match first.
// A limit of zero or less returns every match.
func (c *ShowCache) Find(query string, limit int) []models.Show {
	if query == "" {
		return nil
	}

	candidates := showNames(c.All())
	matches := fuzzy.FindFrom(query, candidates)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	found := make([]models.Show, len(matches))
	for i, m := range matches {
		found[i] = candidates[m.Index]
	}
	return found
}
