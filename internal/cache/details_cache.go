package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/desertthunder/tvx/internal/models"
)

// DetailsCache keeps show details for a fixed time after they were stored.
type DetailsCache struct {
	cache *ttlcache.Cache[int, *models.ShowDetails]
}

// NewDetailsCache starts a cache whose entries expire ttl after being set.
// Call Stop to end the expiry goroutine.
func NewDetailsCache(ttl time.Duration) *DetailsCache {
	c := ttlcache.New[int, *models.ShowDetails](
		ttlcache.WithTTL[int, *models.ShowDetails](ttl),
		ttlcache.WithDisableTouchOnHit[int, *models.ShowDetails](),
	)
	go c.Start()
	return &DetailsCache{cache: c}
}

func (c *DetailsCache) Get(id int) (*models.ShowDetails, bool) {
	item := c.cache.Get(id)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value(), true
}

func (c *DetailsCache) Set(details *models.ShowDetails) {
	if details == nil {
		return
	}
	c.cache.Set(details.ID, details, ttlcache.DefaultTTL)
}

func (c *DetailsCache) Len() int { return c.cache.Len() }

func (c *DetailsCache) Stop() { c.cache.Stop() }
