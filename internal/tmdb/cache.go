package tmdb

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TMDB responses change rarely; search results are kept briefly, details longer.
const (
	defaultSearchTTL  = 5 * time.Minute
	defaultDetailsTTL = time.Hour
)

// cache holds decoded responses keyed by request.
// Expired entries are removed by prune, not by a background janitor.
type cache struct {
	store      *gocache.Cache
	searchTTL  time.Duration
	detailsTTL time.Duration
}

func newCache(searchTTL, detailsTTL time.Duration) *cache {
	return &cache{
		store:      gocache.New(detailsTTL, 0),
		searchTTL:  searchTTL,
		detailsTTL: detailsTTL,
	}
}

func (c *cache) get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *cache) set(key string, v any, ttl time.Duration) {
	c.store.Set(key, v, ttl)
}

func (c *cache) prune() int {
	before := c.store.ItemCount()
	c.store.DeleteExpired()
	return before - c.store.ItemCount()
}
