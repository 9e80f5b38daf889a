package memory

import (
	"fmt"
	"time"

	"carfinder-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// ListingCache keeps recently served listing pages in memory. The public
// listing feed is read-heavy and anonymous, so a short TTL takes most of
// the load off Postgres without risking stale data for long.
type ListingCache struct {
	cache *cache.Cache
}

func NewListingCache() *ListingCache {
	// Pages expire after 5 minutes, expired entries are purged every 10
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &ListingCache{
		cache: c,
	}
}

func pageKey(page, pageSize int) string {
	return fmt.Sprintf("used_cars:%d:%d", page, pageSize)
}

func (r *ListingCache) Save(page, pageSize int, result *dto.PagedUsedCarsResponse) {
	r.cache.Set(pageKey(page, pageSize), result, cache.DefaultExpiration)
}

func (r *ListingCache) Get(page, pageSize int) (*dto.PagedUsedCarsResponse, bool) {
	if x, found := r.cache.Get(pageKey(page, pageSize)); found {
		return x.(*dto.PagedUsedCarsResponse), true
	}
	return nil, false
}

// Invalidate drops every cached page. Called after a new listing is created.
func (r *ListingCache) Invalidate() {
	r.cache.Flush()
}
