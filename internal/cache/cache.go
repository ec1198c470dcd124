// Package cache memoizes the full search pipeline keyed by the
// normalized request.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/midori-cloud/kensaku/internal/domain/search/result"
)

// DefaultCapacity bounds the cache when no capacity is configured.
const DefaultCapacity = 128

// Entry is one memoized pipeline result.
type Entry struct {
	Companies      []result.Company
	TotalFound     int
	TotalCompanies int
	CreatedAt      time.Time
}

// Cache is a bounded LRU over grouped search results. Eviction is
// least-recently-used, not time-based: identical queries repeat often
// and the indexes change rarely. Equivalent callers racing on one key
// share a single computation.
type Cache struct {
	lru *lru.Cache[string, *Entry]
	sf  singleflight.Group
}

// New creates a cache with the given capacity (<=0 uses the default).
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l, err := lru.New[string, *Entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{lru: l}, nil
}

// GetOrCompute returns the cached entry for key, computing and storing
// it on a miss. The second return reports whether the entry was served
// from cache. At most one computation per key is in flight at a time.
func (c *Cache) GetOrCompute(key string, compute func() (*Entry, error)) (*Entry, bool, error) {
	if e, ok := c.lru.Get(key); ok {
		return e, true, nil
	}

	computed := false
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if e, ok := c.lru.Get(key); ok {
			return e, nil
		}
		e, err := compute()
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, e)
		computed = true
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Entry), !computed, nil
}

// InvalidateAll drops every entry. Index mutators call this
// synchronously before returning so no stale grouped result is ever
// served after a write.
func (c *Cache) InvalidateAll() {
	c.lru.Purge()
}

// Len returns the current entry count.
func (c *Cache) Len() int { return c.lru.Len() }
