// Package inventory serves property snapshots to the matcher through a TTL
// cache, so repeated match runs do not hit SQLite per request.
package inventory

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/propdesk/propdesk/internal/property"
)

const snapshotKey = "inventory-snapshot"

// DefaultTTL bounds snapshot staleness. Imports call Refresh explicitly, so
// the TTL only covers out-of-band writes.
const DefaultTTL = 5 * time.Minute

// Cache is a read-through snapshot over the property repository. It
// implements the matcher's Inventory interface.
type Cache struct {
	repo  *property.Repository
	cache *gocache.Cache
}

// New creates an inventory cache with the given snapshot TTL.
func New(repo *property.Repository, ttl time.Duration) *Cache {
	return &Cache{
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Snapshot returns all properties, served from cache when fresh.
func (c *Cache) Snapshot() ([]*property.Record, error) {
	if cached, ok := c.cache.Get(snapshotKey); ok {
		return cached.([]*property.Record), nil
	}

	records, err := c.repo.List(property.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	c.cache.SetDefault(snapshotKey, records)
	return records, nil
}

// Refresh drops the cached snapshot and reloads it. Call after imports or
// property writes.
func (c *Cache) Refresh() ([]*property.Record, error) {
	c.cache.Delete(snapshotKey)
	return c.Snapshot()
}
