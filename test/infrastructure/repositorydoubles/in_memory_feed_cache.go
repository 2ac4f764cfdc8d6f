//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"
	"time"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// InMemoryFeedCache implements repositories.FeedCache with a map and records
// how it was used. Entries never expire.
type InMemoryFeedCache struct {
	mu      sync.Mutex
	entries map[string]entities.UpdatesDocument

	Hits          int
	Misses        int
	SetKeys       []string
	SetTTLs       []time.Duration
	Invalidations []string
}

var _ repositories.FeedCache = (*InMemoryFeedCache)(nil)

// NewInMemoryFeedCache creates an empty cache.
func NewInMemoryFeedCache() *InMemoryFeedCache {
	return &InMemoryFeedCache{entries: map[string]entities.UpdatesDocument{}}
}

func (c *InMemoryFeedCache) Get(key string) (*entities.UpdatesDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	document, ok := c.entries[key]
	if !ok {
		c.Misses++
		return nil, false
	}
	c.Hits++
	updates := append([]entities.Update(nil), document.Updates...)
	return &entities.UpdatesDocument{Updates: updates}, true
}

func (c *InMemoryFeedCache) Set(key string, document *entities.UpdatesDocument, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetKeys = append(c.SetKeys, key)
	c.SetTTLs = append(c.SetTTLs, ttl)
	c.entries[key] = entities.UpdatesDocument{Updates: append([]entities.Update(nil), document.Updates...)}
}

func (c *InMemoryFeedCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations = append(c.Invalidations, key)
	delete(c.entries, key)
}
