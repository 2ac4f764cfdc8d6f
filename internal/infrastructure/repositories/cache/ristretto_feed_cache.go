package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// RistrettoFeedCache keeps update documents in memory until their TTL runs out.
type RistrettoFeedCache struct {
	cache *ristretto.Cache
}

// NewRistrettoFeedCache creates a small cache; the feed is one document per repository.
func NewRistrettoFeedCache() (repositories.FeedCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feed cache: %w", err)
	}
	return &RistrettoFeedCache{cache: cache}, nil
}

func (c *RistrettoFeedCache) Get(key string) (*entities.UpdatesDocument, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	document, ok := value.(*entities.UpdatesDocument)
	if !ok {
		return nil, false
	}
	return cloneDocument(document), true
}

// Set stores a copy of document; ristretto admits writes asynchronously, so Set
// waits for the buffers to drain before returning.
func (c *RistrettoFeedCache) Set(key string, document *entities.UpdatesDocument, ttl time.Duration) {
	cost := int64(1)
	for _, update := range document.Updates {
		cost += int64(len(update.Title) + len(update.Date) + len(update.Content))
	}
	c.cache.SetWithTTL(key, cloneDocument(document), cost, ttl)
	c.cache.Wait()
}

func (c *RistrettoFeedCache) Invalidate(key string) {
	c.cache.Del(key)
}

func cloneDocument(document *entities.UpdatesDocument) *entities.UpdatesDocument {
	updates := make([]entities.Update, len(document.Updates))
	copy(updates, document.Updates)
	return &entities.UpdatesDocument{Updates: updates}
}
