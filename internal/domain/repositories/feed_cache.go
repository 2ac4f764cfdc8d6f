package repositories

import (
	"time"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// FeedCache keeps recently read update documents for a limited time.
type FeedCache interface {
	Get(key string) (*entities.UpdatesDocument, bool)
	Set(key string, document *entities.UpdatesDocument, ttl time.Duration)
	Invalidate(key string)
}
