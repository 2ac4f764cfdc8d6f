package repositories

import "context"

// SessionRepository supplies the session-scoped secret. Implementations never
// persist what they return.
type SessionRepository interface {
	LoadToken(ctx context.Context) (string, error)
}
