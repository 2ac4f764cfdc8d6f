//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// StubSessionRepository implements repositories.SessionRepository with a fixed token.
type StubSessionRepository struct {
	Token string
	Err   error
	Loads int
}

var _ repositories.SessionRepository = (*StubSessionRepository)(nil)

func (s *StubSessionRepository) LoadToken(_ context.Context) (string, error) {
	s.Loads++
	return s.Token, s.Err
}
