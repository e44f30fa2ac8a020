package port

import (
	"context"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// SessionRepository persists opaque session tokens.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	// GetByToken returns the session and its owning user in one lookup.
	// Expiry is not evaluated here; callers compare against their clock.
	GetByToken(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	// DeleteByToken removes the session. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) error
}
