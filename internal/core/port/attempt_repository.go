package port

import (
	"context"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// LoginAttemptRepository appends to the immutable login audit trail.
type LoginAttemptRepository interface {
	Append(ctx context.Context, attempt domain.LoginAttempt) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
