package port

import (
	"context"
	"time"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// UserRepository persists account records.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIdentifier resolves a user by username or email, regardless of status.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsByUsernameOrEmail reports whether either identifier is already taken.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// RecordFailedAttempt atomically increments the failed-login counter,
	// stamps last_login_attempt, and flips status to suspended once the counter
	// reaches domain.LockoutThreshold. It returns the post-update counter and
	// status so concurrent failures cannot both observe the pre-lockout value.
	RecordFailedAttempt(ctx context.Context, id string, at time.Time) (int, domain.UserStatus, error)
	// ResetFailedAttempts zeroes the counter and stamps last_login.
	ResetFailedAttempts(ctx context.Context, id string, loginAt time.Time) error
	UpdateProfile(ctx context.Context, id string, fields map[string]string, at time.Time) error
	UpdateProfilePicture(ctx context.Context, id, url string, at time.Time) error
	AddProfileChange(ctx context.Context, change domain.ProfileChange) error
}
