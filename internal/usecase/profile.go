package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/port"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/config"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/security"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/repository"
)

var (
	// ErrUserNotFound indicates the profile owner does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoProfileChanges indicates the update request carried no updatable fields.
	ErrNoProfileChanges = errors.New("no profile changes provided")
	// ErrUnsupportedFileType indicates the uploaded picture has a disallowed extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrFileTooLarge indicates the uploaded picture exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

var allowedPictureExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ProfileUpdate carries the optional fields of a profile edit. Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	FullName *string
	Location *string
	Country  *string
}

// ProfileService reads and mutates account profiles.
type ProfileService struct {
	cfg    *config.AppConfig
	users  port.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewProfileService constructs a profile service.
func NewProfileService(cfg *config.AppConfig, users port.UserRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		cfg:    cfg,
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *ProfileService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Get returns the sanitized profile for a user.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user.Sanitized(), nil
}

// Update applies the provided fields and records one history entry per
// field whose value actually changed.
func (s *ProfileService) Update(ctx context.Context, userID string, update ProfileUpdate) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	// Same length floors as registration.
	if update.Location != nil {
		if v := security.SanitizeInput(*update.Location); v != "" && len(v) < 3 {
			return domain.User{}, ErrInvalidProfile
		}
	}
	if update.Country != nil {
		if v := security.SanitizeInput(*update.Country); v != "" && len(v) < 2 {
			return domain.User{}, ErrInvalidProfile
		}
	}

	now := s.now()
	fields := map[string]string{}
	var changes []domain.ProfileChange

	apply := func(column, oldValue string, newValue *string) string {
		if newValue == nil {
			return oldValue
		}
		value := security.SanitizeInput(*newValue)
		if value == "" || value == oldValue {
			return oldValue
		}
		fields[column] = value
		changes = append(changes, domain.ProfileChange{
			ID:        uuid.NewString(),
			UserID:    userID,
			FieldName: column,
			OldValue:  oldValue,
			NewValue:  value,
			ChangedAt: now,
		})
		return value
	}

	user.FullName = apply("full_name", user.FullName, update.FullName)
	user.Location = apply("location", user.Location, update.Location)
	user.Country = apply("country", user.Country, update.Country)

	if len(fields) == 0 {
		return domain.User{}, ErrNoProfileChanges
	}

	if err := s.users.UpdateProfile(ctx, userID, fields, now); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	for _, change := range changes {
		if err := s.users.AddProfileChange(ctx, change); err != nil {
			s.logger.Error("append profile change",
				zap.Error(err),
				zap.String("field", change.FieldName),
			)
		}
	}

	user.UpdatedAt = now
	return user.Sanitized(), nil
}

// SetProfilePicture validates the uploaded file attributes and returns the
// storage filename. The transport layer streams the bytes to disk.
func (s *ProfileService) SetProfilePicture(ctx context.Context, userID, originalName string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedPictureExtensions[ext] {
		return "", ErrUnsupportedFileType
	}
	if size <= 0 || size > s.cfg.Uploads.MaxFileSize {
		return "", ErrFileTooLarge
	}

	now := s.now()
	filename := fmt.Sprintf("%s_%d%s", userID, now.UnixMilli(), ext)

	if err := s.users.UpdateProfilePicture(ctx, userID, filename, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("update profile picture: %w", err)
	}

	return filename, nil
}
