package usecase

import (
	"context"
	"errors"
	"fmt"
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
	// ErrInvalidUsername indicates the username fails format requirements.
	ErrInvalidUsername = errors.New("username must be 3-50 characters of letters, digits, and underscores")
	// ErrInvalidEmail indicates the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword indicates the password fails the complexity policy.
	ErrWeakPassword = errors.New("password does not meet complexity requirements")
	// ErrInvalidProfile indicates location or country fail length requirements.
	ErrInvalidProfile = errors.New("invalid profile details")
	// ErrDuplicateAccount indicates the username or email is already registered.
	ErrDuplicateAccount = errors.New("username or email already registered")
)

// RegistrationInput carries the fields of a sign-up request.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Location string
	Country  string
}

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	cfg               *config.AppConfig
	users             port.UserRepository
	auth              *AuthService
	events            port.EventPublisher
	passwordValidator *security.PasswordValidator
	logger            *zap.Logger
	now               func() time.Time
}

// NewRegistrationService constructs a registration service. The auth service
// issues the initial session after a successful sign-up.
func NewRegistrationService(
	cfg *config.AppConfig,
	users port.UserRepository,
	auth *AuthService,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	logger *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator(cfg.Auth.PasswordMinScore)
	}
	return &RegistrationService{
		cfg:               cfg,
		users:             users,
		auth:              auth,
		events:            events,
		passwordValidator: validator,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register validates the input, creates the account, and issues the first
// session so the client lands signed in.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput, meta RequestMeta) (domain.Session, domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = security.SanitizeInput(input.FullName)
	input.Location = security.SanitizeInput(input.Location)
	input.Country = security.SanitizeInput(input.Country)

	if !security.ValidUsername(input.Username) {
		return domain.Session{}, domain.User{}, ErrInvalidUsername
	}
	if !security.ValidEmail(input.Email) {
		return domain.Session{}, domain.User{}, ErrInvalidEmail
	}
	if err := s.passwordValidator.Validate(input.Password); err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}
	if input.FullName == "" || len(input.Location) < 3 || len(input.Country) < 2 {
		return domain.Session{}, domain.User{}, ErrInvalidProfile
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("check duplicate account: %w", err)
	}
	if taken {
		return domain.Session{}, domain.User{}, ErrDuplicateAccount
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FullName:     input.FullName,
		Country:      input.Country,
		Location:     input.Location,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two racing sign-ups can both pass the precheck; the unique
		// constraint decides the loser.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Session{}, domain.User{}, ErrDuplicateAccount
		}
		return domain.Session{}, domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user, now)

	platform := meta.Platform
	if platform == "" {
		platform = s.cfg.Auth.DefaultPlatform
	}
	s.auth.appendAttempt(ctx, &user.ID, user.Username, meta, platform, domain.AttemptOutcomeSuccess, "", now)
	session, err := s.auth.issueSession(ctx, user.ID, platform, meta, now)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	return session, user.Sanitized(), nil
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user domain.User, at time.Time) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: at,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Error("publish user registered event", zap.Error(err), zap.String("user_id", user.ID))
	}
}
