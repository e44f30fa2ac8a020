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
	// ErrInvalidCredentials indicates the identifier or password is incorrect.
	// Unknown identifiers and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountSuspended indicates the account is locked out after repeated failures.
	ErrAccountSuspended = errors.New("account suspended")
	// ErrUnauthenticated indicates the request carries no valid session token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

const (
	reasonUnknownIdentifier = "unknown identifier"
	reasonInvalidPassword   = "invalid password"
	reasonAccountSuspended  = "account suspended"
	reasonTooManyFailures   = "too many failed login attempts"
)

// RequestMeta carries per-request client attributes into the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
	Platform  string
}

// AuthService coordinates login, session verification, and logout.
type AuthService struct {
	cfg      *config.AppConfig
	users    port.UserRepository
	sessions port.SessionRepository
	attempts port.LoginAttemptRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	sessions port.SessionRepository,
	attempts port.LoginAttemptRepository,
	events port.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		attempts: attempts,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Login validates credentials and issues a session. Every call appends
// exactly one entry to the login audit trail, including attempts against
// identifiers that match no account.
func (s *AuthService) Login(ctx context.Context, identifier, password string, meta RequestMeta) (domain.Session, domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Session{}, domain.User{}, ErrInvalidCredentials
	}

	now := s.now()
	platform := meta.Platform
	if platform == "" {
		platform = s.cfg.Auth.DefaultPlatform
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.appendAttempt(ctx, nil, identifier, meta, platform, domain.AttemptOutcomeFailed, reasonUnknownIdentifier, now)
			return domain.Session{}, domain.User{}, ErrInvalidCredentials
		}
		return domain.Session{}, domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	// Suspended accounts short-circuit before the password is evaluated, so
	// the lockout cannot be probed as a password oracle.
	if user.IsSuspended() {
		s.appendAttempt(ctx, &user.ID, identifier, meta, platform, domain.AttemptOutcomeSuspended, reasonAccountSuspended, now)
		return domain.Session{}, domain.User{}, ErrAccountSuspended
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		failures, status, err := s.users.RecordFailedAttempt(ctx, user.ID, now)
		if err != nil {
			return domain.Session{}, domain.User{}, fmt.Errorf("record failed attempt: %w", err)
		}

		if status == domain.UserStatusSuspended {
			s.appendAttempt(ctx, &user.ID, identifier, meta, platform, domain.AttemptOutcomeSuspended, reasonTooManyFailures, now)
			s.publishAccountLocked(ctx, user, failures, meta.IP, now)
			return domain.Session{}, domain.User{}, ErrAccountSuspended
		}

		s.appendAttempt(ctx, &user.ID, identifier, meta, platform, domain.AttemptOutcomeFailed, reasonInvalidPassword, now)
		return domain.Session{}, domain.User{}, ErrInvalidCredentials
	}

	if err := s.users.ResetFailedAttempts(ctx, user.ID, now); err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("reset failed attempts: %w", err)
	}
	s.appendAttempt(ctx, &user.ID, identifier, meta, platform, domain.AttemptOutcomeSuccess, "", now)

	session, err := s.issueSession(ctx, user.ID, platform, meta, now)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	user.LoginAttempts = 0
	user.LastLogin = &now

	return session, user.Sanitized(), nil
}

// VerifyToken resolves a bearer token to its session and user. Expired or
// unknown tokens yield ErrUnauthenticated.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (domain.Session, domain.User, error) {
	token = NormalizeToken(token)
	if token == "" {
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	session, user, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrUnauthenticated
		}
		return domain.Session{}, domain.User{}, fmt.Errorf("lookup session: %w", err)
	}

	if !session.IsActive(s.now()) {
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	return *session, user.Sanitized(), nil
}

// CurrentUser returns the sanitized account behind a session token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	_, user, err := s.VerifyToken(ctx, token)
	return user, err
}

// LoginHistoryCount returns how many audit entries the trail holds for the user.
func (s *AuthService) LoginHistoryCount(ctx context.Context, userID string) (int, error) {
	count, err := s.attempts.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count login attempts: %w", err)
	}
	return count, nil
}

// Logout deletes the session behind the token. Logging out an absent or
// already-deleted token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = NormalizeToken(token)
	if token == "" {
		return ErrUnauthenticated
	}

	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// NormalizeToken trims whitespace and strips an optional Bearer prefix.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func (s *AuthService) issueSession(ctx context.Context, userID, platform string, meta RequestMeta, now time.Time) (domain.Session, error) {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		Token:     token,
		UserID:    userID,
		Platform:  platform,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Auth.SessionTTL),
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		session.UserAgent = &ua
	}
	if meta.IP != "" {
		ip := meta.IP
		session.IP = &ip
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// appendAttempt records the audit entry. Audit failures are logged rather
// than surfaced; the login outcome must not depend on the trail being writable.
func (s *AuthService) appendAttempt(ctx context.Context, userID *string, identifier string, meta RequestMeta, platform string, outcome domain.AttemptOutcome, reason string, at time.Time) {
	attempt := domain.LoginAttempt{
		ID:         uuid.NewString(),
		UserID:     userID,
		Identifier: identifier,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Platform:   platform,
		Outcome:    outcome,
		CreatedAt:  at,
	}
	if reason != "" {
		attempt.FailureReason = &reason
	}

	if err := s.attempts.Append(ctx, attempt); err != nil {
		s.logger.Error("append login attempt",
			zap.Error(err),
			zap.String("outcome", string(outcome)),
		)
	}
}

func (s *AuthService) publishAccountLocked(ctx context.Context, user *domain.User, failures int, ip string, at time.Time) {
	if s.events == nil {
		return
	}

	event := domain.AccountLockedEvent{
		EventID:        uuid.NewString(),
		UserID:         user.ID,
		Username:       user.Username,
		FailedAttempts: failures,
		IP:             ip,
		LockedAt:       at,
	}
	if err := s.events.PublishAccountLocked(ctx, event); err != nil {
		s.logger.Error("publish account locked event", zap.Error(err), zap.String("user_id", user.ID))
	}
}
