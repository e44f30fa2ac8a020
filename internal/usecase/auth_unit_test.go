package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/config"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/security"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/repository"
)

type fakeUserRepo struct {
	users     map[string]*domain.User
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range r.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) RecordFailedAttempt(_ context.Context, id string, at time.Time) (int, domain.UserStatus, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, "", repository.ErrNotFound
	}
	user.LoginAttempts++
	user.LastLoginAttempt = &at
	if user.LoginAttempts >= domain.LockoutThreshold {
		user.Status = domain.UserStatusSuspended
	}
	return user.LoginAttempts, user.Status, nil
}

func (r *fakeUserRepo) ResetFailedAttempts(_ context.Context, id string, loginAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LoginAttempts = 0
	user.LastLogin = &loginAt
	user.LastLoginAttempt = &loginAt
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, fields map[string]string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "full_name":
			user.FullName = value
		case "location":
			user.Location = value
		case "country":
			user.Country = value
		}
	}
	user.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) UpdateProfilePicture(_ context.Context, id, url string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ProfilePicURL = &url
	user.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) AddProfileChange(context.Context, domain.ProfileChange) error {
	return nil
}

type fakeSessionRepo struct {
	users    *fakeUserRepo
	sessions map[string]domain.Session
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{users: users, sessions: make(map[string]domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	user, err := r.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return &session, user, nil
}

func (r *fakeSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakeAttemptRepo struct {
	attempts []domain.LoginAttempt
}

func (r *fakeAttemptRepo) Append(_ context.Context, attempt domain.LoginAttempt) error {
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeAttemptRepo) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, attempt := range r.attempts {
		if attempt.UserID != nil && *attempt.UserID == userID {
			count++
		}
	}
	return count, nil
}

type capturingPublisher struct {
	registered []domain.UserRegisteredEvent
	locked     []domain.AccountLockedEvent
	contacts   []domain.ContactMessageReceivedEvent
	apps       []domain.JobApplicationReceivedEvent
}

func (p *capturingPublisher) PublishUserRegistered(_ context.Context, e domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, e)
	return nil
}

func (p *capturingPublisher) PublishAccountLocked(_ context.Context, e domain.AccountLockedEvent) error {
	p.locked = append(p.locked, e)
	return nil
}

func (p *capturingPublisher) PublishContactMessageReceived(_ context.Context, e domain.ContactMessageReceivedEvent) error {
	p.contacts = append(p.contacts, e)
	return nil
}

func (p *capturingPublisher) PublishJobApplicationReceived(_ context.Context, e domain.JobApplicationReceivedEvent) error {
	p.apps = append(p.apps, e)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Auth: config.AuthSettings{
			SessionTTL:      720 * time.Hour,
			DefaultPlatform: "z9-software-house",
		},
	}
}

func newTestUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return &domain.User{
		ID:           uuid.NewString(),
		Username:     "marat",
		Email:        "marat@example.com",
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func newTestAuthService(users *fakeUserRepo, sessions *fakeSessionRepo, attempts *fakeAttemptRepo, events *capturingPublisher) *AuthService {
	return NewAuthService(testConfig(), users, sessions, attempts, events, zap.NewNop())
}

func TestLoginSuccessIssuesSession(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	attempts := &fakeAttemptRepo{}
	svc := newTestAuthService(users, sessions, attempts, &capturingPublisher{})

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	session, got, err := svc.Login(context.Background(), "marat", "Sup3rSecret", RequestMeta{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if len(session.Token) != 64 {
		t.Fatalf("expected 64 character token, got %d", len(session.Token))
	}
	if want := fixed.Add(720 * time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, session.ExpiresAt)
	}
	if got.PasswordHash != "" {
		t.Fatal("login response must not carry the password hash")
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(attempts.attempts))
	}
	if attempts.attempts[0].Outcome != domain.AttemptOutcomeSuccess {
		t.Fatalf("unexpected outcome %q", attempts.attempts[0].Outcome)
	}
}

func TestLoginUnknownIdentifierAuditsWithoutUser(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo(users)
	attempts := &fakeAttemptRepo{}
	svc := newTestAuthService(users, sessions, attempts, &capturingPublisher{})

	_, _, err := svc.Login(context.Background(), "ghost", "whatever", RequestMeta{IP: "10.0.0.2"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(attempts.attempts))
	}
	entry := attempts.attempts[0]
	if entry.UserID != nil {
		t.Fatal("unknown identifier must audit with no user id")
	}
	if entry.Identifier != "ghost" {
		t.Fatalf("unexpected identifier %q", entry.Identifier)
	}
	if entry.Outcome != domain.AttemptOutcomeFailed {
		t.Fatalf("unexpected outcome %q", entry.Outcome)
	}
}

func TestLoginLockoutAfterFifthFailure(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	attempts := &fakeAttemptRepo{}
	events := &capturingPublisher{}
	svc := newTestAuthService(users, sessions, attempts, events)

	for i := 1; i <= 4; i++ {
		_, _, err := svc.Login(context.Background(), "marat", "wrong", RequestMeta{})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
		if users.users[user.ID].LoginAttempts != i {
			t.Fatalf("attempt %d: counter is %d", i, users.users[user.ID].LoginAttempts)
		}
		if users.users[user.ID].Status != domain.UserStatusActive {
			t.Fatalf("attempt %d: account suspended early", i)
		}
	}

	_, _, err := svc.Login(context.Background(), "marat", "wrong", RequestMeta{IP: "10.0.0.3"})
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("fifth failure: expected ErrAccountSuspended, got %v", err)
	}
	if users.users[user.ID].Status != domain.UserStatusSuspended {
		t.Fatal("fifth failure must suspend the account")
	}

	if len(attempts.attempts) != 5 {
		t.Fatalf("expected 5 audit rows, got %d", len(attempts.attempts))
	}
	last := attempts.attempts[4]
	if last.Outcome != domain.AttemptOutcomeSuspended {
		t.Fatalf("fifth audit outcome is %q", last.Outcome)
	}
	if last.FailureReason == nil || *last.FailureReason != reasonTooManyFailures {
		t.Fatal("fifth audit row must record the lockout reason")
	}

	if len(events.locked) != 1 {
		t.Fatalf("expected 1 account locked event, got %d", len(events.locked))
	}
	if events.locked[0].FailedAttempts != domain.LockoutThreshold {
		t.Fatalf("locked event carries %d failures", events.locked[0].FailedAttempts)
	}
}

func TestLoginSuspendedRejectsCorrectPassword(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	user.Status = domain.UserStatusSuspended
	user.LoginAttempts = domain.LockoutThreshold
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	attempts := &fakeAttemptRepo{}
	svc := newTestAuthService(users, sessions, attempts, &capturingPublisher{})

	_, _, err := svc.Login(context.Background(), "marat", "Sup3rSecret", RequestMeta{})
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}

	// The counter must not advance on an attempt against a suspended account.
	if users.users[user.ID].LoginAttempts != domain.LockoutThreshold {
		t.Fatalf("counter moved to %d", users.users[user.ID].LoginAttempts)
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(attempts.attempts))
	}
	if attempts.attempts[0].Outcome != domain.AttemptOutcomeSuspended {
		t.Fatalf("unexpected outcome %q", attempts.attempts[0].Outcome)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	attempts := &fakeAttemptRepo{}
	svc := newTestAuthService(users, sessions, attempts, &capturingPublisher{})

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Login(context.Background(), "marat", "wrong", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if _, _, err := svc.Login(context.Background(), "marat", "Sup3rSecret", RequestMeta{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if users.users[user.ID].LoginAttempts != 0 {
		t.Fatalf("counter not reset, got %d", users.users[user.ID].LoginAttempts)
	}

	if _, _, err := svc.Login(context.Background(), "marat", "wrong", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if users.users[user.ID].LoginAttempts != 1 {
		t.Fatalf("expected counter 1 after reset, got %d", users.users[user.ID].LoginAttempts)
	}
}

func TestVerifyTokenHonorsExpiry(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	svc := newTestAuthService(users, sessions, &fakeAttemptRepo{}, &capturingPublisher{})

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return start })

	session, _, err := svc.Login(context.Background(), "marat", "Sup3rSecret", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := svc.VerifyToken(context.Background(), "Bearer "+session.Token); err != nil {
		t.Fatalf("verify fresh token: %v", err)
	}

	svc.WithClock(func() time.Time { return start.Add(720*time.Hour + time.Second) })
	if _, _, err := svc.VerifyToken(context.Background(), session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after expiry, got %v", err)
	}
}

func TestVerifyTokenUnknown(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeSessionRepo(users), &fakeAttemptRepo{}, &capturingPublisher{})

	if _, _, err := svc.VerifyToken(context.Background(), "deadbeef"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, _, err := svc.VerifyToken(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo(users)
	svc := newTestAuthService(users, sessions, &fakeAttemptRepo{}, &capturingPublisher{})

	session, _, err := svc.Login(context.Background(), "marat", "Sup3rSecret", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	if _, _, err := svc.VerifyToken(context.Background(), session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestLoginHistoryCount(t *testing.T) {
	user := newTestUser(t, "Sup3rSecret")
	users := newFakeUserRepo(user)
	attempts := &fakeAttemptRepo{}
	svc := newTestAuthService(users, newFakeSessionRepo(users), attempts, &capturingPublisher{})
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, user.Username, "wrong", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, user.Username, "Sup3rSecret", RequestMeta{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	count, err := svc.LoginHistoryCount(ctx, user.ID)
	if err != nil {
		t.Fatalf("count history: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", count)
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc123":   "abc123",
		"bearer abc123":   "abc123",
		"  Bearer abc  ":  "abc",
		"abc123":          "abc123",
		"":                "",
		"Bearer ":         "Bearer",
		"Bearerabc123456": "Bearerabc123456",
	}

	for input, want := range cases {
		if got := NormalizeToken(input); got != want {
			t.Fatalf("NormalizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}
