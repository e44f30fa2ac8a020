package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/security"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/repository"
)

func newTestRegistrationService(users *fakeUserRepo, events *capturingPublisher) (*RegistrationService, *fakeSessionRepo) {
	sessions := newFakeSessionRepo(users)
	auth := NewAuthService(testConfig(), users, sessions, &fakeAttemptRepo{}, events, zap.NewNop())
	svc := NewRegistrationService(testConfig(), users, auth, events, nil, zap.NewNop())
	return svc, sessions
}

func validInput() RegistrationInput {
	return RegistrationInput{
		Username: "ayana_k",
		Email:    "ayana@example.com",
		Password: "Gr8tPassword",
		FullName: "Ayana K",
		Location: "Almaty",
		Country:  "KZ",
	}
}

func TestRegisterCreatesAccountAndSession(t *testing.T) {
	users := newFakeUserRepo()
	events := &capturingPublisher{}
	svc, sessions := newTestRegistrationService(users, events)

	session, user, err := svc.Register(context.Background(), validInput(), RequestMeta{IP: "10.0.0.9"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.PasswordHash != "" {
		t.Fatal("response must not carry the password hash")
	}
	stored, ok := users.users[user.ID]
	if !ok {
		t.Fatal("user row not created")
	}
	if stored.Status != domain.UserStatusActive {
		t.Fatalf("new account status is %q", stored.Status)
	}
	ok, err = security.VerifyPassword("Gr8tPassword", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify (ok=%v err=%v)", ok, err)
	}

	if len(session.Token) != 64 {
		t.Fatalf("expected 64 character token, got %d", len(session.Token))
	}
	if _, found := sessions.sessions[session.Token]; !found {
		t.Fatal("session not persisted")
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected 1 registered event, got %d", len(events.registered))
	}
}

func TestRegisterValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestRegistrationService(users, &capturingPublisher{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegistrationInput)
		want   error
	}{
		{"short username", func(in *RegistrationInput) { in.Username = "ab" }, ErrInvalidUsername},
		{"bad username chars", func(in *RegistrationInput) { in.Username = "ayana k!" }, ErrInvalidUsername},
		{"bad email", func(in *RegistrationInput) { in.Email = "not-an-email" }, ErrInvalidEmail},
		{"short password", func(in *RegistrationInput) { in.Password = "Ab1" }, ErrWeakPassword},
		{"no uppercase", func(in *RegistrationInput) { in.Password = "weakpass1" }, ErrWeakPassword},
		{"no digit", func(in *RegistrationInput) { in.Password = "Weakpassword" }, ErrWeakPassword},
		{"missing full name", func(in *RegistrationInput) { in.FullName = "" }, ErrInvalidProfile},
		{"short location", func(in *RegistrationInput) { in.Location = "Al" }, ErrInvalidProfile},
		{"short country", func(in *RegistrationInput) { in.Country = "K" }, ErrInvalidProfile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, _, err := svc.Register(ctx, input, RequestMeta{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if len(users.users) != 0 {
		t.Fatalf("invalid input must not create rows, found %d", len(users.users))
	}
}

func TestRegisterDuplicateAccount(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestRegistrationService(users, &capturingPublisher{})
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput(), RequestMeta{}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err := svc.Register(ctx, validInput(), RequestMeta{})
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("duplicate register created a second row, count %d", len(users.users))
	}

	// Same email under a different username is also rejected.
	input := validInput()
	input.Username = "someone_else"
	if _, _, err := svc.Register(ctx, input, RequestMeta{}); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for reused email, got %v", err)
	}
}

func TestRegisterDuplicateRaceMapsUniqueViolation(t *testing.T) {
	// A racing sign-up can pass the precheck and lose at the unique
	// constraint; the store's duplicate error must surface as the same
	// conflict the precheck reports.
	users := newFakeUserRepo()
	users.createErr = repository.ErrDuplicate
	svc, sessions := newTestRegistrationService(users, &capturingPublisher{})

	_, _, err := svc.Register(context.Background(), validInput(), RequestMeta{})
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("losing registration must not issue a session, found %d", len(sessions.sessions))
	}
}
