package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

type fakeIntakeRepo struct {
	messages []domain.ContactMessage
	apps     []domain.JobApplication
}

func (r *fakeIntakeRepo) CreateContactMessage(_ context.Context, msg domain.ContactMessage) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeIntakeRepo) CreateJobApplication(_ context.Context, app domain.JobApplication) error {
	r.apps = append(r.apps, app)
	return nil
}

func (r *fakeIntakeRepo) ExistsJobApplicationByEmail(_ context.Context, email string) (bool, error) {
	for _, app := range r.apps {
		if app.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeIntakeRepo) CountContactMessages(_ context.Context, status domain.ContactMessageStatus) (int, error) {
	if status == "" {
		return len(r.messages), nil
	}
	count := 0
	for _, msg := range r.messages {
		if msg.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeIntakeRepo) CountJobApplications(_ context.Context, status domain.ApplicationStatus) (int, error) {
	if status == "" {
		return len(r.apps), nil
	}
	count := 0
	for _, app := range r.apps {
		if app.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeIntakeRepo) RecentContactMessages(_ context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit > len(r.messages) {
		limit = len(r.messages)
	}
	return r.messages[:limit], nil
}

func (r *fakeIntakeRepo) RecentJobApplications(_ context.Context, limit int) ([]domain.JobApplication, error) {
	if limit > len(r.apps) {
		limit = len(r.apps)
	}
	return r.apps[:limit], nil
}

func TestSubmitContactMessage(t *testing.T) {
	repo := &fakeIntakeRepo{}
	events := &capturingPublisher{}
	svc := NewIntakeService(repo, events, zap.NewNop())

	msg, err := svc.SubmitContactMessage(context.Background(), ContactInput{
		Name:    "  Dana  ",
		Email:   "dana@example.com",
		Subject: "Project inquiry",
		Message: "We need a quote.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if msg.Name != "Dana" {
		t.Fatalf("input not sanitized, got %q", msg.Name)
	}
	if msg.Status != domain.ContactMessageStatusNew {
		t.Fatalf("new message status is %q", msg.Status)
	}
	if len(repo.messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(repo.messages))
	}
	if len(events.contacts) != 1 {
		t.Fatalf("expected 1 contact event, got %d", len(events.contacts))
	}
}

func TestSubmitContactMessageRejectsBadInput(t *testing.T) {
	svc := NewIntakeService(&fakeIntakeRepo{}, &capturingPublisher{}, zap.NewNop())
	ctx := context.Background()

	cases := []ContactInput{
		{Email: "dana@example.com", Subject: "x", Message: "y"},
		{Name: "Dana", Email: "nope", Subject: "x", Message: "y"},
		{Name: "Dana", Email: "dana@example.com", Message: "y"},
		{Name: "Dana", Email: "dana@example.com", Subject: "x"},
	}
	for i, input := range cases {
		if _, err := svc.SubmitContactMessage(ctx, input); !errors.Is(err, ErrInvalidContactMessage) {
			t.Fatalf("case %d: expected ErrInvalidContactMessage, got %v", i, err)
		}
	}
}

func validApplication() ApplicationInput {
	return ApplicationInput{
		Name:       "Talgat",
		Email:      "talgat@example.com",
		Phone:      "+7 701 000 00 00",
		CNIC:       "99001-1234567-1",
		Role:       "Backend Engineer",
		Experience: 4,
		TechStack:  "Go, Postgres",
		Projects:   "Billing platform, internal tooling",
		Bio:        "Backend engineer focused on payments.",
	}
}

func TestSubmitJobApplication(t *testing.T) {
	repo := &fakeIntakeRepo{}
	events := &capturingPublisher{}
	svc := NewIntakeService(repo, events, zap.NewNop())

	app, err := svc.SubmitJobApplication(context.Background(), validApplication())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if app.Status != domain.ApplicationStatusPending {
		t.Fatalf("new application status is %q", app.Status)
	}
	if len(events.apps) != 1 {
		t.Fatalf("expected 1 application event, got %d", len(events.apps))
	}

	negative := validApplication()
	negative.Email = "other@example.com"
	negative.Experience = -1
	if _, err := svc.SubmitJobApplication(context.Background(), negative); !errors.Is(err, ErrInvalidApplication) {
		t.Fatalf("expected ErrInvalidApplication for negative experience, got %v", err)
	}
}

func TestSubmitJobApplicationRequiresAllFields(t *testing.T) {
	repo := &fakeIntakeRepo{}
	svc := NewIntakeService(repo, &capturingPublisher{}, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ApplicationInput)
	}{
		{"empty name", func(in *ApplicationInput) { in.Name = "" }},
		{"empty phone", func(in *ApplicationInput) { in.Phone = "" }},
		{"empty cnic", func(in *ApplicationInput) { in.CNIC = "" }},
		{"empty role", func(in *ApplicationInput) { in.Role = "" }},
		{"empty tech stack", func(in *ApplicationInput) { in.TechStack = "" }},
		{"empty projects", func(in *ApplicationInput) { in.Projects = "" }},
		{"empty bio", func(in *ApplicationInput) { in.Bio = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validApplication()
			tc.mutate(&input)
			if _, err := svc.SubmitJobApplication(ctx, input); !errors.Is(err, ErrInvalidApplication) {
				t.Fatalf("expected ErrInvalidApplication, got %v", err)
			}
		})
	}

	if len(repo.apps) != 0 {
		t.Fatalf("incomplete applications must not persist, found %d", len(repo.apps))
	}
}

func TestSubmitJobApplicationRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeIntakeRepo{}
	svc := NewIntakeService(repo, &capturingPublisher{}, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.SubmitJobApplication(ctx, validApplication()); err != nil {
		t.Fatalf("first application: %v", err)
	}

	second := validApplication()
	second.Name = "Someone Else"
	if _, err := svc.SubmitJobApplication(ctx, second); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
	if len(repo.apps) != 1 {
		t.Fatalf("duplicate application persisted, count %d", len(repo.apps))
	}
}

func TestDashboardStats(t *testing.T) {
	repo := &fakeIntakeRepo{}
	intake := NewIntakeService(repo, &capturingPublisher{}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := intake.SubmitContactMessage(ctx, ContactInput{
			Name:    "Dana",
			Email:   "dana@example.com",
			Subject: "hello",
			Message: "world",
		}); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}
	repo.messages[0].Status = domain.ContactMessageStatusRead

	if _, err := intake.SubmitJobApplication(ctx, validApplication()); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	stats, err := NewDashboardService(repo).Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalMessages != 3 || stats.NewMessages != 2 {
		t.Fatalf("message counts wrong: total=%d new=%d", stats.TotalMessages, stats.NewMessages)
	}
	if stats.TotalApplications != 1 || stats.PendingApplications != 1 {
		t.Fatalf("application counts wrong: total=%d pending=%d", stats.TotalApplications, stats.PendingApplications)
	}
	if len(stats.RecentMessages) != 3 || len(stats.RecentApplications) != 1 {
		t.Fatalf("recent lists wrong: messages=%d applications=%d", len(stats.RecentMessages), len(stats.RecentApplications))
	}
}
