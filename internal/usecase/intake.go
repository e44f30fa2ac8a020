package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/port"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/security"
)

var (
	// ErrInvalidContactMessage indicates a contact submission with missing or malformed fields.
	ErrInvalidContactMessage = errors.New("invalid contact message")
	// ErrInvalidApplication indicates a job application with missing or malformed fields.
	ErrInvalidApplication = errors.New("invalid job application")
	// ErrDuplicateApplication indicates the email has already submitted an application.
	ErrDuplicateApplication = errors.New("an application with this email already exists")
)

// ContactInput carries the fields of a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ApplicationInput carries the fields of a careers form submission.
type ApplicationInput struct {
	Name       string
	Email      string
	Phone      string
	CNIC       string
	Role       string
	Experience int
	TechStack  string
	Projects   string
	Bio        string
}

// IntakeService accepts public contact messages and job applications.
type IntakeService struct {
	intake port.IntakeRepository
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewIntakeService constructs an intake service.
func NewIntakeService(intake port.IntakeRepository, events port.EventPublisher, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		intake: intake,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *IntakeService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// SubmitContactMessage validates and stores one contact submission.
func (s *IntakeService) SubmitContactMessage(ctx context.Context, input ContactInput) (domain.ContactMessage, error) {
	msg := domain.ContactMessage{
		ID:          uuid.NewString(),
		Name:        security.SanitizeInput(input.Name),
		Email:       security.SanitizeInput(input.Email),
		Phone:       security.SanitizeInput(input.Phone),
		Subject:     security.SanitizeInput(input.Subject),
		Message:     security.SanitizeInput(input.Message),
		Status:      domain.ContactMessageStatusNew,
		SubmittedAt: s.now(),
	}

	if msg.Name == "" || msg.Subject == "" || msg.Message == "" {
		return domain.ContactMessage{}, ErrInvalidContactMessage
	}
	if !security.ValidEmail(msg.Email) {
		return domain.ContactMessage{}, ErrInvalidContactMessage
	}

	if err := s.intake.CreateContactMessage(ctx, msg); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("create contact message: %w", err)
	}

	s.publishContactReceived(ctx, msg)
	return msg, nil
}

// SubmitJobApplication validates and stores one career application.
func (s *IntakeService) SubmitJobApplication(ctx context.Context, input ApplicationInput) (domain.JobApplication, error) {
	app := domain.JobApplication{
		ID:          uuid.NewString(),
		Name:        security.SanitizeInput(input.Name),
		Email:       security.SanitizeInput(input.Email),
		Phone:       security.SanitizeInput(input.Phone),
		CNIC:        security.SanitizeInput(input.CNIC),
		Role:        security.SanitizeInput(input.Role),
		Experience:  input.Experience,
		TechStack:   security.SanitizeInput(input.TechStack),
		Projects:    security.SanitizeInput(input.Projects),
		Bio:         security.SanitizeInput(input.Bio),
		Status:      domain.ApplicationStatusPending,
		SubmittedAt: s.now(),
	}

	if app.Name == "" || app.Phone == "" || app.CNIC == "" || app.Role == "" ||
		app.TechStack == "" || app.Projects == "" || app.Bio == "" {
		return domain.JobApplication{}, ErrInvalidApplication
	}
	if !security.ValidEmail(app.Email) {
		return domain.JobApplication{}, ErrInvalidApplication
	}
	if app.Experience < 0 {
		return domain.JobApplication{}, ErrInvalidApplication
	}

	// One application per email address.
	applied, err := s.intake.ExistsJobApplicationByEmail(ctx, app.Email)
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("check existing application: %w", err)
	}
	if applied {
		return domain.JobApplication{}, ErrDuplicateApplication
	}

	if err := s.intake.CreateJobApplication(ctx, app); err != nil {
		return domain.JobApplication{}, fmt.Errorf("create job application: %w", err)
	}

	s.publishApplicationReceived(ctx, app)
	return app, nil
}

func (s *IntakeService) publishContactReceived(ctx context.Context, msg domain.ContactMessage) {
	if s.events == nil {
		return
	}

	event := domain.ContactMessageReceivedEvent{
		EventID:     uuid.NewString(),
		MessageID:   msg.ID,
		Subject:     msg.Subject,
		SubmittedAt: msg.SubmittedAt,
	}
	if err := s.events.PublishContactMessageReceived(ctx, event); err != nil {
		s.logger.Error("publish contact message event", zap.Error(err), zap.String("message_id", msg.ID))
	}
}

func (s *IntakeService) publishApplicationReceived(ctx context.Context, app domain.JobApplication) {
	if s.events == nil {
		return
	}

	event := domain.JobApplicationReceivedEvent{
		EventID:       uuid.NewString(),
		ApplicationID: app.ID,
		Role:          app.Role,
		SubmittedAt:   app.SubmittedAt,
	}
	if err := s.events.PublishJobApplicationReceived(ctx, event); err != nil {
		s.logger.Error("publish job application event", zap.Error(err), zap.String("application_id", app.ID))
	}
}
