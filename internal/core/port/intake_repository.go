package port

import (
	"context"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// IntakeRepository persists contact messages and job applications and serves
// the aggregate counts read by the admin dashboard.
type IntakeRepository interface {
	CreateContactMessage(ctx context.Context, msg domain.ContactMessage) error
	CreateJobApplication(ctx context.Context, app domain.JobApplication) error
	// ExistsJobApplicationByEmail reports whether the email already applied.
	ExistsJobApplicationByEmail(ctx context.Context, email string) (bool, error)
	CountContactMessages(ctx context.Context, status domain.ContactMessageStatus) (int, error)
	CountJobApplications(ctx context.Context, status domain.ApplicationStatus) (int, error)
	RecentContactMessages(ctx context.Context, limit int) ([]domain.ContactMessage, error)
	RecentJobApplications(ctx context.Context, limit int) ([]domain.JobApplication, error)
}
