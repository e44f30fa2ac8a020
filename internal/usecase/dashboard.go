package usecase

import (
	"context"
	"fmt"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/port"
)

// recentItemLimit bounds the lists shown on the dashboard.
const recentItemLimit = 5

// DashboardService aggregates intake counters for the admin overview.
type DashboardService struct {
	intake port.IntakeRepository
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(intake port.IntakeRepository) *DashboardService {
	return &DashboardService{intake: intake}
}

// Stats returns submission totals plus the five most recent entries of each kind.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var err error

	if stats.TotalApplications, err = s.intake.CountJobApplications(ctx, ""); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count applications: %w", err)
	}
	if stats.PendingApplications, err = s.intake.CountJobApplications(ctx, domain.ApplicationStatusPending); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count pending applications: %w", err)
	}
	if stats.TotalMessages, err = s.intake.CountContactMessages(ctx, ""); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count messages: %w", err)
	}
	if stats.NewMessages, err = s.intake.CountContactMessages(ctx, domain.ContactMessageStatusNew); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count new messages: %w", err)
	}
	if stats.RecentApplications, err = s.intake.RecentJobApplications(ctx, recentItemLimit); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("recent applications: %w", err)
	}
	if stats.RecentMessages, err = s.intake.RecentContactMessages(ctx, recentItemLimit); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("recent messages: %w", err)
	}

	return stats, nil
}
