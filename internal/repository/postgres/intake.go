package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

const (
	contactMessagesTable = "z9.contact_messages"
	applicationsTable    = "z9.job_applications"
)

// IntakeRepository implements port.IntakeRepository backed by PostgreSQL.
type IntakeRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewIntakeRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewIntakeRepository(exec pgExecutor) *IntakeRepository {
	repo := &IntakeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// CreateContactMessage inserts one contact submission.
func (r *IntakeRepository) CreateContactMessage(ctx context.Context, msg domain.ContactMessage) error {
	stmt, args, err := r.builder.
		Insert(contactMessagesTable).
		Columns("id", "name", "email", "phone", "subject", "message", "status", "submitted_at").
		Values(msg.ID, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message, msg.Status, msg.SubmittedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert contact message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// CreateJobApplication inserts one career application.
func (r *IntakeRepository) CreateJobApplication(ctx context.Context, app domain.JobApplication) error {
	stmt, args, err := r.builder.
		Insert(applicationsTable).
		Columns("id", "name", "email", "phone", "cnic", "role", "experience", "tech_stack", "projects", "bio", "status", "submitted_at").
		Values(app.ID, app.Name, app.Email, app.Phone, app.CNIC, app.Role, app.Experience, app.TechStack, app.Projects, app.Bio, app.Status, app.SubmittedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert job application sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert job application: %w", err)
	}

	return nil
}

// ExistsJobApplicationByEmail reports whether an application was already
// submitted from the email address.
func (r *IntakeRepository) ExistsJobApplicationByEmail(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From(applicationsTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists application sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check application exists: %w", err)
	}

	return true, nil
}

// CountContactMessages counts messages, optionally filtered by status.
func (r *IntakeRepository) CountContactMessages(ctx context.Context, status domain.ContactMessageStatus) (int, error) {
	query := r.builder.Select("COUNT(*)").From(contactMessagesTable)
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count contact messages sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}

	return count, nil
}

// CountJobApplications counts applications, optionally filtered by status.
func (r *IntakeRepository) CountJobApplications(ctx context.Context, status domain.ApplicationStatus) (int, error) {
	query := r.builder.Select("COUNT(*)").From(applicationsTable)
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count job applications sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count job applications: %w", err)
	}

	return count, nil
}

// RecentContactMessages returns the newest messages first.
func (r *IntakeRepository) RecentContactMessages(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "email", "phone", "subject", "message", "status", "submitted_at").
		From(contactMessagesTable).
		OrderBy("submitted_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent contact messages sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Subject, &msg.Message, &msg.Status, &msg.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, nil
}

// RecentJobApplications returns the newest applications first.
func (r *IntakeRepository) RecentJobApplications(ctx context.Context, limit int) ([]domain.JobApplication, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "email", "phone", "cnic", "role", "experience", "tech_stack", "projects", "bio", "status", "submitted_at").
		From(applicationsTable).
		OrderBy("submitted_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent job applications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent job applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.JobApplication
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(&app.ID, &app.Name, &app.Email, &app.Phone, &app.CNIC, &app.Role, &app.Experience, &app.TechStack, &app.Projects, &app.Bio, &app.Status, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job applications: %w", err)
	}

	return apps, nil
}
