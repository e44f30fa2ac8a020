package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

const loginHistoryTable = "z9.login_history"

// LoginAttemptRepository implements port.LoginAttemptRepository backed by PostgreSQL.
// Rows are append-only; there is no update or delete path.
type LoginAttemptRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLoginAttemptRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewLoginAttemptRepository(exec pgExecutor) *LoginAttemptRepository {
	repo := &LoginAttemptRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Append inserts one audit entry. UserID stays NULL for attempts against
// identifiers that matched no account.
func (r *LoginAttemptRepository) Append(ctx context.Context, attempt domain.LoginAttempt) error {
	var userID any
	if attempt.UserID != nil {
		userID = *attempt.UserID
	}
	var reason any
	if attempt.FailureReason != nil && *attempt.FailureReason != "" {
		reason = *attempt.FailureReason
	}

	stmt, args, err := r.builder.
		Insert(loginHistoryTable).
		Columns("id", "user_id", "identifier", "ip_address", "user_agent", "platform", "outcome", "failure_reason", "created_at").
		Values(attempt.ID, userID, attempt.Identifier, attempt.IP, attempt.UserAgent, attempt.Platform, attempt.Outcome, reason, attempt.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login attempt sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}

	return nil
}

// CountByUser returns the number of audit entries recorded for a user.
func (r *LoginAttemptRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From(loginHistoryTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count login attempts sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count login attempts: %w", err)
	}

	return count, nil
}
