package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/repository"
)

const sessionsTable = "z9.sessions"

// SessionRepository implements port.SessionRepository backed by PostgreSQL.
type SessionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	repo := &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a session row keyed by its opaque token.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	var userAgent any
	if session.UserAgent != nil && *session.UserAgent != "" {
		userAgent = *session.UserAgent
	}
	var ip any
	if session.IP != nil && *session.IP != "" {
		ip = *session.IP
	}

	stmt, args, err := r.builder.
		Insert(sessionsTable).
		Columns("token", "user_id", "platform", "user_agent", "ip_address", "created_at", "expires_at").
		Values(session.Token, session.UserID, session.Platform, userAgent, ip, session.CreatedAt, session.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByToken returns the session and its owning user in a single joined
// lookup. Expiry is not filtered here; callers compare against their clock.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	stmt, args, err := r.builder.
		Select(
			"s.token",
			"s.user_id",
			"s.platform",
			"s.user_agent",
			"s.ip_address",
			"s.created_at",
			"s.expires_at",
			"u.id",
			"u.username",
			"u.email",
			"u.password_hash",
			"u.full_name",
			"u.country",
			"u.location",
			"u.profile_pic_url",
			"u.status",
			"u.login_attempts",
			"u.created_at",
			"u.updated_at",
			"u.last_login",
			"u.last_login_attempt",
		).
		From(sessionsTable + " s").
		Join("z9.users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.token": token}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build select session sql: %w", err)
	}

	var (
		session          domain.Session
		user             domain.User
		userAgent        sql.NullString
		ip               sql.NullString
		profilePic       sql.NullString
		lastLogin        *time.Time
		lastLoginAttempt *time.Time
	)

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&session.Token,
		&session.UserID,
		&session.Platform,
		&userAgent,
		&ip,
		&session.CreatedAt,
		&session.ExpiresAt,
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Country,
		&user.Location,
		&profilePic,
		&user.Status,
		&user.LoginAttempts,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
		&lastLoginAttempt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, repository.ErrNotFound
		}
		return nil, nil, fmt.Errorf("scan session: %w", err)
	}

	if userAgent.Valid {
		val := userAgent.String
		session.UserAgent = &val
	}
	if ip.Valid {
		val := ip.String
		session.IP = &val
	}
	if profilePic.Valid {
		val := profilePic.String
		user.ProfilePicURL = &val
	}
	user.LastLogin = lastLogin
	user.LastLoginAttempt = lastLoginAttempt

	return &session, &user, nil
}

// DeleteByToken removes the session row. Deleting an absent token succeeds.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	stmt, args, err := r.builder.
		Delete(sessionsTable).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
