package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/repository"
)

const usersTable = "z9.users"

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"full_name",
	"country",
	"location",
	"profile_pic_url",
	"status",
	"login_attempts",
	"created_at",
	"updated_at",
	"last_login",
	"last_login_attempt",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var picValue any
	if user.ProfilePicURL != nil && *user.ProfilePicURL != "" {
		picValue = *user.ProfilePicURL
	}

	query := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.FullName,
			user.Country,
			user.Location,
			picValue,
			user.Status,
			user.LoginAttempts,
			user.CreatedAt,
			user.UpdatedAt,
			user.LastLogin,
			user.LastLoginAttempt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUserRow(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByIdentifier retrieves a user by username or email. Suspended accounts
// are returned as well so callers can apply lockout semantics.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Or{
			squirrel.Eq{"username": identifier},
			squirrel.Eq{"email": identifier},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by identifier sql: %w", err)
	}

	return r.scanUserRow(r.exec.QueryRow(ctx, stmt, args...))
}

// ExistsByUsernameOrEmail reports whether either identifier is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From(usersTable).
		Where(squirrel.Or{
			squirrel.Eq{"username": username},
			squirrel.Eq{"email": email},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists user sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

// RecordFailedAttempt increments the failed-login counter and flips the
// account to suspended once the counter reaches the lockout threshold. The
// increment and the status change happen in a single statement so two racing
// failures cannot both observe the pre-lockout counter.
func (r *UserRepository) RecordFailedAttempt(ctx context.Context, id string, at time.Time) (int, domain.UserStatus, error) {
	stmt, args, err := r.builder.
		Update(usersTable).
		Set("login_attempts", squirrel.Expr("login_attempts + 1")).
		Set("status", squirrel.Expr(
			"CASE WHEN login_attempts + 1 >= ? THEN 'suspended' ELSE status END",
			domain.LockoutThreshold,
		)).
		Set("last_login_attempt", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING login_attempts, status").
		ToSql()
	if err != nil {
		return 0, "", fmt.Errorf("build record failed attempt sql: %w", err)
	}

	var (
		attempts int
		status   domain.UserStatus
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&attempts, &status); err != nil {
		if err == pgx.ErrNoRows {
			return 0, "", repository.ErrNotFound
		}
		return 0, "", fmt.Errorf("record failed attempt: %w", err)
	}

	return attempts, status, nil
}

// ResetFailedAttempts zeroes the counter and stamps the successful login.
func (r *UserRepository) ResetFailedAttempts(ctx context.Context, id string, loginAt time.Time) error {
	stmt, args, err := r.builder.
		Update(usersTable).
		Set("login_attempts", 0).
		Set("last_login", loginAt).
		Set("last_login_attempt", loginAt).
		Set("updated_at", loginAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reset failed attempts sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateProfile applies the supplied field values to the user row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]string, at time.Time) error {
	if len(fields) == 0 {
		return nil
	}

	query := r.builder.
		Update(usersTable).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id})
	for column, value := range fields {
		query = query.Set(column, value)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateProfilePicture stores the uploaded picture path on the user row.
func (r *UserRepository) UpdateProfilePicture(ctx context.Context, id, url string, at time.Time) error {
	stmt, args, err := r.builder.
		Update(usersTable).
		Set("profile_pic_url", url).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile picture sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile picture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddProfileChange appends one row to the profile_update_history trail.
func (r *UserRepository) AddProfileChange(ctx context.Context, change domain.ProfileChange) error {
	stmt, args, err := r.builder.
		Insert("z9.profile_update_history").
		Columns("id", "user_id", "field_name", "old_value", "new_value", "changed_at").
		Values(change.ID, change.UserID, change.FieldName, change.OldValue, change.NewValue, change.ChangedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile change sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert profile change: %w", err)
	}

	return nil
}

func (r *UserRepository) scanUserRow(row pgx.Row) (*domain.User, error) {
	var (
		user             domain.User
		profilePic       sql.NullString
		lastLogin        *time.Time
		lastLoginAttempt *time.Time
	)

	if err := row.Scan(
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
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if profilePic.Valid {
		val := profilePic.String
		user.ProfilePicURL = &val
	}
	user.LastLogin = lastLogin
	user.LastLoginAttempt = lastLoginAttempt

	return &user, nil
}
