package domain

import "time"

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// LockoutThreshold is the failed-login count at which an account is suspended.
const LockoutThreshold = 5

// User mirrors the persisted representation in the users table.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string
	FullName         string
	Country          string
	Location         string
	ProfilePicURL    *string
	Status           UserStatus
	LoginAttempts    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastLogin        *time.Time
	LastLoginAttempt *time.Time
}

// Sanitized returns a copy safe to serialize to clients (no password hash).
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// IsSuspended reports whether the account is locked out.
func (u User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// ProfileChange records one field transition in the profile audit trail.
type ProfileChange struct {
	ID        string
	UserID    string
	FieldName string
	OldValue  string
	NewValue  string
	ChangedAt time.Time
}
