package domain

import "time"

// Session represents a persisted login session identified by an opaque bearer token.
type Session struct {
	Token     string
	UserID    string
	Platform  string
	UserAgent *string
	IP        *string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsActive reports whether the session is still valid at the supplied moment.
// Expired sessions are inert: verification treats them as absent.
func (s Session) IsActive(at time.Time) bool {
	return s.ExpiresAt.After(at)
}
