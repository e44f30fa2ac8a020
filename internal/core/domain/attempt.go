package domain

import "time"

// AttemptOutcome enumerates the result of a single login attempt.
type AttemptOutcome string

const (
	AttemptOutcomeSuccess   AttemptOutcome = "success"
	AttemptOutcomeFailed    AttemptOutcome = "failed"
	AttemptOutcomeSuspended AttemptOutcome = "suspended"
)

// LoginAttempt is an append-only audit entry for one authentication attempt.
// UserID is nil when the presented identifier matched no account.
type LoginAttempt struct {
	ID            string
	UserID        *string
	Identifier    string
	IP            string
	UserAgent     string
	Platform      string
	Outcome       AttemptOutcome
	FailureReason *string
	CreatedAt     time.Time
}
