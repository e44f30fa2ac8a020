package domain

import "time"

// UserRegisteredEvent is published after a new account is created.
type UserRegisteredEvent struct {
	EventID      string         `json:"event_id"`
	UserID       string         `json:"user_id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	RegisteredAt time.Time      `json:"registered_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AccountLockedEvent is published when repeated failures suspend an account.
type AccountLockedEvent struct {
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	FailedAttempts int       `json:"failed_attempts"`
	IP             string    `json:"ip,omitempty"`
	LockedAt       time.Time `json:"locked_at"`
}

// ContactMessageReceivedEvent is published after a contact form submission.
type ContactMessageReceivedEvent struct {
	EventID     string    `json:"event_id"`
	MessageID   string    `json:"message_id"`
	Subject     string    `json:"subject"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// JobApplicationReceivedEvent is published after a careers form submission.
type JobApplicationReceivedEvent struct {
	EventID       string    `json:"event_id"`
	ApplicationID string    `json:"application_id"`
	Role          string    `json:"role"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
