package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness details.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// LoginHistoryResponse summarizes the caller's login audit trail.
type LoginHistoryResponse struct {
	TotalAttempts int `json:"total_attempts"`
}

// ReadinessResponse reports per-dependency readiness state.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// UserSummary describes the client-facing view of an account.
type UserSummary struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	FullName      string            `json:"full_name,omitempty"`
	Country       string            `json:"country,omitempty"`
	Location      string            `json:"location,omitempty"`
	ProfilePicURL *string           `json:"profile_pic_url,omitempty"`
	Status        domain.UserStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	LastLogin     *time.Time        `json:"last_login,omitempty"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		Country:       user.Country,
		Location:      user.Location,
		ProfilePicURL: user.ProfilePicURL,
		Status:        user.Status,
		CreatedAt:     user.CreatedAt,
		LastLogin:     user.LastLogin,
	}
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Platform   string `json:"platform"`
}

// SessionResponse returns the issued session alongside the account.
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// ProfileUpdateRequest defines the payload for profile edits. Omitted fields
// are left untouched.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name"`
	Location *string `json:"location"`
	Country  *string `json:"country"`
}

// ContactRequest defines the payload for the contact form endpoint.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ApplicationRequest defines the payload for the careers endpoint.
type ApplicationRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone"`
	CNIC       string `json:"cnic"`
	Role       string `json:"role" binding:"required"`
	Experience int    `json:"experience"`
	TechStack  string `json:"tech_stack"`
	Projects   string `json:"projects"`
	Bio        string `json:"bio"`
}

// SubmissionResponse acknowledges an accepted intake submission.
type SubmissionResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DashboardResponse aggregates admin overview data.
type DashboardResponse struct {
	TotalApplications   int                     `json:"total_applications"`
	PendingApplications int                     `json:"pending_applications"`
	TotalMessages       int                     `json:"total_messages"`
	NewMessages         int                     `json:"new_messages"`
	RecentApplications  []domain.JobApplication `json:"recent_applications"`
	RecentMessages      []domain.ContactMessage `json:"recent_messages"`
}
