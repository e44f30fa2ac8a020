package domain

import "time"

// ContactMessageStatus tracks triage state for contact submissions.
type ContactMessageStatus string

const (
	ContactMessageStatusNew  ContactMessageStatus = "new"
	ContactMessageStatusRead ContactMessageStatus = "read"
)

// ContactMessage mirrors a row in the contact_messages table.
type ContactMessage struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	Status      ContactMessageStatus
	SubmittedAt time.Time
}

// ApplicationStatus tracks review state for job applications.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
)

// JobApplication mirrors a row in the job_applications table.
type JobApplication struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	CNIC        string
	Role        string
	Experience  int
	TechStack   string
	Projects    string
	Bio         string
	Status      ApplicationStatus
	SubmittedAt time.Time
}

// DashboardStats aggregates the counts shown on the admin dashboard.
type DashboardStats struct {
	TotalApplications   int
	PendingApplications int
	TotalMessages       int
	NewMessages         int
	RecentApplications  []JobApplication
	RecentMessages      []ContactMessage
}
