package candidates

import "time"

// Candidate statuses track verification progress.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Candidate is a person under background verification, owned by a recruiter.
type Candidate struct {
	ID               string
	UserID           string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	LinkedInURL      string
	ResumeKey        string
	ExtractedTextKey string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
