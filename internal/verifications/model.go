package verifications

import (
	"time"

	"verifyzen/internal/registry"
	"verifyzen/internal/timeline"
)

// Verification statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Verification types select which checks run.
const (
	TypeFull       = "full"
	TypeEmployment = "employment"
	TypeEducation  = "education"
	TypeTimeline   = "timeline"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Verification is one background check run for a candidate.
type Verification struct {
	ID              string                       `json:"id"`
	CandidateID     string                       `json:"candidateId"`
	UserID          string                       `json:"userId"`
	Type            string                       `json:"verificationType"`
	Status          string                       `json:"status"`
	Priority        string                       `json:"priority"`
	RiskScore       int                          `json:"riskScore"`
	Timeline        *timeline.Analysis           `json:"timeline,omitempty"`
	Employment      []registry.EmploymentFinding `json:"employment,omitempty"`
	Education       []registry.EducationFinding  `json:"education,omitempty"`
	Flags           []string                     `json:"flags"`
	Recommendations []string                     `json:"recommendations"`
	ReportKey       string                       `json:"-"`
	ErrorMessage    string                       `json:"errorMessage,omitempty"`
	StartedAt       *time.Time                   `json:"startedAt,omitempty"`
	CompletedAt     *time.Time                   `json:"completedAt,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// Outcome carries everything a finished run writes back in one update.
type Outcome struct {
	RiskScore       int
	Timeline        *timeline.Analysis
	Employment      []registry.EmploymentFinding
	Education       []registry.EducationFinding
	Flags           []string
	Recommendations []string
	CompletedAt     time.Time
}

func validType(t string) bool {
	switch t {
	case TypeFull, TypeEmployment, TypeEducation, TypeTimeline:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}
