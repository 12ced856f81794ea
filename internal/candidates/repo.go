package candidates

import (
	"context"

	"verifyzen/internal/timeline"
)

// Repo defines persistence operations for candidates and their timelines.
type Repo interface {
	Create(ctx context.Context, cand Candidate) error
	GetByID(ctx context.Context, userID, candidateID string) (Candidate, error)
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]Candidate, error)
	Update(ctx context.Context, cand Candidate) error
	Delete(ctx context.Context, userID, candidateID string) error
	UpdateStatus(ctx context.Context, candidateID, status string) error
	UpdateResume(ctx context.Context, userID, candidateID, resumeKey, extractedTextKey string) error
	ReplaceTimeline(ctx context.Context, candidateID string, entries []timeline.Entry) error
	GetTimeline(ctx context.Context, candidateID string) ([]timeline.Entry, error)
}
