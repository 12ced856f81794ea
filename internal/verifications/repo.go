package verifications

import (
	"context"
	"time"
)

// Repo defines persistence operations for verifications.
type Repo interface {
	Create(ctx context.Context, v Verification) error
	GetByID(ctx context.Context, verificationID string) (Verification, error)
	ListByUser(ctx context.Context, userID, status, candidateID string, limit, offset int) ([]Verification, error)
	MarkInProgress(ctx context.Context, verificationID string, startedAt time.Time) error
	Complete(ctx context.Context, verificationID string, outcome Outcome) error
	Fail(ctx context.Context, verificationID, errorMessage string, completedAt time.Time) error
	SetReportKey(ctx context.Context, verificationID, reportKey string) error
}
