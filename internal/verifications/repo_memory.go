package verifications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for local development.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Verification
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Verification)}
}

func (r *MemoryRepo) Create(ctx context.Context, v Verification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	r.data[v.ID] = v
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, verificationID string) (Verification, error) {
	if err := ctx.Err(); err != nil {
		return Verification{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[verificationID]
	if !ok {
		return Verification{}, ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID, status, candidateID string, limit, offset int) ([]Verification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	list := make([]Verification, 0)
	for _, v := range r.data {
		if v.UserID != userID {
			continue
		}
		if status != "" && v.Status != status {
			continue
		}
		if candidateID != "" && v.CandidateID != candidateID {
			continue
		}
		list = append(list, v)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if offset >= len(list) {
		return []Verification{}, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

func (r *MemoryRepo) MarkInProgress(ctx context.Context, verificationID string, startedAt time.Time) error {
	return r.mutate(ctx, verificationID, func(v *Verification) {
		v.Status = StatusInProgress
		v.StartedAt = &startedAt
	})
}

func (r *MemoryRepo) Complete(ctx context.Context, verificationID string, outcome Outcome) error {
	return r.mutate(ctx, verificationID, func(v *Verification) {
		v.Status = StatusCompleted
		v.RiskScore = outcome.RiskScore
		v.Timeline = outcome.Timeline
		v.Employment = outcome.Employment
		v.Education = outcome.Education
		v.Flags = outcome.Flags
		v.Recommendations = outcome.Recommendations
		v.ErrorMessage = ""
		completedAt := outcome.CompletedAt
		v.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) Fail(ctx context.Context, verificationID, errorMessage string, completedAt time.Time) error {
	return r.mutate(ctx, verificationID, func(v *Verification) {
		v.Status = StatusFailed
		v.ErrorMessage = errorMessage
		v.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) SetReportKey(ctx context.Context, verificationID, reportKey string) error {
	return r.mutate(ctx, verificationID, func(v *Verification) {
		v.ReportKey = reportKey
	})
}

func (r *MemoryRepo) mutate(ctx context.Context, verificationID string, apply func(*Verification)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[verificationID]
	if !ok {
		return ErrNotFound
	}
	apply(&v)
	v.UpdatedAt = time.Now().UTC()
	r.data[verificationID] = v
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
