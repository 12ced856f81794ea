package candidates

import (
	"context"
	"sort"
	"sync"
	"time"

	"verifyzen/internal/timeline"
)

// MemoryRepo is an in-memory implementation of Repo for local development.
type MemoryRepo struct {
	mu         sync.RWMutex
	candidates map[string]Candidate
	timelines  map[string][]timeline.Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		candidates: make(map[string]Candidate),
		timelines:  make(map[string][]timeline.Entry),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	cand.CreatedAt = now
	cand.UpdatedAt = now
	r.candidates[cand.ID] = cand
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, candidateID string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cand, ok := r.candidates[candidateID]
	if !ok || cand.UserID != userID {
		return Candidate{}, ErrNotFound
	}
	return cand, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]Candidate, error) {
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
	list := make([]Candidate, 0)
	for _, cand := range r.candidates {
		if cand.UserID != userID {
			continue
		}
		if status != "" && cand.Status != status {
			continue
		}
		list = append(list, cand)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if offset >= len(list) {
		return []Candidate{}, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

func (r *MemoryRepo) Update(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.candidates[cand.ID]
	if !ok || existing.UserID != cand.UserID {
		return ErrNotFound
	}
	cand.CreatedAt = existing.CreatedAt
	cand.ResumeKey = existing.ResumeKey
	cand.ExtractedTextKey = existing.ExtractedTextKey
	cand.Status = existing.Status
	cand.UpdatedAt = time.Now().UTC()
	r.candidates[cand.ID] = cand
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, candidateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cand, ok := r.candidates[candidateID]
	if !ok || cand.UserID != userID {
		return ErrNotFound
	}
	delete(r.candidates, candidateID)
	delete(r.timelines, candidateID)
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, candidateID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cand, ok := r.candidates[candidateID]
	if !ok {
		return ErrNotFound
	}
	cand.Status = status
	cand.UpdatedAt = time.Now().UTC()
	r.candidates[candidateID] = cand
	return nil
}

func (r *MemoryRepo) UpdateResume(ctx context.Context, userID, candidateID, resumeKey, extractedTextKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cand, ok := r.candidates[candidateID]
	if !ok || cand.UserID != userID {
		return ErrNotFound
	}
	cand.ResumeKey = resumeKey
	cand.ExtractedTextKey = extractedTextKey
	cand.UpdatedAt = time.Now().UTC()
	r.candidates[candidateID] = cand
	return nil
}

func (r *MemoryRepo) ReplaceTimeline(ctx context.Context, candidateID string, entries []timeline.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[candidateID]; !ok {
		return ErrNotFound
	}
	copied := make([]timeline.Entry, len(entries))
	copy(copied, entries)
	r.timelines[candidateID] = copied
	return nil
}

func (r *MemoryRepo) GetTimeline(ctx context.Context, candidateID string) ([]timeline.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.timelines[candidateID]
	copied := make([]timeline.Entry, len(entries))
	copy(copied, entries)
	return copied, nil
}

var _ Repo = (*MemoryRepo)(nil)
