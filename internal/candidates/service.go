package candidates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"verifyzen/internal/extract"
	"verifyzen/internal/shared/storage/object"
	"verifyzen/internal/shared/telemetry"
	"verifyzen/internal/timeline"
)

// Service implements candidate management on top of a Repo and an ObjectStore.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store}
}

func (s *Service) Create(ctx context.Context, userID string, req CandidateRequest) (Candidate, error) {
	if err := validateRequest(userID, req); err != nil {
		return Candidate{}, err
	}
	cand := Candidate{
		ID:          uuid.NewString(),
		UserID:      userID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		LinkedInURL: strings.TrimSpace(req.LinkedInURL),
		Status:      StatusPending,
	}
	if err := s.Repo.Create(ctx, cand); err != nil {
		return Candidate{}, err
	}
	created, err := s.Repo.GetByID(ctx, userID, cand.ID)
	if err != nil {
		return cand, nil
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, userID, candidateID string) (Candidate, error) {
	if strings.TrimSpace(candidateID) == "" {
		return Candidate{}, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, candidateID)
}

func (s *Service) List(ctx context.Context, userID, status string, limit, offset int) ([]Candidate, error) {
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Repo.ListByUser(ctx, userID, status, limit, offset)
}

func (s *Service) Update(ctx context.Context, userID, candidateID string, req CandidateRequest) (Candidate, error) {
	if err := validateRequest(userID, req); err != nil {
		return Candidate{}, err
	}
	cand := Candidate{
		ID:          candidateID,
		UserID:      userID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		LinkedInURL: strings.TrimSpace(req.LinkedInURL),
	}
	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}
	return s.Repo.GetByID(ctx, userID, candidateID)
}

func (s *Service) Delete(ctx context.Context, userID, candidateID string) error {
	if strings.TrimSpace(candidateID) == "" {
		return fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, userID, candidateID)
}

// ReplaceTimeline validates and swaps the candidate's full timeline.
func (s *Service) ReplaceTimeline(ctx context.Context, userID, candidateID string, reqs []TimelineEntryRequest) ([]timeline.Entry, error) {
	if _, err := s.Repo.GetByID(ctx, userID, candidateID); err != nil {
		return nil, err
	}

	entries := make([]timeline.Entry, 0, len(reqs))
	for i, req := range reqs {
		entry, err := parseTimelineEntry(req)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entry.ID = uuid.NewString()
		entries = append(entries, entry)
	}

	if err := s.Repo.ReplaceTimeline(ctx, candidateID, entries); err != nil {
		return nil, err
	}
	telemetry.Info("candidates.timeline_replaced", map[string]any{
		"candidate_id": candidateID,
		"entries":      len(entries),
	})
	return entries, nil
}

func (s *Service) GetTimeline(ctx context.Context, userID, candidateID string) ([]timeline.Entry, error) {
	if _, err := s.Repo.GetByID(ctx, userID, candidateID); err != nil {
		return nil, err
	}
	return s.Repo.GetTimeline(ctx, candidateID)
}

// UploadResume stores the resume and derives its plain text where the format
// allows it. Unsupported formats keep the upload but skip extraction.
func (s *Service) UploadResume(ctx context.Context, userID, candidateID, fileName string, r io.Reader) (Candidate, error) {
	if s.Store == nil {
		return Candidate{}, errors.New("object store not configured")
	}
	if _, err := s.Repo.GetByID(ctx, userID, candidateID); err != nil {
		return Candidate{}, err
	}

	storageKey, sizeBytes, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Candidate{}, fmt.Errorf("save resume: %w", err)
	}

	extractedKey := ""
	if _, err := extract.Text(ctx, s.Store, storageKey, mimeType, fileName); err != nil {
		telemetry.Warn("candidates.resume_extraction_skipped", map[string]any{
			"candidate_id": candidateID,
			"mime_type":    mimeType,
			"error":        err.Error(),
		})
	} else {
		extractedKey = extract.ExtractedKey(storageKey)
	}

	if err := s.Repo.UpdateResume(ctx, userID, candidateID, storageKey, extractedKey); err != nil {
		return Candidate{}, err
	}

	telemetry.Info("candidates.resume_uploaded", map[string]any{
		"candidate_id": candidateID,
		"size_bytes":   sizeBytes,
		"mime_type":    mimeType,
	})
	return s.Repo.GetByID(ctx, userID, candidateID)
}

func validateRequest(userID string, req CandidateRequest) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrInvalidInput)
	}
	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	return nil
}
