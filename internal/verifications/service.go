package verifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"verifyzen/internal/candidates"
	"verifyzen/internal/queue"
	"verifyzen/internal/registry"
	"verifyzen/internal/shared/metrics"
	"verifyzen/internal/shared/telemetry"
	"verifyzen/internal/timeline"
)

// Service contains business logic for verifications.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Company    registry.CompanyVerifier
	Education  registry.EducationVerifier
	Analyzer   *timeline.Analyzer
	Queue      queue.Client
}

// StartRequest is the payload for kicking off a verification.
type StartRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	Type        string `json:"verificationType"`
	Priority    string `json:"priority"`
}

// Start creates a pending verification and hands it off for processing.
// When a job queue is configured the record is enqueued for the worker;
// otherwise processing happens in a background goroutine.
func (s *Service) Start(ctx context.Context, userID string, req StartRequest) (Verification, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(req.CandidateID) == "" {
		return Verification{}, fmt.Errorf("%w: userID and candidateId are required", ErrInvalidInput)
	}
	verificationType := req.Type
	if verificationType == "" {
		verificationType = TypeFull
	}
	if !validType(verificationType) {
		return Verification{}, fmt.Errorf("%w: unknown verification type %q", ErrInvalidInput, req.Type)
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !validPriority(priority) {
		return Verification{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	if _, err := s.Candidates.GetByID(ctx, userID, req.CandidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return Verification{}, fmt.Errorf("%w: candidate %s", ErrInvalidInput, req.CandidateID)
		}
		return Verification{}, err
	}

	v := Verification{
		ID:          uuid.NewString(),
		CandidateID: req.CandidateID,
		UserID:      userID,
		Type:        verificationType,
		Status:      StatusPending,
		Priority:    priority,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return Verification{}, err
	}
	metrics.IncVerificationStarted()

	if s.Queue != nil {
		msg := queue.Message{
			VerificationID: v.ID,
			RequestID:      requestIDFromContext(ctx),
			EnqueuedAt:     time.Now().UTC().Format(time.RFC3339),
			Version:        1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			s.failVerification(ctx, v.ID, fmt.Errorf("enqueue: %w", err), nil)
			return Verification{}, err
		}
		telemetry.Info("verification.enqueued", map[string]any{
			"request_id":      msg.RequestID,
			"verification_id": v.ID,
			"candidate_id":    v.CandidateID,
		})
	} else {
		go s.processAsync(backgroundWithRequestID(ctx), v.ID)
	}

	created, err := s.Repo.GetByID(ctx, v.ID)
	if err != nil {
		return v, nil
	}
	return created, nil
}

// Get returns a verification scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, verificationID string) (Verification, error) {
	if strings.TrimSpace(verificationID) == "" {
		return Verification{}, fmt.Errorf("%w: verification id is required", ErrInvalidInput)
	}
	v, err := s.Repo.GetByID(ctx, verificationID)
	if err != nil {
		return Verification{}, err
	}
	if v.UserID != userID {
		return Verification{}, ErrNotFound
	}
	return v, nil
}

// List returns verifications for a user, newest first.
func (s *Service) List(ctx context.Context, userID, status, candidateID string, limit, offset int) ([]Verification, error) {
	if status != "" {
		switch status {
		case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
	}
	return s.Repo.ListByUser(ctx, userID, status, candidateID, limit, offset)
}

func (s *Service) processAsync(ctx context.Context, verificationID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failVerification(ctx, verificationID, fmt.Errorf("panic: %v", r), nil)
		}
	}()
	_ = s.Process(ctx, verificationID)
}

// Process runs the verification pipeline to completion. It is called by the
// background goroutine in dev mode and by the queue worker in production.
func (s *Service) Process(ctx context.Context, verificationID string) error {
	startedAt := time.Now().UTC()
	if err := s.Repo.MarkInProgress(ctx, verificationID, startedAt); err != nil {
		s.failVerification(ctx, verificationID, fmt.Errorf("set in_progress failed: %w", err), &startedAt)
		return err
	}

	v, err := s.Repo.GetByID(ctx, verificationID)
	if err != nil {
		s.failVerification(ctx, verificationID, fmt.Errorf("verification lookup: %w", err), &startedAt)
		return err
	}
	telemetry.Info("verification.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           v.UserID,
		"candidate_id":      v.CandidateID,
		"verification_id":   v.ID,
		"status":            StatusInProgress,
		"status_transition": "pending->in_progress",
	})

	if s.Candidates == nil {
		err := errors.New("missing candidates dependency")
		s.failVerification(ctx, verificationID, err, &startedAt)
		return err
	}
	if _, err := s.Candidates.GetByID(ctx, v.UserID, v.CandidateID); err != nil {
		err = fmt.Errorf("candidate lookup id=%s: %w", v.CandidateID, err)
		s.failVerification(ctx, verificationID, err, &startedAt)
		return err
	}
	if err := s.Candidates.UpdateStatus(ctx, v.CandidateID, candidates.StatusInProgress); err != nil {
		telemetry.Warn("verification.candidate_status_update_failed", map[string]any{
			"candidate_id": v.CandidateID,
			"error":        err.Error(),
		})
	}

	entries, err := s.Candidates.GetTimeline(ctx, v.CandidateID)
	if err != nil {
		err = fmt.Errorf("timeline lookup candidate=%s: %w", v.CandidateID, err)
		s.failVerification(ctx, verificationID, err, &startedAt)
		return err
	}

	outcome, err := s.runChecks(ctx, v, entries)
	if err != nil {
		s.failVerification(ctx, verificationID, err, &startedAt)
		return err
	}

	completedAt := time.Now().UTC()
	outcome.CompletedAt = completedAt
	if err := s.Repo.Complete(ctx, verificationID, outcome); err != nil {
		s.failVerification(ctx, verificationID, fmt.Errorf("set verification result failed: %w", err), &startedAt)
		return err
	}
	if err := s.Candidates.UpdateStatus(ctx, v.CandidateID, candidates.StatusCompleted); err != nil {
		telemetry.Warn("verification.candidate_status_update_failed", map[string]any{
			"candidate_id": v.CandidateID,
			"error":        err.Error(),
		})
	}

	metrics.IncVerificationCompleted()
	metrics.ObserveVerificationDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("verification.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           v.UserID,
		"candidate_id":      v.CandidateID,
		"verification_id":   v.ID,
		"status":            StatusCompleted,
		"status_transition": "in_progress->completed",
		"risk_score":        outcome.RiskScore,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// runChecks executes the checks selected by the verification type and folds
// their risk contributions into one clamped score.
func (s *Service) runChecks(ctx context.Context, v Verification, entries []timeline.Entry) (Outcome, error) {
	outcome := Outcome{
		Flags:           []string{},
		Recommendations: []string{},
	}
	score := 0

	if v.Type == TypeFull || v.Type == TypeTimeline {
		analyzer := s.Analyzer
		if analyzer == nil {
			analyzer = timeline.NewAnalyzer()
		}
		analysis := analyzer.Analyze(entries)
		outcome.Timeline = &analysis
		outcome.Flags = append(outcome.Flags, analysis.Flags...)
		score += analysis.RiskScore
	}

	if v.Type == TypeFull || v.Type == TypeEmployment {
		if s.Company == nil {
			return Outcome{}, errors.New("missing company verifier")
		}
		findings, err := s.Company.VerifyEmployment(ctx, entries)
		if err != nil {
			return Outcome{}, fmt.Errorf("registry employment check: %w", err)
		}
		outcome.Employment = findings
		for _, f := range findings {
			score += f.RiskPoints
			if !f.Verified {
				outcome.Flags = append(outcome.Flags, fmt.Sprintf("Unverified employment at %s", f.Organization))
			}
		}
	}

	if v.Type == TypeFull || v.Type == TypeEducation {
		if s.Education == nil {
			return Outcome{}, errors.New("missing education verifier")
		}
		findings, err := s.Education.VerifyEducation(ctx, entries)
		if err != nil {
			return Outcome{}, fmt.Errorf("registry education check: %w", err)
		}
		outcome.Education = findings
		for _, f := range findings {
			score += f.RiskPoints
			if !f.Verified {
				outcome.Flags = append(outcome.Flags, fmt.Sprintf("Unverified education at %s", f.Institution))
			}
		}
	}

	if score > 100 {
		score = 100
	}
	outcome.RiskScore = score
	outcome.Recommendations = buildRecommendations(outcome)
	return outcome, nil
}

func buildRecommendations(outcome Outcome) []string {
	recommendations := []string{}
	if outcome.Timeline != nil {
		if outcome.Timeline.TotalGaps > 0 {
			recommendations = append(recommendations, "Ask the candidate to account for the identified timeline gaps")
		}
		if outcome.Timeline.TotalOverlaps > 0 {
			recommendations = append(recommendations, "Confirm whether the overlapping positions were held concurrently")
		}
	}
	for _, f := range outcome.Employment {
		if !f.Verified {
			recommendations = append(recommendations, "Request employment references for positions that could not be verified")
			break
		}
	}
	for _, f := range outcome.Education {
		if !f.Verified {
			recommendations = append(recommendations, "Request diplomas or transcripts for unverified education entries")
			break
		}
	}
	if outcome.RiskScore >= 70 {
		recommendations = append(recommendations, "High risk profile: escalate to a full manual background check")
	} else if len(recommendations) == 0 {
		recommendations = append(recommendations, "No follow-up required")
	}
	return recommendations
}

func (s *Service) failVerification(ctx context.Context, verificationID string, err error, startedAt *time.Time) {
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	fromStatus := StatusInProgress
	if v, lookupErr := s.Repo.GetByID(context.Background(), verificationID); lookupErr == nil {
		fromStatus = v.Status
	}
	if updateErr := s.Repo.Fail(context.Background(), verificationID, msg, completedAt); updateErr != nil {
		telemetry.Error("verification.fail_update_failed", map[string]any{
			"verification_id": verificationID,
			"error":           updateErr.Error(),
			"original_error":  msg,
		})
	}
	if s.Candidates != nil {
		if v, lookupErr := s.Repo.GetByID(context.Background(), verificationID); lookupErr == nil {
			if statusErr := s.Candidates.UpdateStatus(context.Background(), v.CandidateID, candidates.StatusFailed); statusErr != nil {
				telemetry.Warn("verification.candidate_status_update_failed", map[string]any{
					"candidate_id": v.CandidateID,
					"error":        statusErr.Error(),
				})
			}
		}
	}
	metrics.IncVerificationFailed()
	if startedAt != nil {
		metrics.ObserveVerificationDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("verification.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"verification_id":   verificationID,
		"status":            StatusFailed,
		"status_transition": fromStatus + "->" + StatusFailed,
		"error":             msg,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
