package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"verifyzen/internal/candidates"
	"verifyzen/internal/shared/storage/object"
	"verifyzen/internal/shared/telemetry"
	"verifyzen/internal/verifications"
)

// ErrNotReady is returned when a report is requested for a verification that
// has not completed.
var ErrNotReady = errors.New("verification not completed")

// Report pairs a completed verification with its rendered markdown.
type Report struct {
	VerificationID string    `json:"verificationId"`
	CandidateID    string    `json:"candidateId"`
	RiskScore      int       `json:"riskScore"`
	GeneratedAt    time.Time `json:"generatedAt"`
	Markdown       string    `json:"markdown"`
}

// Service renders, stores and serves verification reports.
type Service struct {
	Verifications verifications.Repo
	Candidates    candidates.Repo
	Store         object.ObjectStore
}

// NewService constructs a Service.
func NewService(verRepo verifications.Repo, candRepo candidates.Repo, store object.ObjectStore) *Service {
	return &Service{Verifications: verRepo, Candidates: candRepo, Store: store}
}

// Get returns the report for a completed verification, rendering and storing
// it on first access.
func (s *Service) Get(ctx context.Context, userID, verificationID string) (Report, error) {
	v, err := s.Verifications.GetByID(ctx, verificationID)
	if err != nil {
		return Report{}, err
	}
	if v.UserID != userID {
		return Report{}, verifications.ErrNotFound
	}
	if v.Status != verifications.StatusCompleted {
		return Report{}, ErrNotReady
	}

	if v.ReportKey != "" {
		markdown, err := s.loadStored(ctx, v.ReportKey)
		if err == nil {
			return s.report(v, markdown), nil
		}
		telemetry.Warn("reports.stored_copy_unreadable", map[string]any{
			"verification_id": verificationID,
			"report_key":      v.ReportKey,
			"error":           err.Error(),
		})
	}

	cand, err := s.Candidates.GetByID(ctx, v.UserID, v.CandidateID)
	if err != nil {
		return Report{}, fmt.Errorf("candidate lookup id=%s: %w", v.CandidateID, err)
	}

	generatedAt := time.Now().UTC()
	markdown := RenderMarkdown(cand, v, generatedAt)

	reportKey := fmt.Sprintf("reports/%s/%s.md", v.UserID, v.ID)
	if s.Store != nil {
		if _, err := s.Store.SaveWithKey(ctx, reportKey, "text/markdown; charset=utf-8", strings.NewReader(markdown)); err != nil {
			return Report{}, fmt.Errorf("store report: %w", err)
		}
		if err := s.Verifications.SetReportKey(ctx, v.ID, reportKey); err != nil {
			return Report{}, fmt.Errorf("record report key: %w", err)
		}
		telemetry.Info("reports.generated", map[string]any{
			"verification_id": v.ID,
			"report_key":      reportKey,
		})
	}

	return s.report(v, markdown), nil
}

// List returns completed verifications for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]verifications.Verification, error) {
	return s.Verifications.ListByUser(ctx, userID, verifications.StatusCompleted, "", limit, offset)
}

func (s *Service) report(v verifications.Verification, markdown string) Report {
	generatedAt := time.Now().UTC()
	if v.CompletedAt != nil {
		generatedAt = *v.CompletedAt
	}
	return Report{
		VerificationID: v.ID,
		CandidateID:    v.CandidateID,
		RiskScore:      v.RiskScore,
		GeneratedAt:    generatedAt,
		Markdown:       markdown,
	}
}

func (s *Service) loadStored(ctx context.Context, reportKey string) (string, error) {
	if s.Store == nil {
		return "", errors.New("object store not configured")
	}
	body, err := s.Store.Open(ctx, reportKey)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
