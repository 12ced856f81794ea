package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"verifyzen/internal/candidates"
	"verifyzen/internal/registry"
	"verifyzen/internal/shared/storage/object/local"
	"verifyzen/internal/timeline"
	"verifyzen/internal/verifications"
)

func seedCompleted(t *testing.T, verRepo verifications.Repo, candRepo candidates.Repo) verifications.Verification {
	t.Helper()
	ctx := context.Background()

	cand := candidates.Candidate{
		ID:        "cand-1",
		UserID:    "user-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Status:    candidates.StatusCompleted,
	}
	if err := candRepo.Create(ctx, cand); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	v := verifications.Verification{
		ID:          "ver-1",
		CandidateID: cand.ID,
		UserID:      cand.UserID,
		Type:        verifications.TypeFull,
		Status:      verifications.StatusPending,
		Priority:    verifications.PriorityNormal,
	}
	if err := verRepo.Create(ctx, v); err != nil {
		t.Fatalf("seed verification: %v", err)
	}
	if err := verRepo.MarkInProgress(ctx, v.ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark in progress: %v", err)
	}
	outcome := verifications.Outcome{
		RiskScore: 35,
		Timeline:  &timeline.Analysis{RiskScore: 15, TotalGaps: 1, Flags: []string{"Found 1 significant timeline gap(s)"}},
		Employment: []registry.EmploymentFinding{
			{Organization: "Globex", Title: "Engineer", Verified: false, Discrepancies: []string{"Company not found in registry"}, RiskPoints: 20},
		},
		Flags:           []string{"Found 1 significant timeline gap(s)", "Unverified employment at Globex"},
		Recommendations: []string{"Request employment references for positions that could not be verified"},
		CompletedAt:     time.Now().UTC(),
	}
	if err := verRepo.Complete(ctx, v.ID, outcome); err != nil {
		t.Fatalf("complete verification: %v", err)
	}

	completed, err := verRepo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("reload verification: %v", err)
	}
	return completed
}

func TestGetRendersAndStoresReport(t *testing.T) {
	verRepo := verifications.NewMemoryRepo()
	candRepo := candidates.NewMemoryRepo()
	svc := NewService(verRepo, candRepo, local.New(t.TempDir()))
	v := seedCompleted(t, verRepo, candRepo)

	report, err := svc.Get(context.Background(), "user-1", v.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	for _, fragment := range []string{
		"# Background Verification Report",
		"**Candidate:** Ada Lovelace (ada@example.com)",
		"**Overall Risk Score:** 35/100",
		"## Employment Verification",
		"NOT VERIFIED",
		"# Timeline Analysis Report",
		"## Recommendations",
	} {
		if !strings.Contains(report.Markdown, fragment) {
			t.Fatalf("report missing %q:\n%s", fragment, report.Markdown)
		}
	}

	stored, err := verRepo.GetByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("reload verification: %v", err)
	}
	if stored.ReportKey == "" {
		t.Fatal("expected report key to be recorded")
	}

	// Second fetch serves the stored copy.
	again, err := svc.Get(context.Background(), "user-1", v.ID)
	if err != nil {
		t.Fatalf("Get (stored): %v", err)
	}
	if again.Markdown != report.Markdown {
		t.Fatal("expected identical stored report")
	}
}

func TestGetRejectsIncompleteVerification(t *testing.T) {
	verRepo := verifications.NewMemoryRepo()
	candRepo := candidates.NewMemoryRepo()
	svc := NewService(verRepo, candRepo, local.New(t.TempDir()))

	v := verifications.Verification{
		ID:          "ver-pending",
		CandidateID: "cand-1",
		UserID:      "user-1",
		Type:        verifications.TypeFull,
		Status:      verifications.StatusPending,
		Priority:    verifications.PriorityNormal,
	}
	if err := verRepo.Create(context.Background(), v); err != nil {
		t.Fatalf("seed verification: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-1", v.ID); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	verRepo := verifications.NewMemoryRepo()
	candRepo := candidates.NewMemoryRepo()
	svc := NewService(verRepo, candRepo, local.New(t.TempDir()))
	v := seedCompleted(t, verRepo, candRepo)

	if _, err := svc.Get(context.Background(), "someone-else", v.ID); !errors.Is(err, verifications.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestListReturnsOnlyCompleted(t *testing.T) {
	verRepo := verifications.NewMemoryRepo()
	candRepo := candidates.NewMemoryRepo()
	svc := NewService(verRepo, candRepo, local.New(t.TempDir()))
	seedCompleted(t, verRepo, candRepo)

	pending := verifications.Verification{
		ID:          "ver-2",
		CandidateID: "cand-1",
		UserID:      "user-1",
		Type:        verifications.TypeFull,
		Status:      verifications.StatusPending,
		Priority:    verifications.PriorityNormal,
	}
	if err := verRepo.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed verification: %v", err)
	}

	list, err := svc.List(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "ver-1" {
		t.Fatalf("expected only the completed verification, got %+v", list)
	}
}
