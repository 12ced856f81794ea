package candidates

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"verifyzen/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryRepo(), local.New(t.TempDir()))
}

func createCandidate(t *testing.T, svc *Service, userID string) Candidate {
	t.Helper()
	cand, err := svc.Create(context.Background(), userID, CandidateRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return cand
}

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	cand := createCandidate(t, svc, "user-1")

	if cand.Status != StatusPending {
		t.Fatalf("expected pending status, got %q", cand.Status)
	}
	if cand.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", cand.Email)
	}

	got, err := svc.Get(context.Background(), "user-1", cand.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != cand.ID {
		t.Fatalf("expected %q, got %q", cand.ID, got.ID)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	cand := createCandidate(t, svc, "user-1")

	if _, err := svc.Get(context.Background(), "user-2", cand.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestListStatusFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")
	createCandidate(t, svc, "user-1")

	if err := svc.Repo.UpdateStatus(ctx, cand.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	completed, err := svc.List(ctx, "user-1", StatusCompleted, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != cand.ID {
		t.Fatalf("expected only the completed candidate, got %d", len(completed))
	}

	if _, err := svc.List(ctx, "user-1", "bogus", 20, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")

	updated, err := svc.Update(ctx, "user-1", cand.ID, CandidateRequest{
		FirstName: "Ada",
		LastName:  "King",
		Email:     "ada@example.com",
		Phone:     "+44 20 1234",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.LastName != "King" || updated.Phone != "+44 20 1234" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(ctx, "user-1", cand.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", cand.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReplaceTimelineAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")

	entries, err := svc.ReplaceTimeline(ctx, "user-1", cand.ID, []TimelineEntryRequest{
		{EntryType: "work", Title: "Engineer", Organization: "Acme", StartDate: "2020-01-01", EndDate: strPtr("2021-06-30")},
		{EntryType: "education", Title: "BSc", Organization: "MIT", StartDate: "2016-09-01", EndDate: strPtr("2020-06-01")},
		{EntryType: "work", Title: "Senior Engineer", Organization: "Globex", StartDate: "2021-07-01"},
	})
	if err != nil {
		t.Fatalf("ReplaceTimeline: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[2].EndDate != nil {
		t.Fatal("expected open-ended third entry")
	}

	stored, err := svc.GetTimeline(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(stored) != 3 || stored[0].Title != "Engineer" {
		t.Fatalf("unexpected stored timeline: %+v", stored)
	}
}

func TestReplaceTimelineValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")

	cases := []struct {
		name string
		req  TimelineEntryRequest
	}{
		{name: "bad_type", req: TimelineEntryRequest{EntryType: "hobby", Title: "X", Organization: "Y", StartDate: "2020-01-01"}},
		{name: "bad_date", req: TimelineEntryRequest{EntryType: "work", Title: "X", Organization: "Y", StartDate: "01/02/2020"}},
		{name: "inverted_range", req: TimelineEntryRequest{EntryType: "work", Title: "X", Organization: "Y", StartDate: "2021-01-01", EndDate: strPtr("2020-01-01")}},
		{name: "missing_title", req: TimelineEntryRequest{EntryType: "work", Title: "  ", Organization: "Y", StartDate: "2020-01-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ReplaceTimeline(ctx, "user-1", cand.ID, []TimelineEntryRequest{tc.req})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func buildDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<w:document><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestUploadResumeDocx(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")

	data := buildDocx(t, "Engineer at Acme")
	updated, err := svc.UploadResume(ctx, "user-1", cand.ID, "resume.docx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if updated.ResumeKey == "" {
		t.Fatal("expected resume key to be set")
	}
	if updated.ExtractedTextKey == "" {
		t.Fatal("expected extracted text key to be set for docx")
	}

	rc, err := svc.Store.Open(ctx, updated.ExtractedTextKey)
	if err != nil {
		t.Fatalf("open extracted text: %v", err)
	}
	defer rc.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(rc); err != nil {
		t.Fatalf("read extracted text: %v", err)
	}
	if !strings.Contains(out.String(), "Engineer at Acme") {
		t.Fatalf("unexpected extracted text: %q", out.String())
	}
}

func TestUploadResumeUnsupportedFormatKeepsFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cand := createCandidate(t, svc, "user-1")

	updated, err := svc.UploadResume(ctx, "user-1", cand.ID, "notes.txt", strings.NewReader("plain text resume"))
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if updated.ResumeKey == "" {
		t.Fatal("expected resume key to be set")
	}
	if updated.ExtractedTextKey != "" {
		t.Fatalf("expected no extraction for plain text, got %q", updated.ExtractedTextKey)
	}
}
