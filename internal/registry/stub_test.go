package registry

import (
	"context"
	"reflect"
	"testing"
	"time"

	"verifyzen/internal/timeline"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVerifyEmploymentOnlyWorkEntries(t *testing.T) {
	verifier := NewStubCompanyVerifier()
	entries := []timeline.Entry{
		{Type: timeline.EntryTypeWork, Title: "Engineer", Organization: "Acme Corp", StartDate: date(2020, 1, 1)},
		{Type: timeline.EntryTypeEducation, Title: "BSc", Organization: "MIT", StartDate: date(2016, 9, 1)},
	}

	findings, err := verifier.VerifyEmployment(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEmployment: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Organization != "Acme Corp" {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
}

func TestVerifyEmploymentDeterministic(t *testing.T) {
	verifier := NewStubCompanyVerifier()
	entries := []timeline.Entry{
		{Type: timeline.EntryTypeWork, Title: "Engineer", Organization: "Acme Corp", StartDate: date(2020, 1, 1)},
		{Type: timeline.EntryTypeWork, Title: "Analyst", Organization: "Globex", StartDate: date(2018, 1, 1)},
	}

	first, err := verifier.VerifyEmployment(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEmployment: %v", err)
	}
	second, err := verifier.VerifyEmployment(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEmployment: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical findings across runs:\n%+v\n%+v", first, second)
	}
}

func TestVerifyEducationDiplomaMill(t *testing.T) {
	verifier := NewStubEducationVerifier()
	entries := []timeline.Entry{
		{Type: timeline.EntryTypeEducation, Title: "PhD", Organization: "University of Life", StartDate: date(2010, 9, 1)},
	}

	findings, err := verifier.VerifyEducation(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEducation: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if !f.DiplomaMill {
		t.Fatal("expected diploma mill flag")
	}
	if f.Verified {
		t.Fatal("expected unverified finding")
	}
	if f.RiskPoints < riskDiplomaMill {
		t.Fatalf("expected at least %d risk points, got %d", riskDiplomaMill, f.RiskPoints)
	}
}

func TestVerifyEducationSuspiciousDegree(t *testing.T) {
	verifier := NewStubEducationVerifier()
	entries := []timeline.Entry{
		{Type: timeline.EntryTypeEducation, Title: "Honorary Doctorate", Organization: "Stanford University", StartDate: date(2015, 9, 1)},
	}

	findings, err := verifier.VerifyEducation(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEducation: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	found := false
	for _, d := range findings[0].Discrepancies {
		if d == "Degree name contains suspicious keywords" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected suspicious degree discrepancy, got %+v", findings[0].Discrepancies)
	}
}

func TestVerifyEducationCleanEntry(t *testing.T) {
	verifier := NewStubEducationVerifier()
	entries := []timeline.Entry{
		{Type: timeline.EntryTypeEducation, Title: "BSc Computer Science", Organization: "Stanford University", StartDate: date(2015, 9, 1)},
	}

	findings, err := verifier.VerifyEducation(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyEducation: %v", err)
	}
	f := findings[0]
	if f.DiplomaMill {
		t.Fatal("unexpected diploma mill flag")
	}
	if f.InstitutionExists && !f.Verified {
		t.Fatalf("existing institution with no discrepancies should verify: %+v", f)
	}
}
