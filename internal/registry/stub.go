package registry

import (
	"context"
	"hash/fnv"
	"strings"

	"verifyzen/internal/timeline"
)

// Risk points contributed by registry findings to the overall risk score.
const (
	riskCompanyNotFound     = 20
	riskInstitutionNotFound = 20
	riskDiplomaMill         = 25
	riskSuspiciousDegree    = 10
)

// Institutions flagged as likely diploma mills.
var diplomaMills = []string{
	"university of life",
	"universal life church",
	"trinity southern",
	"american university london",
}

// Degree names that warrant a closer look.
var suspiciousDegrees = []string{
	"honorary",
	"life experience",
	"accelerated online",
}

// StubCompanyVerifier is a deterministic stand-in for the external company
// registry. Lookups are derived from the organization name so repeated runs
// over the same timeline produce identical findings.
type StubCompanyVerifier struct{}

func NewStubCompanyVerifier() *StubCompanyVerifier { return &StubCompanyVerifier{} }

func (v *StubCompanyVerifier) VerifyEmployment(ctx context.Context, entries []timeline.Entry) ([]EmploymentFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	findings := make([]EmploymentFinding, 0)
	for _, entry := range entries {
		if entry.Type != timeline.EntryTypeWork {
			continue
		}
		findings = append(findings, v.check(entry))
	}
	return findings, nil
}

func (v *StubCompanyVerifier) check(entry timeline.Entry) EmploymentFinding {
	finding := EmploymentFinding{
		Organization:       entry.Organization,
		Title:              entry.Title,
		CompanyExists:      true,
		ExistedDuringStint: true,
		Verified:           true,
		Confidence:         95,
	}

	if !stubLookupHit(entry.Organization, 10) {
		finding.CompanyExists = false
		finding.ExistedDuringStint = false
		finding.Verified = false
		finding.Confidence = 0
		finding.Discrepancies = append(finding.Discrepancies, "Company not found in registry")
		finding.RiskPoints += riskCompanyNotFound
	}

	return finding
}

// StubEducationVerifier is a deterministic stand-in for the accredited
// institutions database.
type StubEducationVerifier struct{}

func NewStubEducationVerifier() *StubEducationVerifier { return &StubEducationVerifier{} }

func (v *StubEducationVerifier) VerifyEducation(ctx context.Context, entries []timeline.Entry) ([]EducationFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	findings := make([]EducationFinding, 0)
	for _, entry := range entries {
		if entry.Type != timeline.EntryTypeEducation {
			continue
		}
		findings = append(findings, v.check(entry))
	}
	return findings, nil
}

func (v *StubEducationVerifier) check(entry timeline.Entry) EducationFinding {
	finding := EducationFinding{
		Institution:       entry.Organization,
		Degree:            entry.Title,
		InstitutionExists: true,
		Accredited:        true,
		Confidence:        100,
	}

	normalizedInstitution := strings.ToLower(entry.Organization)
	normalizedDegree := strings.ToLower(entry.Title)

	if !stubLookupHit(entry.Organization, 12) {
		finding.InstitutionExists = false
		finding.Accredited = false
		finding.Confidence = 0
		finding.Discrepancies = append(finding.Discrepancies, "Institution not found in accredited universities database")
		finding.RiskPoints += riskInstitutionNotFound
	}

	for _, mill := range diplomaMills {
		if strings.Contains(normalizedInstitution, mill) {
			finding.DiplomaMill = true
			finding.Accredited = false
			finding.Confidence = maxInt(finding.Confidence-80, 0)
			finding.Discrepancies = append(finding.Discrepancies, "Institution flagged as potential diploma mill")
			finding.RiskPoints += riskDiplomaMill
			break
		}
	}

	for _, keyword := range suspiciousDegrees {
		if strings.Contains(normalizedDegree, keyword) {
			finding.Confidence = maxInt(finding.Confidence-40, 0)
			finding.Discrepancies = append(finding.Discrepancies, "Degree name contains suspicious keywords")
			finding.RiskPoints += riskSuspiciousDegree
			break
		}
	}

	finding.Verified = len(finding.Discrepancies) == 0
	return finding
}

// stubLookupHit simulates a registry hit for roughly (modulus-1)/modulus of
// names, keyed only on the normalized name.
func stubLookupHit(name string, modulus uint32) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return h.Sum32()%modulus != 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var (
	_ CompanyVerifier   = (*StubCompanyVerifier)(nil)
	_ EducationVerifier = (*StubEducationVerifier)(nil)
)
