package registry

import (
	"context"

	"verifyzen/internal/timeline"
)

// EmploymentFinding is the outcome of checking one work entry against the
// company registry.
type EmploymentFinding struct {
	Organization       string   `json:"organization"`
	Title              string   `json:"title"`
	CompanyExists      bool     `json:"companyExists"`
	ExistedDuringStint bool     `json:"existedDuringPeriod"`
	Verified           bool     `json:"verified"`
	Confidence         int      `json:"confidence"`
	Discrepancies      []string `json:"discrepancies,omitempty"`
	RiskPoints         int      `json:"riskPoints"`
}

// EducationFinding is the outcome of checking one education entry against the
// accredited institutions database.
type EducationFinding struct {
	Institution       string   `json:"institution"`
	Degree            string   `json:"degree"`
	InstitutionExists bool     `json:"institutionExists"`
	Accredited        bool     `json:"accredited"`
	DiplomaMill       bool     `json:"diplomaMill"`
	Verified          bool     `json:"verified"`
	Confidence        int      `json:"confidence"`
	Discrepancies     []string `json:"discrepancies,omitempty"`
	RiskPoints        int      `json:"riskPoints"`
}

// CompanyVerifier checks work history entries against a company registry.
type CompanyVerifier interface {
	VerifyEmployment(ctx context.Context, entries []timeline.Entry) ([]EmploymentFinding, error)
}

// EducationVerifier checks education entries against an institutions database.
type EducationVerifier interface {
	VerifyEducation(ctx context.Context, entries []timeline.Entry) ([]EducationFinding, error)
}
