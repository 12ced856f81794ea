package reports

import (
	"fmt"
	"strings"
	"time"

	"verifyzen/internal/candidates"
	"verifyzen/internal/timeline"
	"verifyzen/internal/verifications"
)

// RenderMarkdown builds the full verification report. The timeline section
// embeds the analyzer's own summary so both always agree.
func RenderMarkdown(cand candidates.Candidate, v verifications.Verification, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Background Verification Report\n\n")
	fmt.Fprintf(&b, "**Candidate:** %s %s (%s)\n", cand.FirstName, cand.LastName, cand.Email)
	fmt.Fprintf(&b, "**Verification Type:** %s\n", v.Type)
	fmt.Fprintf(&b, "**Overall Risk Score:** %d/100\n", v.RiskScore)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	if len(v.Flags) > 0 {
		b.WriteString("## Flags\n")
		for _, flag := range v.Flags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
		b.WriteString("\n")
	}

	if len(v.Employment) > 0 {
		b.WriteString("## Employment Verification\n")
		for i, f := range v.Employment {
			status := "verified"
			if !f.Verified {
				status = "NOT VERIFIED"
			}
			fmt.Fprintf(&b, "%d. %s at %s: %s (confidence %d%%)\n", i+1, f.Title, f.Organization, status, f.Confidence)
			for _, d := range f.Discrepancies {
				fmt.Fprintf(&b, "   - %s\n", d)
			}
		}
		b.WriteString("\n")
	}

	if len(v.Education) > 0 {
		b.WriteString("## Education Verification\n")
		for i, f := range v.Education {
			status := "verified"
			if !f.Verified {
				status = "NOT VERIFIED"
			}
			fmt.Fprintf(&b, "%d. %s at %s: %s (confidence %d%%)\n", i+1, f.Degree, f.Institution, status, f.Confidence)
			for _, d := range f.Discrepancies {
				fmt.Fprintf(&b, "   - %s\n", d)
			}
		}
		b.WriteString("\n")
	}

	if v.Timeline != nil {
		b.WriteString(timeline.RenderReport(*v.Timeline))
		b.WriteString("\n")
	}

	if len(v.Recommendations) > 0 {
		b.WriteString("## Recommendations\n")
		for _, rec := range v.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}
