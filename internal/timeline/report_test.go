package timeline

import (
	"strings"
	"testing"
	"time"
)

func TestRenderReportSections(t *testing.T) {
	analysis := Analysis{
		TotalGaps:     1,
		TotalOverlaps: 1,
		Gaps: []Gap{
			{
				Start:          date(2019, time.January, 1),
				End:            date(2019, time.April, 1),
				DurationInDays: 90,
				Severity:       SeverityMedium,
			},
		},
		Overlaps: []Overlap{
			{
				Entry1:        Entry{Title: "Engineer", Organization: "Acme"},
				Entry2:        Entry{Title: "Consultant", Organization: "Globex"},
				OverlapInDays: 45,
				Severity:      SeverityMedium,
			},
		},
		RiskScore: 40,
		Flags:     []string{"Found 1 significant timeline gap(s)", "Found 1 suspicious overlapping position(s)"},
	}

	report := RenderReport(analysis)

	wantFragments := []string{
		"# Timeline Analysis Report",
		"**Risk Score:** 40/100",
		"## Red Flags",
		"- Found 1 significant timeline gap(s)",
		"## Timeline Gaps",
		"1. Gap of 90 days (medium severity)",
		"From 2019-01-01 to 2019-04-01",
		"## Overlapping Positions",
		"1. Engineer at Acme overlaps with",
		"Consultant at Globex",
		"Overlap: 45 days (medium severity)",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(report, fragment) {
			t.Fatalf("report missing fragment %q:\n%s", fragment, report)
		}
	}

	sections := []string{"## Red Flags", "## Timeline Gaps", "## Overlapping Positions"}
	last := -1
	for _, section := range sections {
		idx := strings.Index(report, section)
		if idx <= last {
			t.Fatalf("section %q out of order", section)
		}
		last = idx
	}
}

func TestRenderReportIdempotent(t *testing.T) {
	analysis := Analysis{
		Gaps:      []Gap{{Start: date(2020, time.January, 1), End: date(2020, time.March, 1), DurationInDays: 60, Severity: SeverityMedium}},
		Overlaps:  []Overlap{},
		Flags:     []string{"Found 1 significant timeline gap(s)"},
		RiskScore: 15,
		TotalGaps: 1,
	}

	if RenderReport(analysis) != RenderReport(analysis) {
		t.Fatalf("expected identical renders of the same analysis")
	}
}

func TestRenderReportNoIssues(t *testing.T) {
	report := RenderReport(Analysis{Gaps: []Gap{}, Overlaps: []Overlap{}, Flags: []string{}})
	if !strings.Contains(report, "## No Issues Found") {
		t.Fatalf("expected no-issues section:\n%s", report)
	}
	if !strings.Contains(report, "The timeline appears consistent with no significant gaps or overlaps.") {
		t.Fatalf("expected consistency note:\n%s", report)
	}
}
