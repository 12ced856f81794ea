package timeline

import (
	"fmt"
	"strings"
)

// RenderReport projects an Analysis into a markdown summary. The output is
// a pure function of the analysis: same sections, same order, every time.
func RenderReport(analysis Analysis) string {
	var b strings.Builder
	b.WriteString("# Timeline Analysis Report\n\n")
	fmt.Fprintf(&b, "**Risk Score:** %d/100\n\n", analysis.RiskScore)

	if len(analysis.Flags) > 0 {
		b.WriteString("## Red Flags\n")
		for _, flag := range analysis.Flags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
		b.WriteString("\n")
	}

	if len(analysis.Gaps) > 0 {
		b.WriteString("## Timeline Gaps\n")
		for i, gap := range analysis.Gaps {
			fmt.Fprintf(&b, "%d. Gap of %d days (%s severity)\n", i+1, gap.DurationInDays, gap.Severity)
			fmt.Fprintf(&b, "   From %s to %s\n", gap.Start.Format("2006-01-02"), gap.End.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if len(analysis.Overlaps) > 0 {
		b.WriteString("## Overlapping Positions\n")
		for i, overlap := range analysis.Overlaps {
			fmt.Fprintf(&b, "%d. %s at %s overlaps with\n", i+1, overlap.Entry1.Title, overlap.Entry1.Organization)
			fmt.Fprintf(&b, "   %s at %s\n", overlap.Entry2.Title, overlap.Entry2.Organization)
			fmt.Fprintf(&b, "   Overlap: %d days (%s severity)\n", overlap.OverlapInDays, overlap.Severity)
		}
		b.WriteString("\n")
	}

	if len(analysis.Flags) == 0 && len(analysis.Gaps) == 0 && len(analysis.Overlaps) == 0 {
		b.WriteString("## No Issues Found\n")
		b.WriteString("The timeline appears consistent with no significant gaps or overlaps.\n")
	}

	return b.String()
}
