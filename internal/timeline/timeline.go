package timeline

import "time"

// EntryType distinguishes work history from education history.
type EntryType string

const (
	EntryTypeWork      EntryType = "work"
	EntryTypeEducation EntryType = "education"
)

// Severity classifies a gap or overlap duration against the threshold table.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Entry is one work or education record in a candidate's history.
// A nil EndDate means the position is ongoing and is resolved against
// the analyzer clock.
type Entry struct {
	ID           string     `json:"id"`
	Type         EntryType  `json:"type"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// Gap is a period of inactivity between two adjacent entries in the
// start-date-ordered timeline.
type Gap struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	DurationInDays int       `json:"durationInDays"`
	Severity       Severity  `json:"severity"`
}

// Overlap is a period during which two entries' date ranges both apply.
type Overlap struct {
	Entry1        Entry    `json:"entry1"`
	Entry2        Entry    `json:"entry2"`
	OverlapInDays int      `json:"overlapInDays"`
	Severity      Severity `json:"severity"`
}

// Analysis is the result of one analyzer invocation. It is a plain value
// with no lifecycle beyond the call that produced it.
type Analysis struct {
	TotalGaps     int       `json:"totalGaps"`
	TotalOverlaps int       `json:"totalOverlaps"`
	Gaps          []Gap     `json:"gaps"`
	Overlaps      []Overlap `json:"overlaps"`
	RiskScore     int       `json:"riskScore"`
	Flags         []string  `json:"flags"`
}

// dateRange is the minimal projection of an Entry needed for interval math.
type dateRange struct {
	start time.Time
	end   *time.Time
}

// daysBetween returns the number of whole elapsed days from a to b.
// Negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
