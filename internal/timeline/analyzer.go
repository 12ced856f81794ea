package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Thresholds holds the duration cutoffs and score weights used by the
// analyzer. Durations are in whole days.
//
// Short-tenure detection intentionally approximates a month as 30 elapsed
// days (elapsedDays/30), while gap and overlap spans use exact calendar-day
// differences. The mismatch is preserved behavior, not an accident of this
// implementation.
type Thresholds struct {
	MinGapDays        int
	GapMediumDays     int
	GapHighDays       int
	OverlapMediumDays int
	OverlapHighDays   int

	GapWeight         int
	OverlapWeight     int
	ManyPositionsMax  int
	ManyPositionsFlat int
	ShortTenureMonths int
	ShortTenureMax    int
	ShortTenureFlat   int

	ScoreCap int
}

// DefaultThresholds returns the standard threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinGapDays:        30,
		GapMediumDays:     60,
		GapHighDays:       180,
		OverlapMediumDays: 30,
		OverlapHighDays:   90,
		GapWeight:         15,
		OverlapWeight:     25,
		ManyPositionsMax:  10,
		ManyPositionsFlat: 10,
		ShortTenureMonths: 6,
		ShortTenureMax:    3,
		ShortTenureFlat:   15,
		ScoreCap:          100,
	}
}

// Analyzer computes timeline consistency analyses. The zero value is not
// usable; construct with NewAnalyzer.
type Analyzer struct {
	thresholds Thresholds
	now        func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithThresholds overrides the default threshold table.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) { a.thresholds = t }
}

// WithNow overrides the clock used to resolve open-ended entries.
func WithNow(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer constructs an Analyzer with default thresholds and clock.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes gaps, overlaps, flags, and a capped risk score for the
// given entries. It is a pure function of the entries and the analyzer
// clock: no I/O, no shared state, safe for concurrent callers.
func (a *Analyzer) Analyze(entries []Entry) Analysis {
	now := a.now().UTC()

	gaps := a.detectGaps(entries, now)
	overlaps := a.detectOverlaps(entries, now)

	flags := []string{}
	riskScore := 0

	significantGaps := 0
	for _, g := range gaps {
		if g.Severity != SeverityLow {
			significantGaps++
		}
	}
	if significantGaps > 0 {
		flags = append(flags, fmt.Sprintf("Found %d significant timeline gap(s)", significantGaps))
		riskScore += significantGaps * a.thresholds.GapWeight
	}

	significantOverlaps := 0
	for _, o := range overlaps {
		if o.Severity != SeverityLow {
			significantOverlaps++
		}
	}
	if significantOverlaps > 0 {
		flags = append(flags, fmt.Sprintf("Found %d suspicious overlapping position(s)", significantOverlaps))
		riskScore += significantOverlaps * a.thresholds.OverlapWeight
	}

	workEntries := 0
	shortTenures := 0
	for _, e := range entries {
		if e.Type != EntryTypeWork {
			continue
		}
		workEntries++
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		if daysBetween(e.StartDate, end)/30 < a.thresholds.ShortTenureMonths {
			shortTenures++
		}
	}
	if workEntries > a.thresholds.ManyPositionsMax {
		flags = append(flags, "Unusually high number of positions")
		riskScore += a.thresholds.ManyPositionsFlat
	}
	if shortTenures > a.thresholds.ShortTenureMax {
		flags = append(flags, fmt.Sprintf("Multiple short-tenure positions (< %d months)", a.thresholds.ShortTenureMonths))
		riskScore += a.thresholds.ShortTenureFlat
	}

	if riskScore > a.thresholds.ScoreCap {
		riskScore = a.thresholds.ScoreCap
	}

	return Analysis{
		TotalGaps:     len(gaps),
		TotalOverlaps: len(overlaps),
		Gaps:          gaps,
		Overlaps:      overlaps,
		RiskScore:     riskScore,
		Flags:         flags,
	}
}

// detectGaps checks adjacent pairs in start-date order. Gaps are defined
// over the merged timeline, not pairwise.
func (a *Analyzer) detectGaps(entries []Entry, now time.Time) []Gap {
	ranges := make([]dateRange, len(entries))
	for i, e := range entries {
		ranges[i] = dateRange{start: e.StartDate, end: e.EndDate}
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].start.Before(ranges[j].start)
	})

	gaps := []Gap{}
	for i := 0; i+1 < len(ranges); i++ {
		currentEnd := now
		if ranges[i].end != nil {
			currentEnd = *ranges[i].end
		}
		nextStart := ranges[i+1].start

		gapDays := daysBetween(currentEnd, nextStart)
		if gapDays >= a.thresholds.MinGapDays {
			gaps = append(gaps, Gap{
				Start:          currentEnd,
				End:            nextStart,
				DurationInDays: gapDays,
				Severity:       a.gapSeverity(gapDays),
			})
		}
	}
	return gaps
}

// detectOverlaps checks every unordered pair in the original entry order.
func (a *Analyzer) detectOverlaps(entries []Entry, now time.Time) []Overlap {
	overlaps := []Overlap{}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			end1 := now
			if entries[i].EndDate != nil {
				end1 = *entries[i].EndDate
			}
			end2 := now
			if entries[j].EndDate != nil {
				end2 = *entries[j].EndDate
			}

			windowStart := entries[i].StartDate
			if entries[j].StartDate.After(windowStart) {
				windowStart = entries[j].StartDate
			}
			windowEnd := end1
			if end2.Before(windowEnd) {
				windowEnd = end2
			}

			if windowStart.Before(windowEnd) {
				days := daysBetween(windowStart, windowEnd)
				overlaps = append(overlaps, Overlap{
					Entry1:        entries[i],
					Entry2:        entries[j],
					OverlapInDays: days,
					Severity:      a.overlapSeverity(days),
				})
			}
		}
	}
	return overlaps
}

func (a *Analyzer) gapSeverity(days int) Severity {
	switch {
	case days < a.thresholds.GapMediumDays:
		return SeverityLow
	case days < a.thresholds.GapHighDays:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

func (a *Analyzer) overlapSeverity(days int) Severity {
	switch {
	case days < a.thresholds.OverlapMediumDays:
		return SeverityLow
	case days < a.thresholds.OverlapHighDays:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
