package hos

import (
	"fmt"
	"math"

	"hos-service/internal/model"
)

// Regulatory limits, in minutes.
const (
	DriveTimeLimit = 660 // 11-hour driving limit
	DutyTimeLimit  = 840 // 14-hour duty window
	MinRestBreak   = 600 // 10 consecutive hours of rest
)

// DetectViolations evaluates each rule independently against the aggregated
// totals and the sorted event stream. The result is the full replacement set
// for the log; callers must never merge it with a previous set.
//
// The rest-break rule deliberately re-scans the raw events instead of using
// the off-duty total: several short off-duty periods can sum past 10 hours
// without containing a single qualifying rest period.
//
// Known simplification carried over from the rule set this encodes: neither
// the 34-hour restart nor the split-sleeper-berth exception is modeled.
func DetectViolations(totals Totals, sorted []model.DutyStatusEvent) []model.HOSViolation {
	violations := make([]model.HOSViolation, 0, 3)

	if totals.DriveMinutes > DriveTimeLimit {
		violations = append(violations, model.HOSViolation{
			Type:        model.ViolationTypeDriveTime,
			Severity:    model.ViolationSeverityViolation,
			Description: fmt.Sprintf("drive time of %.1f hours exceeds the 11-hour limit", float64(totals.DriveMinutes)/60),
		})
	}

	if totals.DutyMinutes > DutyTimeLimit {
		violations = append(violations, model.HOSViolation{
			Type:        model.ViolationTypeDutyTime,
			Severity:    model.ViolationSeverityViolation,
			Description: fmt.Sprintf("duty time of %.1f hours exceeds the 14-hour window", float64(totals.DutyMinutes)/60),
		})
	}

	if v, ok := restBreakViolation(sorted); ok {
		violations = append(violations, v)
	}

	return violations
}

// restBreakViolation finds the longest contiguous OFF_DUTY/SLEEPER_BERTH run,
// measured from the run's first event to the first subsequent non-rest event.
// Only runs closed by a non-rest event count: a trailing open run has no
// known end, and a day with no closed run at all is treated as compliant
// (absence of evidence, not proof of a violation).
func restBreakViolation(sorted []model.DutyStatusEvent) (model.HOSViolation, bool) {
	var (
		longest float64
		inRun   bool
		closed  bool
		start   int
	)
	for i, ev := range sorted {
		if ev.Status.IsRest() {
			if !inRun {
				inRun = true
				start = i
			}
			continue
		}
		if inRun {
			span := ev.Timestamp.Sub(sorted[start].Timestamp).Minutes()
			if span > longest {
				longest = span
			}
			inRun = false
			closed = true
		}
	}

	if !closed {
		return model.HOSViolation{}, false
	}
	if math.Round(longest) >= MinRestBreak {
		return model.HOSViolation{}, false
	}

	return model.HOSViolation{
		Type:        model.ViolationTypeRestBreak,
		Severity:    model.ViolationSeverityViolation,
		Description: "no off-duty period of at least 10 consecutive hours",
	}, true
}
