package hos

import "hos-service/internal/model"

// Recompute is the aggregate-then-detect pipeline run at every mutation
// boundary, before the log is persisted. It refreshes every derived field
// in place: the four duration totals, the violation set (full replacement),
// HasViolations, and the mileage/engine-hour deltas.
func Recompute(log *model.DailyLog) {
	sorted := SortEvents(log.Events)
	totals := aggregateSorted(sorted)

	log.TotalDriveTime = totals.DriveMinutes
	log.TotalDutyTime = totals.DutyMinutes
	log.TotalOnDutyTime = totals.OnDutyMinutes
	log.TotalOffDutyTime = totals.OffDutyMinutes

	violations := DetectViolations(totals, sorted)
	for i := range violations {
		violations[i].DailyLogID = log.ID
	}
	log.Violations = violations
	log.HasViolations = len(violations) > 0

	log.TotalMiles = delta(log.StartOdometer, log.EndOdometer)
	log.TotalEngineHours = delta(log.StartEngineHours, log.EndEngineHours)
}

func delta(start, end *float64) float64 {
	if start == nil || end == nil || *end < *start {
		return 0
	}
	return *end - *start
}
