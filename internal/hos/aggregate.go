// Package hos holds the pure hours-of-service computation core: duration
// aggregation, violation detection and fleet reporting. Nothing in this
// package does I/O or touches shared state, so everything here is safe to
// call concurrently for different logs.
package hos

import (
	"math"
	"sort"

	"hos-service/internal/model"
)

// Totals are the four duration buckets for one daily log, in whole minutes.
type Totals struct {
	DriveMinutes   int
	DutyMinutes    int
	OnDutyMinutes  int
	OffDutyMinutes int
}

// SortEvents returns a copy of events ordered by timestamp ascending.
// The sort is stable: events with equal timestamps keep their relative order.
func SortEvents(events []model.DutyStatusEvent) []model.DutyStatusEvent {
	sorted := make([]model.DutyStatusEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// Aggregate walks consecutive event pairs and attributes each interval's
// full duration to the earlier event's status. The trailing event bounds no
// interval: an open-ended status is not yet known to have ended. Fewer than
// two events yield zero totals.
func Aggregate(events []model.DutyStatusEvent) Totals {
	return aggregateSorted(SortEvents(events))
}

// aggregateSorted assumes events are already in timestamp order. Each bucket
// is summed as floating-point minutes and rounded once at the end; rounding
// per interval would compound error.
func aggregateSorted(sorted []model.DutyStatusEvent) Totals {
	if len(sorted) < 2 {
		return Totals{}
	}

	var drive, duty, onDuty, offDuty float64
	for i := 0; i < len(sorted)-1; i++ {
		minutes := sorted[i+1].Timestamp.Sub(sorted[i].Timestamp).Minutes()
		switch sorted[i].Status {
		case model.DutyStatusDriving:
			drive += minutes
			duty += minutes
			onDuty += minutes
		case model.DutyStatusOnDutyNotDriving:
			duty += minutes
			onDuty += minutes
		case model.DutyStatusOffDuty, model.DutyStatusSleeperBerth:
			offDuty += minutes
		}
	}

	return Totals{
		DriveMinutes:   int(math.Round(drive)),
		DutyMinutes:    int(math.Round(duty)),
		OnDutyMinutes:  int(math.Round(onDuty)),
		OffDutyMinutes: int(math.Round(offDuty)),
	}
}
