package hos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-service/internal/hos"
	"hos-service/internal/model"
)

func detect(t *testing.T, events ...model.DutyStatusEvent) []model.HOSViolation {
	t.Helper()
	sorted := hos.SortEvents(events)
	return hos.DetectViolations(hos.Aggregate(sorted), sorted)
}

func hasType(violations []model.HOSViolation, vt model.ViolationType) bool {
	for _, v := range violations {
		if v.Type == vt {
			return true
		}
	}
	return false
}

func TestDetectViolations_EmptyStream(t *testing.T) {
	violations := hos.DetectViolations(hos.Totals{}, nil)
	assert.Empty(t, violations)
}

func TestDetectViolations_DriveTimeBoundary(t *testing.T) {
	// Exactly 660 minutes of driving is legal; 661 is not.
	atLimit := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusDriving, 10, 0),
		at(model.DutyStatusOffDuty, 21, 0),
	)
	assert.False(t, hasType(atLimit, model.ViolationTypeDriveTime))

	overLimit := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusDriving, 9, 59),
		at(model.DutyStatusOffDuty, 21, 0),
	)
	assert.True(t, hasType(overLimit, model.ViolationTypeDriveTime))
}

func TestDetectViolations_DriveTimeDescriptionReportsHours(t *testing.T) {
	violations := detect(t,
		at(model.DutyStatusDriving, 0, 0),
		at(model.DutyStatusOffDuty, 12, 0),
	)

	require.True(t, hasType(violations, model.ViolationTypeDriveTime))
	for _, v := range violations {
		if v.Type == model.ViolationTypeDriveTime {
			assert.Contains(t, v.Description, "12.0")
			assert.Equal(t, model.ViolationSeverityViolation, v.Severity)
		}
	}
}

func TestDetectViolations_DutyTimeBoundary(t *testing.T) {
	// 14 hours of on-duty-not-driving: exactly 840 minutes, legal.
	atLimit := detect(t,
		at(model.DutyStatusOnDutyNotDriving, 0, 0),
		at(model.DutyStatusOffDuty, 14, 0),
	)
	assert.False(t, hasType(atLimit, model.ViolationTypeDutyTime))

	overLimit := detect(t,
		at(model.DutyStatusOnDutyNotDriving, 0, 0),
		at(model.DutyStatusOffDuty, 14, 1),
	)
	assert.True(t, hasType(overLimit, model.ViolationTypeDutyTime))
}

func TestDetectViolations_FragmentedRestTriggersRestBreak(t *testing.T) {
	// Three separate 4-hour off-duty periods sum to 12 hours but no single
	// run reaches 10; the aggregated total must not mask this.
	violations := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusOnDutyNotDriving, 4, 0),
		at(model.DutyStatusOffDuty, 6, 0),
		at(model.DutyStatusOnDutyNotDriving, 10, 0),
		at(model.DutyStatusOffDuty, 12, 0),
		at(model.DutyStatusOnDutyNotDriving, 16, 0),
		at(model.DutyStatusOffDuty, 18, 0),
	)

	assert.True(t, hasType(violations, model.ViolationTypeRestBreak))
}

func TestDetectViolations_ContinuousTenHourRestPasses(t *testing.T) {
	violations := detect(t,
		at(model.DutyStatusOnDutyNotDriving, 0, 0),
		at(model.DutyStatusOffDuty, 2, 0),
		at(model.DutyStatusOnDutyNotDriving, 12, 0), // closes a 600-minute run
		at(model.DutyStatusOffDuty, 14, 0),
	)

	assert.False(t, hasType(violations, model.ViolationTypeRestBreak))
}

func TestDetectViolations_SleeperBerthCountsAsRest(t *testing.T) {
	// A run mixing OFF_DUTY and SLEEPER_BERTH is one contiguous rest period.
	violations := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusSleeperBerth, 3, 0),
		at(model.DutyStatusOffDuty, 8, 0),
		at(model.DutyStatusDriving, 10, 30),
		at(model.DutyStatusOffDuty, 12, 0),
	)

	assert.False(t, hasType(violations, model.ViolationTypeRestBreak))
}

func TestDetectViolations_UninterruptedRestIsCompliant(t *testing.T) {
	// An off-duty run spanning the whole day never closes; there is no
	// evidence of a missed break.
	violations := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusSleeperBerth, 12, 0),
		at(model.DutyStatusOffDuty, 23, 0),
	)

	assert.Empty(t, violations)
}

func TestDetectViolations_NoRestFoundIsCompliant(t *testing.T) {
	violations := detect(t,
		at(model.DutyStatusOnDutyNotDriving, 6, 0),
		at(model.DutyStatusOnDutyNotDriving, 10, 0),
	)

	assert.False(t, hasType(violations, model.ViolationTypeRestBreak))
}

func TestDetectViolations_ExactElevenHourDayCompliant(t *testing.T) {
	// Drive 10:00-21:00 is exactly 11 hours and the 00:00-10:00 off-duty
	// run is exactly 10 hours: fully compliant on both rules.
	violations := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusDriving, 10, 0),
		at(model.DutyStatusOffDuty, 21, 0),
	)

	assert.Empty(t, violations)
}

func TestDetectViolations_MultipleSimultaneous(t *testing.T) {
	// 15 hours of driving breaks the drive limit, the duty window and the
	// rest-break rule at once.
	violations := detect(t,
		at(model.DutyStatusOffDuty, 0, 0),
		at(model.DutyStatusDriving, 2, 0),
		at(model.DutyStatusOffDuty, 17, 0),
		at(model.DutyStatusOnDutyNotDriving, 23, 0),
	)

	assert.True(t, hasType(violations, model.ViolationTypeDriveTime))
	assert.True(t, hasType(violations, model.ViolationTypeDutyTime))
	assert.True(t, hasType(violations, model.ViolationTypeRestBreak))
	assert.Len(t, violations, 3)
}
