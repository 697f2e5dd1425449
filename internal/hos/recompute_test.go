package hos_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-service/internal/hos"
	"hos-service/internal/model"
)

func TestRecompute_RefreshesDerivedFields(t *testing.T) {
	log := &model.DailyLog{
		ID: uuid.New(),
		Events: []model.DutyStatusEvent{
			at(model.DutyStatusOffDuty, 0, 0),
			at(model.DutyStatusDriving, 8, 0),
			at(model.DutyStatusOffDuty, 20, 0),
		},
	}

	hos.Recompute(log)

	assert.Equal(t, 720, log.TotalDriveTime)
	assert.Equal(t, 720, log.TotalDutyTime)
	assert.Equal(t, 720, log.TotalOnDutyTime)
	assert.Equal(t, 480, log.TotalOffDutyTime)
	require.True(t, log.HasViolations)
	for _, v := range log.Violations {
		assert.Equal(t, log.ID, v.DailyLogID)
	}
}

func TestRecompute_ReplacesStaleViolations(t *testing.T) {
	// A previous detection pass left a violation; after the events change
	// to a compliant day the set is fully replaced, not patched.
	log := &model.DailyLog{
		ID:            uuid.New(),
		HasViolations: true,
		Violations: []model.HOSViolation{
			{Type: model.ViolationTypeDriveTime, Severity: model.ViolationSeverityViolation},
		},
		Events: []model.DutyStatusEvent{
			at(model.DutyStatusOffDuty, 0, 0),
			at(model.DutyStatusDriving, 10, 0),
			at(model.DutyStatusOffDuty, 15, 0),
		},
	}

	hos.Recompute(log)

	assert.Empty(t, log.Violations)
	assert.False(t, log.HasViolations)
}

func TestRecompute_EmptyEventList(t *testing.T) {
	log := &model.DailyLog{ID: uuid.New()}

	hos.Recompute(log)

	assert.Zero(t, log.TotalDriveTime)
	assert.Zero(t, log.TotalDutyTime)
	assert.Zero(t, log.TotalOnDutyTime)
	assert.Zero(t, log.TotalOffDutyTime)
	assert.False(t, log.HasViolations)
	assert.Empty(t, log.Violations)
}

func TestRecompute_OdometerAndEngineDeltas(t *testing.T) {
	start, end := 120400.5, 120712.3
	engStart, engEnd := 5000.0, 5009.5
	log := &model.DailyLog{
		ID:               uuid.New(),
		StartOdometer:    &start,
		EndOdometer:      &end,
		StartEngineHours: &engStart,
		EndEngineHours:   &engEnd,
	}

	hos.Recompute(log)

	assert.InDelta(t, 311.8, log.TotalMiles, 0.001)
	assert.InDelta(t, 9.5, log.TotalEngineHours, 0.001)
}

func TestRecompute_MissingOrInvertedBoundsYieldZero(t *testing.T) {
	start, end := 500.0, 400.0
	log := &model.DailyLog{ID: uuid.New(), StartOdometer: &start, EndOdometer: &end}

	hos.Recompute(log)

	assert.Zero(t, log.TotalMiles)
	assert.Zero(t, log.TotalEngineHours)
}
