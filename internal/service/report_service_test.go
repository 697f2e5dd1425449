package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-service/internal/model"
	"hos-service/internal/service"
)

func TestReportService_BuildReport(t *testing.T) {
	store := newFakeStore()
	svc := service.NewReportService(store)

	clean := seedLog(store, uuid.New(), model.LogStatusApproved, nil)
	clean.TotalDriveTime = 480
	clean.TotalDutyTime = 600
	clean.Certified = true

	dirty := &model.DailyLog{
		ID:             uuid.New(),
		DriverID:       uuid.New(),
		LogDate:        testDay,
		Status:         model.LogStatusRequiresReview,
		TotalDriveTime: 720,
		TotalDutyTime:  900,
		HasViolations:  true,
		Violations: []model.HOSViolation{
			{Type: model.ViolationTypeDriveTime},
			{Type: model.ViolationTypeDutyTime},
		},
	}
	store.logs[dirty.ID] = dirty

	report, err := svc.BuildReport(context.Background(), dispatcherPrincipal(), service.ReportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalLogs)
	assert.Equal(t, 1, report.LogsWithViolations)
	assert.Equal(t, 2, report.TotalViolations)
	assert.InDelta(t, 50.0, report.ComplianceRate, 0.001)
	assert.Equal(t, 1, report.CertifiedLogs)
	assert.InDelta(t, 50.0, report.CertificationRate, 0.001)
	assert.InDelta(t, 10.0, report.AvgDriveTime, 0.001)
	assert.InDelta(t, 12.5, report.AvgDutyTime, 0.001)

	// The reporter reads the full result set, never a paged slice.
	assert.Equal(t, -1, store.lastFilter.Limit)
}

func TestReportService_BuildReport_DriverDenied(t *testing.T) {
	store := newFakeStore()
	svc := service.NewReportService(store)
	driverID := uuid.New()

	_, err := svc.BuildReport(context.Background(), driverPrincipal(driverID), service.ReportOptions{})

	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
