package hos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hos-service/internal/hos"
	"hos-service/internal/model"
)

func TestBuildComplianceReport_NoLogs(t *testing.T) {
	report := hos.BuildComplianceReport(nil)

	assert.Equal(t, 0, report.TotalLogs)
	assert.Equal(t, float64(0), report.ComplianceRate)
	assert.Equal(t, float64(0), report.CertificationRate)
	assert.Equal(t, float64(0), report.AvgDriveTime)
}

func TestBuildComplianceReport_Aggregates(t *testing.T) {
	logs := []model.DailyLog{
		{
			TotalDriveTime: 600,
			TotalDutyTime:  720,
			Certified:      true,
		},
		{
			TotalDriveTime: 660,
			TotalDutyTime:  780,
			HasViolations:  true,
			Violations: []model.HOSViolation{
				{Type: model.ViolationTypeDriveTime},
				{Type: model.ViolationTypeRestBreak},
			},
			Certified: true,
		},
		{
			TotalDriveTime: 300,
			TotalDutyTime:  400,
		},
	}

	report := hos.BuildComplianceReport(logs)

	assert.Equal(t, 3, report.TotalLogs)
	assert.Equal(t, 1, report.LogsWithViolations)
	assert.Equal(t, 2, report.TotalViolations)
	assert.Equal(t, 2, report.CertifiedLogs)
	assert.InDelta(t, 66.7, report.ComplianceRate, 0.001)
	assert.InDelta(t, 66.7, report.CertificationRate, 0.001)
	// (600+660+300)/3 = 520 minutes = 8.666h -> 8.7
	assert.InDelta(t, 8.7, report.AvgDriveTime, 0.001)
	// (720+780+400)/3 = 633.3 minutes = 10.55h -> 10.6
	assert.InDelta(t, 10.6, report.AvgDutyTime, 0.001)
}

func TestBuildComplianceReport_DoesNotMutateInput(t *testing.T) {
	logs := []model.DailyLog{{TotalDriveTime: 100, TotalDutyTime: 200}}

	hos.BuildComplianceReport(logs)

	assert.Equal(t, 100, logs[0].TotalDriveTime)
	assert.Equal(t, 200, logs[0].TotalDutyTime)
}
