package hos

import (
	"math"

	"hos-service/internal/model"
)

// BuildComplianceReport aggregates a set of daily logs into fleet-wide
// statistics. It is read-only over its input. Zero logs produce a zero
// report, not a division error.
func BuildComplianceReport(logs []model.DailyLog) model.ComplianceReport {
	report := model.ComplianceReport{TotalLogs: len(logs)}
	if len(logs) == 0 {
		return report
	}

	var driveMinutes, dutyMinutes int
	for _, log := range logs {
		if log.HasViolations {
			report.LogsWithViolations++
		}
		report.TotalViolations += len(log.Violations)
		if log.Certified {
			report.CertifiedLogs++
		}
		driveMinutes += log.TotalDriveTime
		dutyMinutes += log.TotalDutyTime
	}

	total := float64(report.TotalLogs)
	report.ComplianceRate = round1(float64(report.TotalLogs-report.LogsWithViolations) / total * 100)
	report.CertificationRate = round1(float64(report.CertifiedLogs) / total * 100)
	report.AvgDriveTime = round1(float64(driveMinutes) / total / 60)
	report.AvgDutyTime = round1(float64(dutyMinutes) / total / 60)

	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
