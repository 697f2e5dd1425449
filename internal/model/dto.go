package model

import (
	"time"

	"github.com/google/uuid"
)

type DriverBrief struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	LicenseNumber string    `json:"license_number"`
}

// DailyLogRecord is the outbound shape for the review UI: the full log plus
// denormalized bits the queue listing needs.
type DailyLogRecord struct {
	Log            DailyLog     `json:"log"`
	Driver         *DriverBrief `json:"driver"`
	OpenViolations int          `json:"open_violations"`
}

// DriverEventBatch is the inbound shape for event ingestion, from manual
// entry or the ELD provider adapter. Timestamps are assumed already
// normalized to a common zone by the producer.
type DriverEventBatch struct {
	DriverID uuid.UUID
	LogDate  time.Time
	Events   []DutyStatusEvent
}

// ComplianceReport is a fleet-wide aggregate over a set of daily logs.
// Averages are hours rounded to one decimal; rates are percentages.
type ComplianceReport struct {
	TotalLogs          int     `json:"total_logs"`
	LogsWithViolations int     `json:"logs_with_violations"`
	TotalViolations    int     `json:"total_violations"`
	ComplianceRate     float64 `json:"compliance_rate"`
	CertifiedLogs      int     `json:"certified_logs"`
	CertificationRate  float64 `json:"certification_rate"`
	AvgDriveTime       float64 `json:"avg_drive_time"`
	AvgDutyTime        float64 `json:"avg_duty_time"`
}
