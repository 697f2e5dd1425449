package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LogStatus string

const (
	LogStatusDraft          LogStatus = "DRAFT"
	LogStatusSubmitted      LogStatus = "SUBMITTED"
	LogStatusApproved       LogStatus = "APPROVED"
	LogStatusRejected       LogStatus = "REJECTED"
	LogStatusRequiresReview LogStatus = "REQUIRES_REVIEW"
)

// Terminal reports whether the workflow allows no further reviewer action.
func (s LogStatus) Terminal() bool {
	return s == LogStatusApproved || s == LogStatusRejected
}

// DailyLog is one driver's hours-of-service record for one calendar day.
// Identity is (driver_id, log_date), unique and immutable once created.
// All Total* fields, HasViolations, TotalMiles and TotalEngineHours are
// derived; they are refreshed by the compliance pipeline on every mutation
// of the event stream or the odometer/engine-hour bounds and are never set
// directly.
type DailyLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DriverID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_daily_logs_driver_date" json:"driver_id"`
	LogDate  time.Time `gorm:"type:date;not null;uniqueIndex:uniq_daily_logs_driver_date" json:"log_date"`

	Status LogStatus `gorm:"type:log_status;not null;default:'DRAFT'" json:"status"`

	// Duration totals in whole minutes.
	TotalDriveTime   int `gorm:"not null;default:0" json:"total_drive_time"`
	TotalDutyTime    int `gorm:"not null;default:0" json:"total_duty_time"`
	TotalOnDutyTime  int `gorm:"not null;default:0" json:"total_on_duty_time"`
	TotalOffDutyTime int `gorm:"not null;default:0" json:"total_off_duty_time"`

	HasViolations bool `gorm:"not null;default:false" json:"has_violations"`

	// Driver self-certification, orthogonal to reviewer approval.
	Certified   bool       `gorm:"not null;default:false" json:"certified"`
	CertifiedAt *time.Time `json:"certified_at,omitempty"`
	CertifiedBy *uuid.UUID `gorm:"type:uuid" json:"certified_by,omitempty"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	StartOdometer    *float64 `json:"start_odometer,omitempty"`
	EndOdometer      *float64 `json:"end_odometer,omitempty"`
	TotalMiles       float64  `gorm:"not null;default:0" json:"total_miles"`
	StartEngineHours *float64 `json:"start_engine_hours,omitempty"`
	EndEngineHours   *float64 `json:"end_engine_hours,omitempty"`
	TotalEngineHours float64  `gorm:"not null;default:0" json:"total_engine_hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Events     []DutyStatusEvent `gorm:"foreignKey:DailyLogID" json:"duty_status_changes"`
	Violations []HOSViolation    `gorm:"foreignKey:DailyLogID" json:"violations"`
	Driver     *Driver           `gorm:"foreignKey:DriverID" json:"-"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

func (l *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// OpenViolations counts violations not yet marked resolved.
func (l DailyLog) OpenViolations() int {
	open := 0
	for _, v := range l.Violations {
		if !v.Resolved {
			open++
		}
	}
	return open
}
