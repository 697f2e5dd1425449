package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViolationType string

const (
	ViolationTypeDriveTime   ViolationType = "DRIVE_TIME"
	ViolationTypeDutyTime    ViolationType = "DUTY_TIME"
	ViolationTypeRestBreak   ViolationType = "REST_BREAK"
	ViolationTypeCycleTime   ViolationType = "CYCLE_TIME"
	ViolationTypeFormManner  ViolationType = "FORM_MANNER"
	ViolationTypeMalfunction ViolationType = "MALFUNCTION"
)

type ViolationSeverity string

const (
	ViolationSeverityWarning   ViolationSeverity = "WARNING"
	ViolationSeverityViolation ViolationSeverity = "VIOLATION"
	ViolationSeverityCritical  ViolationSeverity = "CRITICAL"
)

// HOSViolation is a detected breach of an hours-of-service rule for one
// daily log. The set is recomputed from scratch on every mutation of the
// event stream; a resolved violation stays on the record for audit but is
// excluded from open counts.
type HOSViolation struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DailyLogID  uuid.UUID         `gorm:"type:uuid;not null" json:"daily_log_id"`
	Type        ViolationType     `gorm:"type:hos_violation_type;not null" json:"violation_type"`
	Severity    ViolationSeverity `gorm:"type:hos_violation_severity;not null" json:"severity"`
	Description string            `gorm:"type:text" json:"description"`
	Resolved    bool              `gorm:"not null;default:false" json:"resolved"`
	ResolvedBy  *uuid.UUID        `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (HOSViolation) TableName() string {
	return "hos_violations"
}

func (v *HOSViolation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
