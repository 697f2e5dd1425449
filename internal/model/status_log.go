package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogStatusLog is the audit trail of approval-workflow transitions on a
// daily log. Rows are append-only.
type LogStatusLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DailyLogID uuid.UUID  `gorm:"type:uuid;not null" json:"daily_log_id"`
	OldStatus  *LogStatus `gorm:"type:log_status" json:"old_status"`
	NewStatus  LogStatus  `gorm:"type:log_status;not null" json:"new_status"`
	Note       string     `gorm:"type:text" json:"note"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid" json:"changed_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LogStatusLog) TableName() string {
	return "daily_log_status_log"
}

func (l *LogStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
