package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DutyStatus string

const (
	DutyStatusOffDuty          DutyStatus = "OFF_DUTY"
	DutyStatusSleeperBerth     DutyStatus = "SLEEPER_BERTH"
	DutyStatusDriving          DutyStatus = "DRIVING"
	DutyStatusOnDutyNotDriving DutyStatus = "ON_DUTY_NOT_DRIVING"
)

// ParseDutyStatus validates a raw status value from the ingestion boundary.
// The core assumes a closed enumeration, so anything unknown is rejected here.
func ParseDutyStatus(raw string) (DutyStatus, error) {
	status := DutyStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case DutyStatusOffDuty, DutyStatusSleeperBerth, DutyStatusDriving, DutyStatusOnDutyNotDriving:
		return status, nil
	default:
		return "", fmt.Errorf("unknown duty status %q", raw)
	}
}

// IsRest reports whether the status counts as rest for the 10-hour break rule.
func (s DutyStatus) IsRest() bool {
	return s == DutyStatusOffDuty || s == DutyStatusSleeperBerth
}

// DutyStatusEvent is one duty-status change. A single event carries no
// duration; duration comes from the interval to the next event in timestamp
// order.
type DutyStatusEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DailyLogID  uuid.UUID  `gorm:"type:uuid;not null" json:"daily_log_id"`
	Status      DutyStatus `gorm:"type:duty_status;not null" json:"status"`
	Timestamp   time.Time  `gorm:"not null" json:"timestamp"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Address     *string    `gorm:"type:text" json:"address,omitempty"`
	Odometer    *float64   `json:"odometer,omitempty"`
	EngineHours *float64   `json:"engine_hours,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	// Audit metadata for manually corrected entries. OriginalTimestamp is
	// provenance and is never overwritten once set.
	EditedBy          *uuid.UUID `gorm:"type:uuid" json:"edited_by,omitempty"`
	EditReason        *string    `gorm:"type:text" json:"edit_reason,omitempty"`
	OriginalTimestamp *time.Time `json:"original_timestamp,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DutyStatusEvent) TableName() string {
	return "duty_status_events"
}

func (e *DutyStatusEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Edited reports whether the event was retroactively altered.
func (e DutyStatusEvent) Edited() bool {
	return e.EditReason != nil && strings.TrimSpace(*e.EditReason) != ""
}
