package model

import "github.com/google/uuid"

// Driver rows are owned by the fleet service; this service only reads them
// to decorate review-queue listings.
type Driver struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName      string    `gorm:"type:varchar(255)"`
	LicenseNumber string    `gorm:"type:varchar(64)"`
	Phone         string    `gorm:"type:varchar(32)"`
}

func (Driver) TableName() string {
	return "drivers"
}
