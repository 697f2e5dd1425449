package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleDispatcher UserRole = "DISPATCHER"
	UserRoleDriver     UserRole = "DRIVER"
)

type Principal struct {
	UserID   uuid.UUID
	Role     UserRole
	DriverID *uuid.UUID
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsDispatcher() bool {
	return p.Role == UserRoleDispatcher
}

func (p Principal) IsDriver() bool {
	return p.Role == UserRoleDriver
}

// CanReview reports whether this user may approve, reject or reopen logs.
func (p Principal) CanReview() bool {
	return p.IsAdmin() || p.IsDispatcher()
}

// OwnsDriver reports whether the principal is the driver with the given id.
func (p Principal) OwnsDriver(driverID uuid.UUID) bool {
	return p.IsDriver() && p.DriverID != nil && *p.DriverID == driverID
}
