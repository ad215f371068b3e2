package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. "super_admin" is treated identically to "admin" everywhere in
// the classification and pricing code; back-office tooling distinguishes them
// for permission management only.
const (
	RoleAdmin        = "admin"
	RoleSuperAdmin   = "super_admin"
	RoleManufacturer = "manufacturer"
	RoleClient       = "client"
)

// User represents a user in the system (back-office admin, manufacturer
// staff, or client contact)
type User struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Auth0ID string `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Role    string `gorm:"not null;default:'client'" json:"role"` // admin, super_admin, manufacturer, client

	// Company links scope order visibility for non-admin users
	ManufacturerID *uint `gorm:"index" json:"manufacturer_id,omitempty"`
	ClientID       *uint `gorm:"index" json:"client_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdminClass returns true for the admin and super_admin roles
func (u *User) IsAdminClass() bool {
	return IsAdminRole(u.Role)
}

// IsManufacturer returns true for the manufacturer role
func (u *User) IsManufacturer() bool {
	return u.Role == RoleManufacturer
}

// IsClient returns true for the client role
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsAdminRole reports whether a bare role tag is admin-class.
// Classification and pricing entry points take role tags rather than users,
// so the string form is needed alongside the method.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// IsValidRole reports whether a role tag is one the API accepts
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleManufacturer, RoleClient:
		return true
	}
	return false
}
