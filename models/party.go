package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents the ordering company on whose behalf orders are placed
type Client struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CompanyName string         `gorm:"not null" json:"company_name"`
	ContactName string         `json:"contact_name"`
	Email       string         `gorm:"index" json:"email"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// Manufacturer represents a production partner. ShipThresholdDays configures
// the ready-to-ship window for this manufacturer's queue; nil means the
// default applies.
type Manufacturer struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CompanyName        string         `gorm:"not null" json:"company_name"`
	ContactName        string         `json:"contact_name"`
	Email              string         `gorm:"index" json:"email"`
	ShipThresholdDays  *int           `json:"ship_threshold_days"`           // nullable, default 3 when unset
	ShipThresholdLabel *string        `json:"ship_threshold_label,omitempty"` // display label for the ready-to-ship tab
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Manufacturer model
func (Manufacturer) TableName() string {
	return "manufacturers"
}
