package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderMedia is an uploaded attachment stored in S3, linked at order level
// or (when OrderProductID is set) at line level
type OrderMedia struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderID        uint           `gorm:"not null;index" json:"order_id"`
	OrderProductID *uint          `gorm:"index" json:"order_product_id"`
	S3Key          string         `gorm:"not null" json:"s3_key"`
	FileName       string         `json:"file_name"`
	URL            *string        `gorm:"-" json:"url,omitempty"` // computed, presigned
	UploadedByID   uint           `gorm:"index" json:"uploaded_by_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderMedia model
func (OrderMedia) TableName() string {
	return "order_media"
}

// Notification is a generic in-app notification keyed to an order and
// optionally to one of its lines
type Notification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RecipientID    uint      `gorm:"not null;index" json:"recipient_id"` // user the notification is for
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	OrderProductID *uint     `gorm:"index" json:"order_product_id"`
	Type           string    `gorm:"not null" json:"type"` // e.g. routed_to_you, sample_update
	Message        string    `gorm:"type:text" json:"message"`
	Read           bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// ManufacturerNotification drives the manufacturer-side unread badge; rows
// are written per routing event and cleared when the manufacturer opens the
// order
type ManufacturerNotification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ManufacturerID uint      `gorm:"not null;index" json:"manufacturer_id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	OrderProductID *uint     `gorm:"index" json:"order_product_id"`
	Type           string    `gorm:"not null" json:"type"`
	Message        string    `gorm:"type:text" json:"message"`
	Read           bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ManufacturerNotification model
func (ManufacturerNotification) TableName() string {
	return "manufacturer_notifications"
}

// WorkflowLog is an audit entry for a status or routing transition, keyed by
// order id and optionally by line id
type WorkflowLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	OrderProductID *uint     `gorm:"index" json:"order_product_id"`
	ActorID        *uint     `json:"actor_id"`
	Action         string    `gorm:"not null" json:"action"`
	Detail         string    `gorm:"type:text" json:"detail"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the WorkflowLog model
func (WorkflowLog) TableName() string {
	return "workflow_logs"
}

// OrderMargin records the admin-side margin snapshot for an order
type OrderMargin struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	MarginPercent float64   `gorm:"not null;default:0" json:"margin_percent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderMargin model
func (OrderMargin) TableName() string {
	return "order_margins"
}

// BackupOrderNumber preserves the pre-submission number when a draft is
// promoted and renumbered
type BackupOrderNumber struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	OrderNumber string    `gorm:"not null" json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the BackupOrderNumber model
func (BackupOrderNumber) TableName() string {
	return "backup_order_numbers"
}

// ClientAdminNote is a private admin note about an order, never shown to the
// manufacturer or client
type ClientAdminNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	AuthorID  uint      `gorm:"index" json:"author_id"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ClientAdminNote model
func (ClientAdminNote) TableName() string {
	return "client_admin_notes"
}
