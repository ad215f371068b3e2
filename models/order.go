package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle statuses. "in_progress" is the catch-all used by the newer
// creation flow; older orders carry one of the explicit stages.
const (
	OrderStatusDraft                   = "draft"
	OrderStatusSubmittedToManufacturer = "submitted_to_manufacturer"
	OrderStatusPricedByManufacturer    = "priced_by_manufacturer"
	OrderStatusSubmittedToClient       = "submitted_to_client"
	OrderStatusClientApproved          = "client_approved"
	OrderStatusReadyForProduction      = "ready_for_production"
	OrderStatusInProduction            = "in_production"
	OrderStatusCompleted               = "completed"
	OrderStatusInProgress              = "in_progress"
)

// Sample sub-workflow statuses (order-level, mirrored per line in some flows)
const (
	SampleStatusPending  = "pending"
	SampleStatusApproved = "approved"
	// SampleStatusSampleApproved is a synonym of approved written by an
	// older transition flow; readers must accept both.
	SampleStatusSampleApproved = "sample_approved"
	SampleStatusNoSample       = "no_sample"
)

// Parties a sample or order line can be routed to
const (
	RoutedToAdmin        = "admin"
	RoutedToManufacturer = "manufacturer"
	RoutedToClient       = "client"
)

// Order represents a manufacturing order moving between the back office, a
// manufacturer, and a client
type Order struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderNumber string  `gorm:"uniqueIndex;not null" json:"order_number"` // optionally prefixed DRAFT-
	OrderName   *string `json:"order_name"`                               // nullable free text
	Status      string  `gorm:"not null;default:'draft';index" json:"status"`

	// Sample sub-workflow. Parallel to the main lifecycle; active only when
	// SampleRequired is set and SampleStatus is neither no_sample nor empty.
	SampleRequired       bool    `gorm:"not null;default:false" json:"sample_required"`
	SampleRoutedTo       *string `json:"sample_routed_to"` // admin or manufacturer
	SampleStatus         *string `json:"sample_status"`
	SampleWorkflowStatus *string `json:"sample_workflow_status"`

	ClientID       uint          `gorm:"not null;index" json:"client_id"`
	Client         Client        `gorm:"foreignKey:ClientID" json:"client"`
	ManufacturerID *uint         `gorm:"index" json:"manufacturer_id"` // nullable for sub-manufacturer orders
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer,omitempty"`
	CreatedByID    uint          `gorm:"not null;index" json:"created_by_id"`
	CreatedBy      User          `gorm:"foreignKey:CreatedByID" json:"-"`

	Products []OrderProduct `gorm:"foreignKey:OrderID" json:"products"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsDraft reports whether the order still carries the draft number prefix
// or draft status
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft || strings.HasPrefix(o.OrderNumber, "DRAFT-")
}
