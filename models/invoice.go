package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusFinal = "final"
	InvoiceStatusPaid  = "paid"
)

// Invoice is a client-facing invoice generated for an order
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderID       uint           `gorm:"not null;index" json:"order_id"`
	InvoiceNumber string         `gorm:"uniqueIndex;not null" json:"invoice_number"`
	Status        string         `gorm:"not null;default:'draft'" json:"status"`
	Total         float64        `gorm:"not null;default:0" json:"total"`
	IssuedAt      *time.Time     `json:"issued_at"`
	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a billed line on an invoice, referencing the order product
// it was priced from
type InvoiceItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	InvoiceID      uint    `gorm:"not null;index" json:"invoice_id"`
	OrderProductID *uint   `gorm:"index" json:"order_product_id"`
	Description    string  `json:"description"`
	Quantity       int     `gorm:"not null;default:0" json:"quantity"`
	UnitPrice      float64 `gorm:"not null;default:0" json:"unit_price"`
	Amount         float64 `gorm:"not null;default:0" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
