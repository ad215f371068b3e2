package models

import (
	"time"

	"gorm.io/gorm"
)

// Per-line production statuses. approved_for_production and
// ready_for_production are synonyms written by different revisions of the
// transition flow; both must be accepted wherever either is.
const (
	ProductStatusPending               = "pending"
	ProductStatusSentToManufacturer    = "sent_to_manufacturer"
	ProductStatusApprovedForProduction = "approved_for_production"
	ProductStatusReadyForProduction    = "ready_for_production"
	ProductStatusInProduction          = "in_production"
	ProductStatusShipped               = "shipped"
	ProductStatusCompleted             = "completed"
	ProductStatusQuestionForAdmin      = "question_for_admin"
	ProductStatusClientReview          = "client_review"
)

// Shipping methods
const (
	ShippingMethodAir  = "air"
	ShippingMethodBoat = "boat"
)

// OrderProduct is a line item within an order. RoutedTo and ProductStatus
// are independent axes: RoutedTo says which party currently holds the line
// for action, ProductStatus says where it is in the production lifecycle.
// Once a line reaches approved_for_production the routing axis stops
// driving the action queues.
type OrderProduct struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	OrderID            uint    `gorm:"not null;index" json:"order_id"`
	ProductOrderNumber string  `gorm:"not null" json:"product_order_number"` // generated per line
	Description        string  `json:"description"`
	CatalogProductID   *uint   `gorm:"index" json:"catalog_product_id"`
	RoutedTo           string  `gorm:"not null;default:'admin';index" json:"routed_to"` // admin, manufacturer, client
	ProductStatus      string  `gorm:"not null;default:'pending';index" json:"product_status"`

	// Pricing. Cost prices are what the manufacturer charges; client prices
	// are what the client is billed. All nullable, absent means zero.
	ProductPrice            *float64 `json:"product_price"`        // manufacturer cost per unit
	ClientProductPrice      *float64 `json:"client_product_price"` // client-facing per unit
	SampleFee               *float64 `json:"sample_fee"`
	AirShippingPrice        *float64 `json:"air_shipping_price"`
	ClientAirShippingPrice  *float64 `json:"client_air_shipping_price"`
	BoatShippingPrice       *float64 `json:"boat_shipping_price"`
	ClientBoatShippingPrice *float64 `json:"client_boat_shipping_price"`

	SelectedShippingMethod *string    `json:"selected_shipping_method"` // air, boat, or nil
	EstimatedShipDate      *time.Time `json:"estimated_ship_date"`
	SampleStatus           *string    `json:"sample_status"` // line-level mirror of the order sample flow
	RoutedAt               *time.Time `json:"routed_at"`     // when the line last changed hands

	Items []OrderItem `gorm:"foreignKey:OrderProductID" json:"items"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderProduct model
func (OrderProduct) TableName() string {
	return "order_products"
}

// TotalQuantity sums the quantity across the line's variant rows
func (p *OrderProduct) TotalQuantity() int {
	total := 0
	for _, item := range p.Items {
		total += item.Quantity
	}
	return total
}

// OrderItem is a variant/quantity row under an order product
type OrderItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderProductID uint   `gorm:"not null;index" json:"order_product_id"`
	VariantLabel   string `json:"variant_label"` // e.g. size or color code
	Quantity       int    `gorm:"not null;default:0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// ActionOwner is the party a routing/status combination actually puts on
// the hook, once the two axes are reconciled.
type ActionOwner string

const (
	// OwnerAdmin, OwnerManufacturer, OwnerClient: the named party holds the
	// next action.
	OwnerAdmin        ActionOwner = "admin"
	OwnerManufacturer ActionOwner = "manufacturer"
	OwnerClient       ActionOwner = "client"
	// OwnerProduction: the line is at or past approved_for_production;
	// routing no longer assigns action ownership.
	OwnerProduction ActionOwner = "production"
	// OwnerInvalid: the combination is representable but not one any
	// transition flow writes; callers should surface it rather than guess.
	OwnerInvalid ActionOwner = "invalid"
)

// preProductionStatuses are the statuses under which routing still drives
// the action queues.
var preProductionStatuses = map[string]bool{
	ProductStatusPending:            true,
	ProductStatusSentToManufacturer: true,
	ProductStatusQuestionForAdmin:   true,
	ProductStatusClientReview:       true,
}

// productionStatuses are the statuses at or past approved_for_production.
var productionStatuses = map[string]bool{
	ProductStatusApprovedForProduction: true,
	ProductStatusReadyForProduction:    true,
	ProductStatusInProduction:          true,
	ProductStatusShipped:               true,
	ProductStatusCompleted:             true,
}

// Classify resolves a (routing, status) pair to the party that owns the next
// action. Unknown statuses and unknown routing targets classify as
// OwnerInvalid so illegal combinations are flagged instead of being absorbed
// by exclusion lists at every call site.
func Classify(routedTo, productStatus string) ActionOwner {
	if productionStatuses[productStatus] {
		return OwnerProduction
	}
	if !preProductionStatuses[productStatus] {
		return OwnerInvalid
	}
	switch routedTo {
	case RoutedToAdmin:
		return OwnerAdmin
	case RoutedToManufacturer:
		return OwnerManufacturer
	case RoutedToClient:
		return OwnerClient
	}
	return OwnerInvalid
}

// InProductionOrBeyond reports whether a product status is at or past
// approved_for_production. Lines past this point leave the my_orders and
// sent_to_other queues for every viewer.
func InProductionOrBeyond(productStatus string) bool {
	return productionStatuses[productStatus]
}
