package services

import (
	"fmt"

	"github.com/kendall-kelly/maker-orders-api/models"
	"gorm.io/gorm"
)

// Notification types written by the routing trigger
const (
	NotificationTypeRoutedToYou  = "routed_to_you"
	NotificationTypeSampleUpdate = "sample_update"
)

// ShouldNotifyRouting reports whether a routing change on this line counts
// as new work for the receiving party. This must agree with the tab
// classifier: a line at or past a production-stage status never lands in an
// action queue, so it triggers no notification either.
func ShouldNotifyRouting(p *models.OrderProduct) bool {
	if p == nil {
		return false
	}
	owner := models.Classify(p.RoutedTo, p.ProductStatus)
	return owner == models.OwnerAdmin || owner == models.OwnerManufacturer || owner == models.OwnerClient
}

// NotificationService creates and queries routing notifications
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a notification service over the given database
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyRouted records a notification for the party now holding the line.
// recipientID is the user on the receiving side. No-op when the line is not
// actionable by anyone (production-stage statuses).
func (s *NotificationService) NotifyRouted(order *models.Order, product *models.OrderProduct, recipientID uint) error {
	if !ShouldNotifyRouting(product) {
		return nil
	}

	message := fmt.Sprintf("Order %s: product %s is now with you",
		order.OrderNumber, product.ProductOrderNumber)

	notification := models.Notification{
		RecipientID:    recipientID,
		OrderID:        order.ID,
		OrderProductID: &product.ID,
		Type:           NotificationTypeRoutedToYou,
		Message:        message,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification for order %d: %w", order.ID, err)
	}

	// The manufacturer badge is driven by its own table so the unread count
	// survives user-level notification cleanup.
	if product.RoutedTo == models.RoutedToManufacturer && order.ManufacturerID != nil {
		mn := models.ManufacturerNotification{
			ManufacturerID: *order.ManufacturerID,
			OrderID:        order.ID,
			OrderProductID: &product.ID,
			Type:           NotificationTypeRoutedToYou,
			Message:        message,
		}
		if err := s.db.Create(&mn).Error; err != nil {
			return fmt.Errorf("create manufacturer notification for order %d: %w", order.ID, err)
		}
	}

	return nil
}

// UnreadManufacturerCount returns the unread badge count for one manufacturer
func (s *NotificationService) UnreadManufacturerCount(manufacturerID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.ManufacturerNotification{}).
		Where("manufacturer_id = ? AND read = ?", manufacturerID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications for manufacturer %d: %w", manufacturerID, err)
	}
	return count, nil
}

// MarkManufacturerOrderRead clears the unread flag for one order's
// notifications, called when the manufacturer opens the order
func (s *NotificationService) MarkManufacturerOrderRead(manufacturerID, orderID uint) error {
	err := s.db.Model(&models.ManufacturerNotification{}).
		Where("manufacturer_id = ? AND order_id = ?", manufacturerID, orderID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("mark notifications read for order %d: %w", orderID, err)
	}
	return nil
}
