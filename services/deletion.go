package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kendall-kelly/maker-orders-api/models"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when the order to delete does not exist
var ErrOrderNotFound = errors.New("order not found")

// FatalDeletionError is a deletion failure that aborts the orchestration.
// ForeignKey distinguishes "related records still exist" from other causes
// so the API can report it separately.
type FatalDeletionError struct {
	Table      string
	ForeignKey bool
	Cause      error
}

func (e *FatalDeletionError) Error() string {
	if e.ForeignKey {
		return fmt.Sprintf("delete %s: related records still exist: %v", e.Table, e.Cause)
	}
	return fmt.Sprintf("delete %s: %v", e.Table, e.Cause)
}

func (e *FatalDeletionError) Unwrap() error {
	return e.Cause
}

// TableOutcome records the result of one deletion step
type TableOutcome struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	Error string `json:"error,omitempty"`
}

// DeletionResult collects per-table outcomes so callers can surface partial
// failure detail instead of a bare error
type DeletionResult struct {
	OrderID  uint           `json:"order_id"`
	Outcomes []TableOutcome `json:"outcomes"`
}

// DeletionService tears down an order and every dependent record across the
// related tables, in dependency order. Callers must serialize deletions of
// the same order; the service itself runs one ordered pass.
type DeletionService struct {
	db    *gorm.DB
	media MediaService // nil-able; when set, stored media objects are removed best-effort
}

// NewDeletionService creates a deletion service over the given database
func NewDeletionService(db *gorm.DB, media MediaService) *DeletionService {
	return &DeletionService{db: db, media: media}
}

// isForeignKeyError detects a foreign key violation across the drivers in
// use (postgres in production, sqlite in tests)
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}

// record appends an outcome and logs tolerated failures
func (r *DeletionResult) record(table string, rows int64, err error) {
	outcome := TableOutcome{Table: table, Rows: rows}
	if err != nil {
		outcome.Error = err.Error()
		log.Printf("order %d: tolerated failure deleting %s: %v", r.OrderID, table, err)
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// DeleteOrder removes the order and all dependent records.
//
// Ordering is load-bearing: invoice items and invoices first, then the
// best-effort auxiliary tables, then order products, then the order row.
// Auxiliary failures are collected and tolerated because those tables do not
// block the final delete in every deployment; a failure deleting invoice
// items, invoices, order products, or the order itself aborts with a
// FatalDeletionError and the order row stays intact.
func (s *DeletionService) DeleteOrder(orderID uint) (*DeletionResult, error) {
	result := &DeletionResult{OrderID: orderID}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrOrderNotFound
		}
		return result, fmt.Errorf("load order %d: %w", orderID, err)
	}

	// Step 1: resolve the order's line-item ids.
	var productIDs []uint
	if err := s.db.Model(&models.OrderProduct{}).Where("order_id = ?", orderID).Pluck("id", &productIDs).Error; err != nil {
		return result, fmt.Errorf("resolve order products for order %d: %w", orderID, err)
	}

	// Step 2: resolve invoice ids.
	var invoiceIDs []uint
	if err := s.db.Model(&models.Invoice{}).Where("order_id = ?", orderID).Pluck("id", &invoiceIDs).Error; err != nil {
		return result, fmt.Errorf("resolve invoices for order %d: %w", orderID, err)
	}

	// Steps 3-4: invoice items then invoices. Structural; failure aborts.
	// The step is recorded even when there is nothing to delete so the
	// outcome ledger always reflects the same ordered pass.
	if len(invoiceIDs) > 0 {
		tx := s.db.Unscoped().Where("invoice_id IN ?", invoiceIDs).Delete(&models.InvoiceItem{})
		if tx.Error != nil {
			return result, &FatalDeletionError{Table: "invoice_items", ForeignKey: isForeignKeyError(tx.Error), Cause: tx.Error}
		}
		result.record("invoice_items", tx.RowsAffected, nil)
	} else {
		result.record("invoice_items", 0, nil)
	}
	tx := s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.Invoice{})
	if tx.Error != nil {
		return result, &FatalDeletionError{Table: "invoices", ForeignKey: isForeignKeyError(tx.Error), Cause: tx.Error}
	}
	result.record("invoices", tx.RowsAffected, nil)

	// Step 5: best-effort auxiliary tables. Every deletion is attempted even
	// if an earlier one fails; outcomes are collected for the caller.
	s.deleteMediaObjects(orderID, result)
	s.auxDelete(result, "order_media",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.OrderMedia{}))
	if len(productIDs) > 0 {
		s.auxDelete(result, "order_media (line-level)",
			s.db.Unscoped().Where("order_product_id IN ?", productIDs).Delete(&models.OrderMedia{}))
		s.auxDelete(result, "order_items",
			s.db.Unscoped().Where("order_product_id IN ?", productIDs).Delete(&models.OrderItem{}))
		s.auxDelete(result, "workflow_logs (line-level)",
			s.db.Unscoped().Where("order_product_id IN ?", productIDs).Delete(&models.WorkflowLog{}))
	} else {
		result.record("order_media (line-level)", 0, nil)
		result.record("order_items", 0, nil)
		result.record("workflow_logs (line-level)", 0, nil)
	}
	s.auxDelete(result, "notifications",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.Notification{}))
	s.auxDelete(result, "manufacturer_notifications",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.ManufacturerNotification{}))
	s.auxDelete(result, "workflow_logs",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.WorkflowLog{}))
	s.auxDelete(result, "order_margins",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.OrderMargin{}))
	s.auxDelete(result, "backup_order_numbers",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.BackupOrderNumber{}))
	s.auxDelete(result, "client_admin_notes",
		s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.ClientAdminNote{}))

	// Step 6: line items. Structural; the order row delete would hit a
	// foreign key if any remained.
	tx = s.db.Unscoped().Where("order_id = ?", orderID).Delete(&models.OrderProduct{})
	if tx.Error != nil {
		return result, &FatalDeletionError{Table: "order_products", ForeignKey: isForeignKeyError(tx.Error), Cause: tx.Error}
	}
	result.record("order_products", tx.RowsAffected, nil)

	// Step 7: the order row. Fatal on failure; the order remains authoritative
	// for "does this order still exist".
	tx = s.db.Unscoped().Delete(&models.Order{}, orderID)
	if tx.Error != nil {
		return result, &FatalDeletionError{Table: "orders", ForeignKey: isForeignKeyError(tx.Error), Cause: tx.Error}
	}
	result.record("orders", tx.RowsAffected, nil)

	return result, nil
}

// auxDelete records a best-effort deletion outcome without aborting
func (s *DeletionService) auxDelete(result *DeletionResult, table string, tx *gorm.DB) {
	result.record(table, tx.RowsAffected, tx.Error)
}

// deleteMediaObjects removes the order's stored attachments from object
// storage. Best-effort: a storage failure never blocks the row deletions.
func (s *DeletionService) deleteMediaObjects(orderID uint, result *DeletionResult) {
	if s.media == nil {
		return
	}
	var keys []string
	if err := s.db.Model(&models.OrderMedia{}).Where("order_id = ?", orderID).Pluck("s3_key", &keys).Error; err != nil {
		result.record("order_media (storage)", 0, err)
		return
	}
	var removed int64
	var firstErr error
	for _, key := range keys {
		if err := s.media.DeleteMedia(key); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	result.record("order_media (storage)", removed, firstErr)
}
