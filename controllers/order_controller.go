package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/maker-orders-api/config"
	"github.com/kendall-kelly/maker-orders-api/middleware"
	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/kendall-kelly/maker-orders-api/services"
	"gorm.io/gorm"
)

// currentUser resolves the authenticated user's database row from the JWT
// subject. Role always comes from the row, never from the token.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// visibleOrders loads the orders the user may see, with client, manufacturer,
// products, and items preloaded. Manufacturers see only orders assigned to
// them; clients only their own. Visibility is applied before classification.
func visibleOrders(db *gorm.DB, user *models.User) ([]models.Order, error) {
	query := db.
		Preload("Client").
		Preload("Manufacturer").
		Preload("Products").
		Preload("Products.Items").
		Order("orders.created_at DESC")

	switch {
	case user.IsManufacturer():
		if user.ManufacturerID == nil {
			return []models.Order{}, nil
		}
		query = query.Where("manufacturer_id = ?", *user.ManufacturerID)
	case user.IsClient():
		if user.ClientID == nil {
			return []models.Order{}, nil
		}
		query = query.Where("client_id = ?", *user.ClientID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// shipThresholdFor resolves the ready-to-ship window for the viewing user
func shipThresholdFor(db *gorm.DB, user *models.User) int {
	if !user.IsManufacturer() || user.ManufacturerID == nil {
		return services.DefaultShipThresholdDays
	}
	var manufacturer models.Manufacturer
	if err := db.First(&manufacturer, *user.ManufacturerID).Error; err != nil {
		return services.DefaultShipThresholdDays
	}
	return services.ThresholdForManufacturer(&manufacturer)
}

// orderView is an order decorated with viewer-priced totals
type orderView struct {
	models.Order
	Total               float64    `json:"total"`
	Fees                float64    `json:"fees"`
	InvoiceReadySince   *time.Time `json:"invoice_ready_since,omitempty"`
	DaysAwaitingInvoice int        `json:"days_awaiting_invoice"`
}

func buildOrderView(o *models.Order, view services.PricingView, now time.Time) orderView {
	readySince := services.EarliestInvoiceReadyDate(o)
	return orderView{
		Order:               *o,
		Total:               services.CalculateOrderTotal(o, view),
		Fees:                services.CalculateOrderFees(o),
		InvoiceReadySince:   readySince,
		DaysAwaitingInvoice: services.DaysSinceInvoiceReady(readySince, now),
	}
}

// ListOrders handles GET /api/v1/orders?tab=&sub_tab=&q=
// Orders are filtered by visibility, then by tab membership for the caller's
// role, then by the free-text search query.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tab, tabOK := services.ParseTab(c.DefaultQuery("tab", string(services.TabMyOrders)))
	if !tabOK {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TAB",
				"message": "Unknown tab",
			},
		})
		return
	}
	subTab, _ := services.ParseSubTab(c.Query("sub_tab"))
	if tab == services.TabProductionStatus && subTab == "" {
		subTab = services.SubTabInProduction
	}

	db := config.GetDB()
	orders, err := visibleOrders(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	now := time.Now()
	threshold := shipThresholdFor(db, user)
	filtered := services.FilterOrders(orders, user.Role, tab, subTab, threshold, now)
	filtered = services.FilterBySearch(filtered, c.Query("q"))

	view := services.ViewForRole(user.Role)
	payload := make([]orderView, 0, len(filtered))
	for i := range filtered {
		payload = append(payload, buildOrderView(&filtered[i], view, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// GetTabCounts handles GET /api/v1/orders/tabs - badge counters for the
// caller's role
func GetTabCounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	orders, err := visibleOrders(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	counts := services.CountTabs(orders, user.Role, shipThresholdFor(db, user), time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, ok := loadVisibleOrder(c, db, user)
	if !ok {
		return
	}

	// Opening the order clears the manufacturer's unread badge for it.
	if user.IsManufacturer() && user.ManufacturerID != nil {
		notifications := services.NewNotificationService(db)
		if err := notifications.MarkManufacturerOrderRead(*user.ManufacturerID, order.ID); err != nil {
			// Badge bookkeeping only; the order payload is still served.
			c.Error(err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildOrderView(order, services.ViewForRole(user.Role), time.Now()),
	})
}

// loadVisibleOrder fetches one order and enforces the caller's visibility
func loadVisibleOrder(c *gin.Context, db *gorm.DB, user *models.User) (*models.Order, bool) {
	var order models.Order
	err := db.
		Preload("Client").
		Preload("Manufacturer").
		Preload("Products").
		Preload("Products.Items").
		First(&order, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return nil, false
	}

	allowed := user.IsAdminClass() ||
		(user.IsManufacturer() && user.ManufacturerID != nil && order.ManufacturerID != nil && *order.ManufacturerID == *user.ManufacturerID) ||
		(user.IsClient() && user.ClientID != nil && order.ClientID == *user.ClientID)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this order",
			},
		})
		return nil, false
	}

	return &order, true
}

// SetShipDateRequest represents the request body for assigning an estimated
// ship date to an order line
type SetShipDateRequest struct {
	EstimatedShipDate string `json:"estimated_ship_date" binding:"required"` // YYYY-MM-DD
}

// SetProductShipDate handles PATCH /api/v1/orders/:id/products/:productId/ship-date
// Manufacturers set ship dates on their own lines; admins may set any.
func SetProductShipDate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsAdminClass() && !user.IsManufacturer() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins and manufacturers can set ship dates",
			},
		})
		return
	}

	db := config.GetDB()
	order, ok := loadVisibleOrder(c, db, user)
	if !ok {
		return
	}

	var req SetShipDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	shipDate, err := time.Parse("2006-01-02", req.EstimatedShipDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "estimated_ship_date must be YYYY-MM-DD",
			},
		})
		return
	}

	var product models.OrderProduct
	if err := db.Where("id = ? AND order_id = ?", c.Param("productId"), order.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Order product not found",
			},
		})
		return
	}

	if err := db.Model(&product).Update("estimated_ship_date", shipDate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update ship date",
			},
		})
		return
	}

	product.EstimatedShipDate = &shipDate
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - admin only. Runs the full
// dependent-record teardown; on fatal failure the order remains intact and
// the partial outcome detail is returned.
func DeleteOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsAdminClass() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can delete orders",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	deletion := services.NewDeletionService(db, services.GetMediaService())
	result, err := deletion.DeleteOrder(order.ID)
	if err != nil {
		var fatal *services.FatalDeletionError
		if errors.As(err, &fatal) && fatal.ForeignKey {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RELATED_RECORDS_EXIST",
					"message": "Order could not be deleted because related records still exist",
					"details": result.Outcomes,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETION_FAILED",
				"message": "Failed to delete order",
				"details": result.Outcomes,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
