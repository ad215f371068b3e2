package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/maker-orders-api/config"
	"github.com/kendall-kelly/maker-orders-api/services"
)

// GetUnreadCount handles GET /api/v1/notifications/unread-count - the
// manufacturer-side badge. Non-manufacturer users always get zero.
func GetUnreadCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var count int64
	if user.IsManufacturer() && user.ManufacturerID != nil {
		notifications := services.NewNotificationService(config.GetDB())
		var err error
		count, err = notifications.UnreadManufacturerCount(*user.ManufacturerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to count notifications",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"unread_count": count,
		},
	})
}
