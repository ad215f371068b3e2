package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/maker-orders-api/config"
	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/kendall-kelly/maker-orders-api/services"
	"github.com/kendall-kelly/maker-orders-api/utils"
)

// UploadOrderMedia handles POST /api/v1/orders/:id/media - attaches a file
// to an order, or to one of its lines when order_product_id is sent with the
// form
func UploadOrderMedia(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, ok := loadVisibleOrder(c, db, user)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No file provided",
			},
		})
		return
	}

	var productID *uint
	if raw := c.PostForm("order_product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "order_product_id must be numeric",
				},
			})
			return
		}
		id := uint(parsed)
		var count int64
		db.Model(&models.OrderProduct{}).Where("id = ? AND order_id = ?", id, order.ID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Order product not found",
				},
			})
			return
		}
		productID = &id
	}

	mediaService := services.GetMediaService()
	if mediaService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Media storage is not configured",
			},
		})
		return
	}

	s3Key, err := mediaService.UploadMedia(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload attachment",
			},
		})
		return
	}

	media := models.OrderMedia{
		OrderID:        order.ID,
		OrderProductID: productID,
		S3Key:          s3Key,
		FileName:       fileHeader.Filename,
		UploadedByID:   user.ID,
	}
	if err := db.Create(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record attachment",
			},
		})
		return
	}

	if url, err := mediaService.GetMediaURL(s3Key); err == nil && url != "" {
		media.URL = &url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    media,
	})
}

// ListOrderMedia handles GET /api/v1/orders/:id/media - returns the order's
// attachments with presigned URLs
func ListOrderMedia(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, ok := loadVisibleOrder(c, db, user)
	if !ok {
		return
	}

	var media []models.OrderMedia
	if err := db.Where("order_id = ?", order.ID).Find(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load attachments",
			},
		})
		return
	}

	if mediaService := services.GetMediaService(); mediaService != nil {
		for i := range media {
			if url, err := mediaService.GetMediaURL(media[i].S3Key); err == nil && url != "" {
				media[i].URL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    media,
	})
}
