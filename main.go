package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/maker-orders-api/config"
	"github.com/kendall-kelly/maker-orders-api/controllers"
	"github.com/kendall-kelly/maker-orders-api/middleware"
	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/kendall-kelly/maker-orders-api/services"
)

func main() {
	log.Println("Starting Maker Orders API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Manufacturer{},
		&models.Order{},
		&models.OrderProduct{},
		&models.OrderItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.OrderMedia{},
		&models.Notification{},
		&models.ManufacturerNotification{},
		&models.WorkflowLog{},
		&models.OrderMargin{},
		&models.BackupOrderNumber{},
		&models.ClientAdminNote{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Media storage is optional; without a bucket the upload endpoints
	// report STORAGE_UNAVAILABLE.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitMediaService(s3Service)
		log.Println("Media storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, media uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with middleware and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		authenticated := v1.Group("")
		authenticated.Use(middlewareFor(cfg))
		{
			authenticated.POST("/users", controllers.CreateUser)
			authenticated.GET("/users/me", controllers.GetMyProfile)
			authenticated.PUT("/users/me", controllers.UpdateMyProfile)

			authenticated.GET("/orders", controllers.ListOrders)
			authenticated.GET("/orders/tabs", controllers.GetTabCounts)
			authenticated.GET("/orders/:id", controllers.GetOrder)
			authenticated.PATCH("/orders/:id/products/:productId/ship-date", controllers.SetProductShipDate)
			authenticated.DELETE("/orders/:id", controllers.DeleteOrder)

			authenticated.POST("/orders/:id/media", controllers.UploadOrderMedia)
			authenticated.GET("/orders/:id/media", controllers.ListOrderMedia)

			authenticated.GET("/notifications/unread-count", controllers.GetUnreadCount)
		}
	}

	return router
}

// middlewareFor returns the JWT middleware, or a no-op when Auth0 is not
// configured (local development against seeded users)
func middlewareFor(cfg *config.Config) gin.HandlerFunc {
	if cfg.Auth0Domain == "" {
		log.Println("AUTH0_DOMAIN not set, running without token validation")
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.EnsureValidToken(cfg)
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Maker Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
