package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/config"
	"patrimonio/internal/database"
	"patrimonio/internal/handlers"
	"patrimonio/internal/logger"
	"patrimonio/internal/middleware"
	"patrimonio/internal/oracle"
	"patrimonio/internal/services"
	"patrimonio/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Open the database and its encryption key
	dbManager, err := database.Open(appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dbManager.Close()

	// Run migrations and seed reference data
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// External price oracle
	priceClient := oracle.NewClient(appConfig.OracleBaseURL, appConfig.OracleTimeout)

	// Initialize services
	userService := services.NewUserService(dbManager)
	stockService := services.NewStockService(dbManager)
	assetService := services.NewAssetService(dbManager, priceClient)
	categoryService := services.NewCategoryService(dbManager)
	netWorthService := services.NewNetWorthService(dbManager)
	rentalService := services.NewRentalService(dbManager)
	transferService := services.NewTransferService(dbManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	stockHandler := handlers.NewStockHandler(stockService)
	assetHandler := handlers.NewAssetHandler(assetService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	netWorthHandler := handlers.NewNetWorthHandler(netWorthService)
	rentalHandler := handlers.NewRentalHandler(rentalService)
	transferHandler := handlers.NewTransferHandler(transferService)
	backupHandler := handlers.NewBackupHandler(dbManager)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware for the local desktop UI
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.GET("/status", authHandler.Status)
	auth.POST("/setup", authHandler.Setup)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/change-password", authHandler.ChangePassword)

	// Stock and movement routes
	stocks := protected.Group("/stocks")
	stocks.GET("", stockHandler.ListStocks)
	stocks.POST("", stockHandler.CreateStock)
	stocks.GET("/:id", stockHandler.GetStock)
	stocks.PUT("/:id", stockHandler.UpdateStock)
	stocks.DELETE("/:id", stockHandler.DeleteStock)
	stocks.GET("/:id/movements", stockHandler.ListMovements)
	stocks.POST("/:id/movements", stockHandler.CreateMovement)
	stocks.GET("/:id/summary", stockHandler.GetSummary)

	movements := protected.Group("/movements")
	movements.DELETE("/:movementId", stockHandler.DeleteMovement)

	// Asset routes
	assets := protected.Group("/assets")
	assets.GET("", assetHandler.ListAssets)
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/refresh-price", assetHandler.RefreshPrice)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:tipo", categoryHandler.GetCategory)
	categories.GET("/:tipo/usage", categoryHandler.CountAssetsUsing)
	categories.PUT("/id/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/id/:id", categoryHandler.DeleteCategory)

	// Net-worth snapshot routes
	networth := protected.Group("/networth")
	networth.GET("", netWorthHandler.ListSnapshots)
	networth.POST("", netWorthHandler.CreateSnapshot)
	networth.PUT("/:id", netWorthHandler.UpdateSnapshot)
	networth.DELETE("/:id", netWorthHandler.DeleteSnapshot)

	// Rental income and property config routes
	rentals := protected.Group("/rental-incomes")
	rentals.GET("", rentalHandler.ListRentalIncomes)
	rentals.POST("", rentalHandler.CreateRentalIncome)
	rentals.PUT("/:id", rentalHandler.UpdateRentalIncome)
	rentals.DELETE("/:id", rentalHandler.DeleteRentalIncome)

	property := protected.Group("/property-config")
	property.GET("", rentalHandler.GetPropertyConfig)
	property.PUT("", rentalHandler.SetInitialInvestment)

	// Bulk transfer routes
	transfer := protected.Group("/transfer")
	transfer.GET("/export", transferHandler.Export)
	transfer.POST("/import", transferHandler.Import)

	// Backup and restore routes
	backup := protected.Group("/backup")
	backup.POST("", backupHandler.Backup)
	backup.POST("/restore", backupHandler.Restore)

	log.Infof("Starting patrimonio backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
