package main

import (
	"context"                            // context package is needed for Redis operations
	"log"                                // log package is needed for logging
	"ventas_backend/internal/api"        // Custom package for API handlers
	"ventas_backend/internal/config"     // Custom package for configuration
	"ventas_backend/internal/mail"       // Custom package for the SMTP sender
	"ventas_backend/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup the SMTP sender used for verification and reset codes
	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Health endpoint
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Backend API para app-ventas funcionando")
	})

	// Auth routes (public)
	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db, mailer))                               // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))                              // Login endpoint
	authGroup.POST("/request-verification-code", api.RequestVerificationCodeHandler(db, mailer)) // 2FA code endpoint
	authGroup.POST("/verify-code", api.VerifyCodeHandler(db))                                  // Code verification endpoint
	authGroup.POST("/reset-password", api.RequestResetHandler(db, mailer))                     // Password reset request endpoint
	authGroup.POST("/update-password", api.UpdatePasswordHandler(db))                          // Password update endpoint

	// Protected routes share the JWT middleware and the Redis client
	protected := r.Group("")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	// Wallet routes (billeteras)
	walletGroup := protected.Group("/billeteras")
	walletGroup.GET("", api.ListWalletsHandler(db, redisClient)) // List wallets endpoint
	walletGroup.POST("", api.CreateWalletHandler(db))            // Create wallet endpoint
	walletGroup.PUT("/:id", api.UpdateWalletHandler(db))         // Update wallet endpoint
	walletGroup.DELETE("/:id", api.DeleteWalletHandler(db))      // Delete wallet endpoint

	// Transfer routes (transferencias)
	transferGroup := protected.Group("/transferencias")
	transferGroup.GET("", api.ListTransfersHandler(db, redisClient)) // List transfers endpoint
	transferGroup.POST("", api.CreateTransferHandler(db))            // Create transfer endpoint
	transferGroup.DELETE("/:id", api.DeleteTransferHandler(db))      // Delete transfer endpoint

	// Inventory routes (inventarios)
	inventoryGroup := protected.Group("/inventarios")
	inventoryGroup.GET("", api.ListProductsHandler(db, redisClient)) // List products endpoint
	inventoryGroup.POST("", api.CreateProductHandler(db))            // Create product endpoint
	inventoryGroup.PUT("/:id", api.UpdateProductHandler(db))         // Update product endpoint
	inventoryGroup.DELETE("/:id", api.DeleteProductHandler(db))      // Delete product endpoint

	// Stock movement routes (movimientos)
	movementGroup := protected.Group("/movimientos")
	movementGroup.GET("", api.ListMovementsHandler(db, redisClient)) // List movements endpoint
	movementGroup.POST("", api.CreateMovementHandler(db))            // Create movement endpoint
	movementGroup.PUT("/:id", api.UpdateMovementHandler(db))         // Update movement endpoint
	movementGroup.DELETE("/:id", api.DeleteMovementHandler(db))      // Delete movement endpoint

	// Sale routes (ventas)
	saleGroup := protected.Group("/ventas")
	saleGroup.GET("", api.ListSalesHandler(db))         // List sales endpoint
	saleGroup.POST("", api.CreateSaleHandler(db))       // Create sale endpoint
	saleGroup.PUT("/:id", api.UpdateSaleHandler(db))    // Update sale endpoint
	saleGroup.DELETE("/:id", api.DeleteSaleHandler(db)) // Delete sale endpoint

	// Transaction routes (transacciones)
	transactionGroup := protected.Group("/transacciones")
	transactionGroup.GET("", api.ListTransactionsHandler(db))         // List transactions endpoint
	transactionGroup.POST("", api.CreateTransactionHandler(db))       // Create transaction endpoint
	transactionGroup.PUT("/:id", api.UpdateTransactionHandler(db))    // Update transaction endpoint
	transactionGroup.DELETE("/:id", api.DeleteTransactionHandler(db)) // Delete transaction endpoint

	// Aggregate view routes
	viewGroup := protected.Group("/view")
	viewGroup.GET("/balance-total", api.BalanceTotalHandler(db)) // Total balance endpoint

	// Admin routes (protected, administrador only)
	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/usuarios", api.ListUsersHandler(db, redisClient)) // List users endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
