package api

import (
	"context"                        // Context for Redis operations
	"net/http"                       // HTTP status codes
	"time"                           // Time durations
	"ventas_backend/internal/domain" // Importing domain models
	"ventas_backend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// walletCacheKey is the per-user cache key for the wallet listing
func walletCacheKey(userID string) string { return "billeteras:user:" + userID }

// Request struct for creating a wallet
type CreateWalletRequest struct {
	Name    string   `json:"nombre" binding:"required"`      // Wallet name must be provided
	Balance *float64 `json:"saldo" binding:"omitempty,gte=0"` // Optional opening balance, never negative
	Email   string   `json:"email" binding:"required,email"` // Owner email
}

// Request struct for updating a wallet; omitted fields keep their value
type UpdateWalletRequest struct {
	Name    *string  `json:"nombre"`                          // New wallet name
	Balance *float64 `json:"saldo" binding:"omitempty,gte=0"` // New balance, never negative
	Email   string   `json:"email" binding:"required,email"`  // Owner email
}

// ListWalletsHandler returns the owner's wallets, most recently updated first
func ListWalletsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		ctx := context.Background()          // Context for Redis operations
		cacheKey := walletCacheKey(user.ID)  // Cache key for this owner's wallets
		var wallets []domain.Wallet          // Slice to hold wallets
		// Try to serve the listing from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &wallets)
		if err == nil && found {
			c.JSON(http.StatusOK, wallets)
			return
		}
		// Fetch from the database, most recent balance change first
		if err := db.Where("usuario_id = ?", user.ID).
			Order("ultima_actualizacion desc").
			Find(&wallets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener las billeteras", "error": err.Error()})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, wallets, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, wallets)                                  // Return the rows
	}
}

// CreateWalletHandler creates a wallet for the owner
func CreateWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Opening balance defaults to zero
		balance := 0.0
		if req.Balance != nil {
			balance = *req.Balance
		}
		wallet := domain.Wallet{
			UserID:    user.ID,
			Name:      req.Name,
			Balance:   balance,
			UpdatedAt: time.Now(),
		}
		// Save the new wallet
		if err := db.Create(&wallet).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear la billetera", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": wallet.ID,
			"saldo":     wallet.Balance,
		}).Info("Wallet created")
		// Invalidate the owner's wallet listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, walletCacheKey(user.ID))
		}
		c.JSON(http.StatusCreated, wallet) // Echo the created row
	}
}

// UpdateWalletHandler updates a wallet's name or balance
func UpdateWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Verify the wallet exists and belongs to the owner
		var wallet domain.Wallet
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Billetera no encontrada"})
			return
		}
		// Apply only the provided fields, always refreshing the timestamp
		if req.Name != nil {
			wallet.Name = *req.Name
		}
		if req.Balance != nil {
			wallet.Balance = *req.Balance
		}
		wallet.UpdatedAt = time.Now()
		if err := db.Save(&wallet).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar la billetera", "error": err.Error()})
			return
		}
		// Invalidate the owner's wallet listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, walletCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, wallet) // Echo the updated row
	}
}

// DeleteWalletHandler removes a wallet. Transfer records referencing it are
// left in place; the store does not cascade.
func DeleteWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the wallet exists and belongs to the owner
		var wallet domain.Wallet
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&wallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Billetera no encontrada"})
			return
		}
		if err := db.Delete(&wallet).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar la billetera", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": wallet.ID,
		}).Info("Wallet deleted")
		// Invalidate the owner's wallet listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, walletCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Billetera eliminada exitosamente"})
	}
}

// BalanceTotalHandler returns the sum of all the owner's wallet balances
func BalanceTotalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		var total float64 // Aggregate of all saldos
		if err := db.Model(&domain.Wallet{}).
			Where("usuario_id = ?", user.ID).
			Select("COALESCE(SUM(saldo), 0)").
			Scan(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener el balance total", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balanceTotal": total})
	}
}
