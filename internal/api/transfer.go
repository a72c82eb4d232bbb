package api

import (
	"context"                        // Context for Redis operations
	"net/http"                       // HTTP status codes
	"time"                           // Time durations
	"ventas_backend/internal/domain" // Importing domain models
	"ventas_backend/internal/ledger" // Balance arithmetic
	"ventas_backend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// transferCacheKey is the per-user cache key for the transfer listing
func transferCacheKey(userID string) string { return "transferencias:user:" + userID }

// Request struct for creating a transfer; wallets are addressed by name
type CreateTransferRequest struct {
	FromWallet  string  `json:"billetera_origen" binding:"required"`  // Source wallet name
	ToWallet    string  `json:"billetera_destino" binding:"required"` // Destination wallet name
	Amount      float64 `json:"monto" binding:"required,gt=0"`        // Amount to move
	Date        string  `json:"fecha" binding:"required"`             // Transfer date
	Description *string `json:"descripcion"`                          // Optional description
	Email       string  `json:"email" binding:"required,email"`       // Owner email
}

// TransferResponse is a transfer row enriched with the wallet names the
// frontend renders
type TransferResponse struct {
	domain.Transfer
	FromWalletName string `json:"billetera_origen"`  // Source wallet name
	ToWalletName   string `json:"billetera_destino"` // Destination wallet name
}

// ListTransfersHandler returns the owner's transfers, newest first, with
// source and destination wallet names resolved
func ListTransfersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		ctx := context.Background()           // Context for Redis operations
		cacheKey := transferCacheKey(user.ID) // Cache key for this owner's transfers
		var resp []TransferResponse           // Enriched rows
		// Try to serve the listing from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
		if err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		// Fetch the transfer rows
		var transfers []domain.Transfer
		if err := db.Where("usuario_id = ?", user.ID).
			Order("fecha desc").
			Find(&transfers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener las transferencias", "error": err.Error()})
			return
		}
		// Resolve wallet names in one query. Deleted wallets leave an empty
		// name; their transfer rows are kept.
		ids := make([]uint, 0, len(transfers)*2)
		for _, t := range transfers {
			ids = append(ids, t.FromWalletID, t.ToWalletID)
		}
		names := map[uint]string{}
		if len(ids) > 0 {
			var wallets []domain.Wallet
			if err := db.Where("id IN ?", ids).Find(&wallets).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener las transferencias", "error": err.Error()})
				return
			}
			for _, w := range wallets {
				names[w.ID] = w.Name
			}
		}
		resp = make([]TransferResponse, len(transfers))
		for i, t := range transfers {
			resp[i] = TransferResponse{
				Transfer:       t,
				FromWalletName: names[t.FromWalletID],
				ToWalletName:   names[t.ToWalletID],
			}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)                                  // Return the rows
	}
}

// CreateTransferHandler moves funds between two of the owner's wallets. The
// ledger row and both balance updates commit in a single store transaction,
// and the source debit is conditional on the balance still covering the
// amount, so concurrent transfers against the same wallet cannot overdraw it.
func CreateTransferHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransferRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Resolve the source wallet by name and owner
		var fromWallet domain.Wallet
		if err := db.Where("nombre = ? AND usuario_id = ?", req.FromWallet, user.ID).First(&fromWallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Billetera de origen no encontrada"})
			return
		}
		// Resolve the destination wallet by name and owner
		var toWallet domain.Wallet
		if err := db.Where("nombre = ? AND usuario_id = ?", req.ToWallet, user.ID).First(&toWallet).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Billetera de destino no encontrada"})
			return
		}
		// Reject before any write when the source cannot cover the amount
		if _, _, err := ledger.TransferBalances(fromWallet.Balance, toWallet.Balance, req.Amount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Saldo insuficiente en la billetera de origen"})
			return
		}
		transfer := domain.Transfer{
			UserID:       user.ID,
			FromWalletID: fromWallet.ID,
			ToWalletID:   toWallet.ID,
			Amount:       req.Amount,
			Date:         req.Date,
			Description:  req.Description,
		}
		// Ledger row and both balance updates move together
		err := db.Transaction(func(tx *gorm.DB) error {
			// Create the transfer record
			if err := tx.Create(&transfer).Error; err != nil {
				return err
			}
			// Debit the source, conditional on the balance still covering the
			// amount so a concurrent debit cannot be lost
			res := tx.Model(&domain.Wallet{}).
				Where("id = ? AND saldo >= ?", fromWallet.ID, req.Amount).
				Updates(map[string]any{
					"saldo":                gorm.Expr("saldo - ?", req.Amount),
					"ultima_actualizacion": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrInsufficientFunds
			}
			// Credit the destination
			return tx.Model(&domain.Wallet{}).
				Where("id = ?", toWallet.ID).
				Updates(map[string]any{
					"saldo":                gorm.Expr("saldo + ?", req.Amount),
					"ultima_actualizacion": time.Now(),
				}).Error
		})
		// Handle transaction result
		if err != nil {
			if err == ledger.ErrInsufficientFunds {
				// A concurrent debit emptied the wallet between read and write
				c.JSON(http.StatusBadRequest, gin.H{"message": "Saldo insuficiente en la billetera de origen"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":     user.ID,
				"from_wallet": fromWallet.ID,
				"to_wallet":   toWallet.ID,
				"monto":       req.Amount,
				"error":       err.Error(),
			}).Error("Transfer failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear la transferencia", "error": err.Error()})
			return
		}
		// Log successful transfer
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"from_wallet": fromWallet.ID,
			"to_wallet":   toWallet.ID,
			"monto":       req.Amount,
		}).Info("Transfer created")
		// Invalidate the owner's transfer and wallet caches
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, transferCacheKey(user.ID), walletCacheKey(user.ID))
		}
		c.JSON(http.StatusCreated, transfer) // Echo the created row
	}
}

// DeleteTransferHandler removes a transfer record. The wallet balances are
// deliberately left untouched: the application has always treated a transfer
// delete as erasing the record only, unlike a movement delete which backs out
// its stock effect.
func DeleteTransferHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the transfer exists and belongs to the owner
		var transfer domain.Transfer
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&transfer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transferencia no encontrada"})
			return
		}
		if err := db.Delete(&transfer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar la transferencia", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"transfer_id": transfer.ID,
		}).Info("Transfer deleted")
		// Invalidate the owner's transfer listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, transferCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transferencia eliminada exitosamente"})
	}
}
