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

// Shared movement messages
const (
	msgInsufficientStock = "No hay suficiente stock disponible"
	msgMovementNotFound  = "Movimiento no encontrado"
	msgProductNotFound   = "Producto no encontrado"
)

// movementCacheKey is the per-user cache key for the movement listing
func movementCacheKey(userID string) string { return "movimientos:user:" + userID }

// Request struct for creating or updating a movement
type MovementRequest struct {
	ProductID uint    `json:"producto_id" binding:"required"`                 // Product the movement applies to
	Quantity  float64 `json:"cantidad" binding:"required,gt=0"`               // Quantity moved
	Type      string  `json:"tipo" binding:"required,oneof=entrada salida"`   // entrada or salida
	Date      string  `json:"fecha" binding:"required"`                       // Movement date
	Email     string  `json:"email" binding:"required,email"`                 // Owner email
}

// ListMovementsHandler returns the owner's stock movements, newest first
func ListMovementsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		ctx := context.Background()           // Context for Redis operations
		cacheKey := movementCacheKey(user.ID) // Cache key for this owner's movements
		var movements []domain.StockMovement  // Slice to hold movements
		// Try to serve the listing from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &movements)
		if err == nil && found {
			c.JSON(http.StatusOK, movements)
			return
		}
		// Fetch from the database, newest first
		if err := db.Where("usuario_id = ?", user.ID).
			Order("fecha desc").
			Find(&movements).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener los movimientos", "error": err.Error()})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, movements, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, movements)                                  // Return the rows
	}
}

// CreateMovementHandler records a stock movement and applies it to the
// product's stock. The movement row and the stock update commit in a single
// store transaction, and a salida is conditional on the stock still covering
// the quantity so concurrent movements cannot drive it negative.
func CreateMovementHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MovementRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Verify the product exists and belongs to the owner
		var product domain.Product
		if err := db.Where("id = ? AND usuario_id = ?", req.ProductID, user.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgProductNotFound})
			return
		}
		// Reject before any write when the movement would drive stock negative
		if _, err := ledger.ApplyMovement(product.Stock, req.Type, req.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInsufficientStock})
			return
		}
		movement := domain.StockMovement{
			UserID:    user.ID,
			ProductID: req.ProductID,
			Type:      req.Type,
			Quantity:  req.Quantity,
			Date:      req.Date,
		}
		// Movement row and stock update move together
		err := db.Transaction(func(tx *gorm.DB) error {
			// Create the movement record
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
			// Apply the stock change, guarded against concurrent salidas
			if req.Type == domain.MovementIn {
				return tx.Model(&domain.Product{}).
					Where("id = ?", product.ID).
					Update("stock", gorm.Expr("stock + ?", req.Quantity)).Error
			}
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", product.ID, req.Quantity).
				Update("stock", gorm.Expr("stock - ?", req.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrNegativeStock
			}
			return nil
		})
		// Handle transaction result
		if err != nil {
			if err == ledger.ErrNegativeStock {
				// A concurrent salida consumed the stock between read and write
				c.JSON(http.StatusBadRequest, gin.H{"message": msgInsufficientStock})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":     user.ID,
				"producto_id": product.ID,
				"tipo":        req.Type,
				"cantidad":    req.Quantity,
				"error":       err.Error(),
			}).Error("Movement failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear el movimiento", "error": err.Error()})
			return
		}
		// Log successful movement
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"producto_id": product.ID,
			"tipo":        req.Type,
			"cantidad":    req.Quantity,
		}).Info("Movement created")
		// Invalidate the owner's movement listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, movementCacheKey(user.ID))
		}
		c.JSON(http.StatusCreated, movement) // Echo the created row
	}
}

// UpdateMovementHandler edits an existing movement. The original effect is
// backed out and the new one applied as a single signed stock delta, with
// the movement row and the stock update in one store transaction.
func UpdateMovementHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MovementRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Verify the movement exists and belongs to the owner
		var movement domain.StockMovement
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&movement).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgMovementNotFound})
			return
		}
		// Verify the product exists and belongs to the owner
		var product domain.Product
		if err := db.Where("id = ? AND usuario_id = ?", req.ProductID, user.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgProductNotFound})
			return
		}
		// Compute the stock adjustment that replaces the old quantity with
		// the new one
		delta, err := ledger.EditDelta(req.Type, movement.Quantity, req.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El tipo debe ser entrada o salida"})
			return
		}
		// Reject before any write when the adjusted stock would be negative
		if _, err := ledger.ApplyDelta(product.Stock, delta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInsufficientStock})
			return
		}
		// Movement row and stock update move together
		err = db.Transaction(func(tx *gorm.DB) error {
			// Update the movement record
			updates := map[string]any{
				"producto_id": req.ProductID,
				"cantidad":    req.Quantity,
				"tipo":        req.Type,
				"fecha":       req.Date,
			}
			if err := tx.Model(&domain.StockMovement{}).Where("id = ?", movement.ID).Updates(updates).Error; err != nil {
				return err
			}
			// Apply the delta, guarded so the stock cannot go negative under
			// a concurrent movement
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock + ? >= 0", product.ID, delta).
				Update("stock", gorm.Expr("stock + ?", delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrNegativeStock
			}
			return nil
		})
		// Handle transaction result
		if err != nil {
			if err == ledger.ErrNegativeStock {
				c.JSON(http.StatusBadRequest, gin.H{"message": msgInsufficientStock})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":       user.ID,
				"movimiento_id": movement.ID,
				"error":         err.Error(),
			}).Error("Movement update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar el movimiento", "error": err.Error()})
			return
		}
		// Re-read the updated row to echo it back
		if err := db.First(&movement, movement.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar el movimiento", "error": err.Error()})
			return
		}
		// Invalidate the owner's movement listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, movementCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, movement) // Echo the updated row
	}
}

// DeleteMovementHandler removes a movement and backs out its stock effect.
// When the reversal would drive stock negative the record is left in place.
func DeleteMovementHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the movement exists and belongs to the owner
		var movement domain.StockMovement
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&movement).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgMovementNotFound})
			return
		}
		// Fetch the product the movement applied to
		var product domain.Product
		if err := db.Where("id = ?", movement.ProductID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgProductNotFound})
			return
		}
		// Reject when backing out the movement would drive stock negative;
		// the record stays in place in that case
		if _, err := ledger.ReverseMovement(product.Stock, movement.Type, movement.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No se puede eliminar el movimiento: el stock resultante sería negativo"})
			return
		}
		// Reversal delta: deleting an entrada subtracts, deleting a salida adds
		delta := movement.Quantity
		if movement.Type == domain.MovementIn {
			delta = -movement.Quantity
		}
		// Stock update and record delete move together
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock + ? >= 0", product.ID, delta).
				Update("stock", gorm.Expr("stock + ?", delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrNegativeStock
			}
			return tx.Delete(&movement).Error
		})
		// Handle transaction result
		if err != nil {
			if err == ledger.ErrNegativeStock {
				c.JSON(http.StatusBadRequest, gin.H{"message": "No se puede eliminar el movimiento: el stock resultante sería negativo"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":       user.ID,
				"movimiento_id": movement.ID,
				"error":         err.Error(),
			}).Error("Movement delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar el movimiento", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":       user.ID,
			"movimiento_id": movement.ID,
		}).Info("Movement deleted")
		// Invalidate the owner's movement listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, movementCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Movimiento eliminado exitosamente"})
	}
}
