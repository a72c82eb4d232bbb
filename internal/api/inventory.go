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

// inventoryCacheKey is the per-user cache key for the product listing
func inventoryCacheKey(userID string) string { return "inventarios:user:" + userID }

// Request struct for creating a product
type CreateProductRequest struct {
	Name      string  `json:"nombre_producto" binding:"required"`         // Product name must be provided
	Alias     string  `json:"alias" binding:"required"`                   // Alias must be provided
	UnitPrice float64 `json:"precio_unitario" binding:"omitempty,gte=0"`  // Unit price, never negative
	Stock     float64 `json:"stock" binding:"omitempty,gte=0"`            // Opening stock, never negative
	Email     string  `json:"email" binding:"required,email"`             // Owner email
}

// Request struct for updating a product; omitted fields keep their value
type UpdateProductRequest struct {
	Name      *string  `json:"nombre_producto"`                           // New product name
	Alias     *string  `json:"alias"`                                     // New alias
	UnitPrice *float64 `json:"precio_unitario" binding:"omitempty,gte=0"` // New unit price
	Stock     *float64 `json:"stock" binding:"omitempty,gte=0"`           // New stock value
	Email     string   `json:"email" binding:"required,email"`            // Owner email
}

// ListProductsHandler returns the owner's products ordered by name
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		ctx := context.Background()            // Context for Redis operations
		cacheKey := inventoryCacheKey(user.ID) // Cache key for this owner's products
		var products []domain.Product          // Slice to hold products
		// Try to serve the listing from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &products)
		if err == nil && found {
			c.JSON(http.StatusOK, products)
			return
		}
		// Fetch from the database ordered by product name
		if err := db.Where("usuario_id = ?", user.ID).
			Order("nombre_producto asc").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener los productos", "error": err.Error()})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, products, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, products)                                  // Return the rows
	}
}

// CreateProductHandler adds a product to the owner's inventory
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		product := domain.Product{
			UserID:    user.ID,
			Name:      req.Name,
			Alias:     req.Alias,
			UnitPrice: req.UnitPrice,
			Stock:     req.Stock,
		}
		// Save the new product
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear el producto", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"producto_id": product.ID,
		}).Info("Product created")
		// Invalidate the owner's product listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, inventoryCacheKey(user.ID))
		}
		c.JSON(http.StatusCreated, product) // Echo the created row
	}
}

// UpdateProductHandler updates a product's fields
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProductRequest // Bind JSON request to struct
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
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgProductNotFound})
			return
		}
		// Apply only the provided fields
		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Alias != nil {
			product.Alias = *req.Alias
		}
		if req.UnitPrice != nil {
			product.UnitPrice = *req.UnitPrice
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar el producto", "error": err.Error()})
			return
		}
		// Invalidate the owner's product listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, inventoryCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, product) // Echo the updated row
	}
}

// DeleteProductHandler removes a product from the owner's inventory.
// Movement records referencing it are left in place; the store does not
// cascade.
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the product exists and belongs to the owner
		var product domain.Product
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgProductNotFound})
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar el producto", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"producto_id": product.ID,
		}).Info("Product deleted")
		// Invalidate the owner's product listing cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, inventoryCacheKey(user.ID))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado exitosamente"})
	}
}
