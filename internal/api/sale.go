package api

import (
	"net/http"                       // HTTP status codes
	"ventas_backend/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// defaultUnitPrice is used when a sold product is not found in the inventory
const defaultUnitPrice = 100.0

// Request struct for creating or updating a sale
type SaleRequest struct {
	Product  string `json:"producto" binding:"required"`    // Product name
	Quantity int    `json:"cantidad" binding:"required,gt=0"` // Units sold
	Date     string `json:"fecha" binding:"required"`       // Sale date
	Time     string `json:"hora" binding:"required"`        // Sale time (HH:MM)
	Email    string `json:"email" binding:"required,email"` // Owner email
}

// saleTotal prices a sale against the owner's inventory, matching by product
// name or alias. Unknown products fall back to the default unit price.
func saleTotal(db *gorm.DB, userID, productName string, quantity int) float64 {
	var product domain.Product
	err := db.Where("usuario_id = ? AND (nombre_producto = ? OR alias = ?)", userID, productName, productName).
		First(&product).Error
	if err != nil {
		return float64(quantity) * defaultUnitPrice
	}
	return float64(quantity) * product.UnitPrice
}

// ListSalesHandler returns the owner's sales, newest first
func ListSalesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		var sales []domain.Sale // Slice to hold sales
		if err := db.Where("usuario_id = ?", user.ID).
			Order("fecha desc").
			Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener las ventas", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sales) // Return the rows
	}
}

// CreateSaleHandler records a sale, pricing it against the inventory
func CreateSaleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		sale := domain.Sale{
			UserID:   user.ID,
			Product:  req.Product,
			Quantity: req.Quantity,
			Total:    saleTotal(db, user.ID, req.Product, req.Quantity),
			Date:     req.Date,
			Time:     req.Time,
		}
		// Save the new sale
		if err := db.Create(&sale).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear la venta", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"venta_id": sale.ID,
			"total":    sale.Total,
		}).Info("Sale created")
		c.JSON(http.StatusCreated, sale) // Echo the created row
	}
}

// UpdateSaleHandler rewrites a sale's fields and reprices it
func UpdateSaleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Verify the sale exists and belongs to the owner
		var sale domain.Sale
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&sale).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Venta no encontrada"})
			return
		}
		sale.Product = req.Product
		sale.Quantity = req.Quantity
		sale.Total = saleTotal(db, user.ID, req.Product, req.Quantity)
		sale.Date = req.Date
		sale.Time = req.Time
		if err := db.Save(&sale).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar la venta", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sale) // Echo the updated row
	}
}

// DeleteSaleHandler removes a sale
func DeleteSaleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the sale exists and belongs to the owner
		var sale domain.Sale
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&sale).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Venta no encontrada"})
			return
		}
		if err := db.Delete(&sale).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar la venta", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Venta eliminada exitosamente"})
	}
}
