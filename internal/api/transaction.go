package api

import (
	"net/http"                       // HTTP status codes
	"ventas_backend/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for creating or updating a transaction
type TransactionRequest struct {
	Category    string  `json:"categoria" binding:"required"`               // Category must be provided
	Amount      float64 `json:"monto" binding:"required,gt=0"`              // Amount must be positive
	Type        string  `json:"tipo" binding:"required,oneof=ingreso gasto"` // ingreso or gasto
	Date        string  `json:"fecha" binding:"required"`                   // Transaction date
	Description *string `json:"descripcion"`                                // Optional description
	Email       string  `json:"email" binding:"required,email"`             // Owner email
}

// ListTransactionsHandler returns the owner's transactions, newest first
func ListTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		if err := db.Where("usuario_id = ?", user.ID).
			Order("fecha desc").
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener las transacciones", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, transactions) // Return the rows
	}
}

// CreateTransactionHandler records an income or expense entry
func CreateTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		transaction := domain.Transaction{
			UserID:      user.ID,
			Category:    req.Category,
			Amount:      req.Amount,
			Type:        req.Type,
			Date:        req.Date,
			Description: req.Description,
		}
		// Save the new transaction
		if err := db.Create(&transaction).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear la transacción", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.ID,
			"transaccion_id": transaction.ID,
			"tipo":           transaction.Type,
			"monto":          transaction.Amount,
		}).Info("Transaction created")
		c.JSON(http.StatusCreated, transaction) // Echo the created row
	}
}

// UpdateTransactionHandler rewrites a transaction's fields
func UpdateTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the owner from the request body
		user, ok := resolveOwner(c, db, req.Email)
		if !ok {
			return
		}
		// Verify the transaction exists and belongs to the owner
		var transaction domain.Transaction
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&transaction).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transacción no encontrada"})
			return
		}
		transaction.Category = req.Category
		transaction.Amount = req.Amount
		transaction.Type = req.Type
		transaction.Date = req.Date
		transaction.Description = req.Description
		if err := db.Save(&transaction).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar la transacción", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, transaction) // Echo the updated row
	}
}

// DeleteTransactionHandler removes a transaction
func DeleteTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Resolve the owner from the email query parameter
		user, ok := resolveOwner(c, db, c.Query("email"))
		if !ok {
			return
		}
		// Verify the transaction exists and belongs to the owner
		var transaction domain.Transaction
		if err := db.Where("id = ? AND usuario_id = ?", c.Param("id"), user.ID).First(&transaction).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transacción no encontrada"})
			return
		}
		if err := db.Delete(&transaction).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar la transacción", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transacción eliminada exitosamente"})
	}
}
