package api

import (
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation
	"time"                           // Code expiry arithmetic
	"ventas_backend/internal/domain" // Importing domain models
	"ventas_backend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for requesting a password reset
type ResetRequest struct {
	Email string `json:"email" binding:"required,email"` // Email must be provided
}

// Request struct for setting the new password
type UpdatePasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`    // Email must be provided
	Code     string `json:"code" binding:"required,len=6"`     // Emailed reset code
	Password string `json:"password" binding:"required,min=6"` // New password, at least 6 characters
}

// RequestResetHandler stores a reset code on the user row and emails it
func RequestResetHandler(db *gorm.DB, mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the user by email
		user, ok := resolveOwner(c, db, strings.ToLower(req.Email))
		if !ok {
			return
		}
		// Generate code and expiry
		code := utils.GenerateVerificationCode()
		expiresAt := time.Now().Add(utils.CodeTTL)
		// Store the reset code on the user row
		updates := map[string]any{
			"reset_code":         code,
			"reset_code_expires": expiresAt,
		}
		if err := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al solicitar reseteo de contraseña", "error": err.Error()})
			return
		}
		// Email the code
		if err := mailer.SendResetCode(user.Email, code); err != nil {
			logrus.WithFields(logrus.Fields{
				"email": user.Email,
				"error": err.Error(),
			}).Error("Failed to send reset email")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al enviar email de reseteo"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email de reseteo enviado exitosamente"})
	}
}

// UpdatePasswordHandler validates the reset code and stores the new password
func UpdatePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the user by email
		user, ok := resolveOwner(c, db, strings.ToLower(req.Email))
		if !ok {
			return
		}
		// Check the stored reset code and its expiry
		if user.ResetCode == nil || utils.CodeExpired(user.ResetCodeExpires) || *user.ResetCode != req.Code {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Token inválido o expirado"})
			return
		}
		// Hash the new password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar la contraseña"})
			return
		}
		// Store the new password and clear the reset code
		updates := map[string]any{
			"password":           string(hash),
			"reset_code":         nil,
			"reset_code_expires": nil,
		}
		if err := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar la contraseña", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password updated")
		c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada exitosamente"})
	}
}
