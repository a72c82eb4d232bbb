package api

import (
	"net/http"                       // HTTP status codes
	"ventas_backend/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Shared user-facing messages
const (
	msgEmailRequired = "Se requiere el email del usuario"
	msgUserNotFound  = "Usuario no encontrado"
)

// Mailer delivers verification and reset codes. Satisfied by mail.Sender.
type Mailer interface {
	SendVerificationCode(to, code string) error
	SendResetCode(to, code string) error
}

// findUserByEmail resolves an email to its user row
func findUserByEmail(db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// resolveOwner resolves the owner of a request from an email value and writes
// the error response itself when the email is missing or unknown. Every
// owned-resource handler goes through this lookup before touching data.
func resolveOwner(c *gin.Context, db *gorm.DB, email string) (*domain.User, bool) {
	// Reject requests that carry no email
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailRequired})
		return nil, false
	}
	user, err := findUserByEmail(db, email)
	if err != nil {
		// Unknown email means every dependent operation fails
		c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
		return nil, false
	}
	return user, true
}
