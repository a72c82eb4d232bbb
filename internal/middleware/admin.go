package middleware

import (
	"net/http"                       // HTTP status codes
	"ventas_backend/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Se requiere rol de administrador"})
			return
		}
		// Check if user role is administrador
		if user.Role != "administrador" {
			// If not, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Se requiere rol de administrador"})
			return
		}
		// If administrador, proceed to the next handler
		c.Next()
	}
}
