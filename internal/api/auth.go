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

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Valid email must be provided
	Password string `json:"password" binding:"required,min=6"` // Password of at least 6 characters
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for requesting a fresh verification code
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"` // Email must be provided
}

// Request struct for verifying a code
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"` // Email must be provided
	Code  string `json:"code" binding:"required,len=6"`  // The 6-digit code
}

// RegisterHandler creates a user and emails the initial verification code
func RegisterHandler(db *gorm.DB, mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request with the validation detail
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Hash the password before storing it
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al registrar el usuario"})
			return
		}
		// Generate the email verification code up front
		code := utils.GenerateVerificationCode()
		expiresAt := time.Now().Add(utils.CodeTTL)
		user := domain.User{
			Name:             req.Name,
			Email:            strings.ToLower(req.Email), // Lowercase email to keep uniqueness
			Password:         string(hash),
			Role:             "administrador", // Every account manages its own business
			Code2FA:          &code,
			Code2FAExpiresAt: &expiresAt,
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Duplicate email is the common failure here
			c.JSON(http.StatusBadRequest, gin.H{"message": "El email ya está registrado", "error": err.Error()})
			return
		}
		// Send the verification code; the account exists either way and the
		// user can request a new code if delivery failed
		if err := mailer.SendVerificationCode(user.Email, code); err != nil {
			logrus.WithFields(logrus.Fields{
				"email": user.Email,
				"error": err.Error(),
			}).Warn("Failed to send verification email")
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{
			"message": "Usuario registrado exitosamente. Por favor, revisa tu correo para confirmar tu cuenta.",
			"success": true,
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token plus the profile
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Fetch user by email
		user, err := findUserByEmail(db, strings.ToLower(req.Email))
		if err != nil {
			// Do not reveal whether the email exists
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al iniciar sesión"})
			return
		}
		// Return the token and the user profile
		c.JSON(http.StatusOK, gin.H{
			"message": "Login exitoso",
			"token":   token,
			"user":    user,
		})
	}
}

// RequestVerificationCodeHandler stores a fresh code on the user row and emails it.
// Used for registration verification and for ad-hoc login 2FA alike; there is
// no second provider-managed code path.
func RequestVerificationCodeHandler(db *gorm.DB, mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RequestCodeRequest // Bind JSON request to struct
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
		// Store code and expiry on the user row
		updates := map[string]any{
			"codigo_2fa":            code,
			"codigo_2fa_expires_at": expiresAt,
		}
		if err := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar el usuario", "error": err.Error()})
			return
		}
		// Send the email with the code
		if err := mailer.SendVerificationCode(user.Email, code); err != nil {
			logrus.WithFields(logrus.Fields{
				"email": user.Email,
				"error": err.Error(),
			}).Error("Failed to send verification email")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al enviar el correo de verificación"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Código de verificación enviado exitosamente"})
	}
}

// VerifyCodeHandler checks a submitted code against the one stored on the user
func VerifyCodeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyCodeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error de validación", "error": err.Error()})
			return
		}
		// Resolve the user by email
		user, err := findUserByEmail(db, strings.ToLower(req.Email))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound, "verified": false})
			return
		}
		// Reject when no code is pending or the code has expired
		if user.Code2FA == nil || utils.CodeExpired(user.Code2FAExpiresAt) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El código de verificación ha expirado", "verified": false})
			return
		}
		// Compare the submitted code
		if *user.Code2FA != req.Code {
			c.JSON(http.StatusOK, gin.H{"message": "Código inválido", "verified": false})
			return
		}
		// Clear the code and mark the user as verified
		updates := map[string]any{
			"codigo_2fa":            nil,
			"codigo_2fa_expires_at": nil,
			"verificado":            true,
		}
		if err := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al actualizar el estado de verificación", "error": err.Error(), "verified": false})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Email verified")
		c.JSON(http.StatusOK, gin.H{"message": "Código verificado exitosamente", "verified": true})
	}
}
