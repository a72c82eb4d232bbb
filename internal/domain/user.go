package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User Model
type User struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`            // UUID primary key
	Name             string     `gorm:"column:nombre;not null" json:"nombre"`          // Display name
	Email            string     `gorm:"unique;not null" json:"email"`                  // Unique login email
	Password         string     `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	Role             string     `gorm:"column:rol;default:administrador" json:"rol"`   // Role assigned at registration
	Verified         bool       `gorm:"column:verificado;default:false" json:"verificado"` // Email ownership confirmed
	Code2FA          *string    `gorm:"column:codigo_2fa" json:"-"`                    // Pending 6-digit verification code
	Code2FAExpiresAt *time.Time `gorm:"column:codigo_2fa_expires_at" json:"-"`         // Verification code expiry
	ResetCode        *string    `gorm:"column:reset_code" json:"-"`                    // Pending password reset code
	ResetCodeExpires *time.Time `gorm:"column:reset_code_expires" json:"-"`            // Reset code expiry
	CreatedAt        time.Time  `json:"created_at"`                                    // Timestamp of creation
}

// TableName keeps the table name the application has always used
func (User) TableName() string { return "usuarios" }

// BeforeCreate assigns a UUID id when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
