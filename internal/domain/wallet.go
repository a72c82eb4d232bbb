package domain

import "time"

// Wallet Model (billetera)
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                                                     // Primary key
	UserID    string    `gorm:"column:usuario_id;type:char(36);not null;uniqueIndex:idx_billetera_duenio" json:"usuario_id"` // Foreign key to User
	Name      string    `gorm:"column:nombre;not null;uniqueIndex:idx_billetera_duenio" json:"nombre"`                    // Wallet name, unique per owner
	Balance   float64   `gorm:"column:saldo;not null;default:0" json:"saldo"`                                             // Wallet balance
	UpdatedAt time.Time `gorm:"column:ultima_actualizacion" json:"ultima_actualizacion"`                                  // Last balance change
}

// TableName keeps the table name the application has always used
func (Wallet) TableName() string { return "billeteras" }
