package domain

// Transfer Model (transferencia): ledger entry moving funds between two wallets
type Transfer struct {
	ID           uint    `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID       string  `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario_id"` // Foreign key to User
	FromWalletID uint    `gorm:"column:billetera_origen_id;not null" json:"billetera_origen_id"`   // Source wallet
	ToWalletID   uint    `gorm:"column:billetera_destino_id;not null" json:"billetera_destino_id"` // Destination wallet
	Amount       float64 `gorm:"column:monto;not null" json:"monto"`                               // Amount moved
	Date         string  `gorm:"column:fecha;not null" json:"fecha"`                               // Date as reported by the client
	Description  *string `gorm:"column:descripcion" json:"descripcion"`                            // Optional description
}

// TableName keeps the table name the application has always used
func (Transfer) TableName() string { return "transferencias" }
