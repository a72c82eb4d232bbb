package domain

// Transaction Model (transaccion): a standalone income or expense entry
type Transaction struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID      string  `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario_id"` // Foreign key to User
	Category    string  `gorm:"column:categoria;not null" json:"categoria"`                       // Free-form category
	Amount      float64 `gorm:"column:monto;not null" json:"monto"`                               // Amount of the transaction
	Type        string  `gorm:"column:tipo;not null" json:"tipo"`                                 // Transaction type: ingreso or gasto
	Date        string  `gorm:"column:fecha;not null" json:"fecha"`                               // Date as reported by the client (YYYY-MM-DD)
	Description *string `gorm:"column:descripcion" json:"descripcion"`                            // Optional description
}

// TableName keeps the table name the application has always used
func (Transaction) TableName() string { return "transacciones" }
