package domain

// Product Model (inventario): one row per product a user keeps in stock
type Product struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                                               // Primary key
	UserID    string  `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario_id"`   // Foreign key to User
	Name      string  `gorm:"column:nombre_producto;not null" json:"nombre_producto"`             // Product name
	Alias     string  `gorm:"not null" json:"alias"`                                              // Short alias shown in listings
	UnitPrice float64 `gorm:"column:precio_unitario;not null" json:"precio_unitario"`             // Unit price
	Stock     float64 `gorm:"not null;default:0" json:"stock"`                                    // Current stock, never negative
}

// TableName keeps the table name the application has always used
func (Product) TableName() string { return "inventarios" }
