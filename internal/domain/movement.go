package domain

// Movement types accepted on stock movements
const (
	MovementIn  = "entrada" // Increases stock
	MovementOut = "salida"  // Decreases stock
)

// StockMovement Model (movimiento_inventario): ledger entry for one stock change
type StockMovement struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID    string  `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario_id"` // Foreign key to User
	ProductID uint    `gorm:"column:producto_id;index;not null" json:"producto_id"`             // Foreign key to Product
	Type      string  `gorm:"column:tipo;not null" json:"tipo"`                                 // entrada or salida
	Quantity  float64 `gorm:"column:cantidad;not null" json:"cantidad"`                         // Quantity moved, always positive
	Date      string  `gorm:"column:fecha;not null" json:"fecha"`                               // Date as reported by the client
}

// TableName keeps the table name the application has always used
func (StockMovement) TableName() string { return "movimientos_inventario" }
