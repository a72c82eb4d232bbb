package domain

// Sale Model (venta)
type Sale struct {
	ID       uint    `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID   string  `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario_id"` // Foreign key to User
	Product  string  `gorm:"column:producto;not null" json:"producto"`                         // Product name as sold
	Quantity int     `gorm:"column:cantidad;not null" json:"cantidad"`                         // Units sold
	Total    float64 `gorm:"not null" json:"total"`                                            // Sale total
	Date     string  `gorm:"column:fecha;not null" json:"fecha"`                               // Date as reported by the client
	Time     string  `gorm:"column:hora;not null" json:"hora"`                                 // Time as reported by the client (HH:MM)
}

// TableName keeps the table name the application has always used
func (Sale) TableName() string { return "ventas" }
