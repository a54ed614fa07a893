package models

import "time"

// Sale: registro inmutable creado al cerrar la cuenta de una mesa.
// LinesJSON conserva el snapshot serializado de las líneas al momento del pago.
type Sale struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	TableLabel string `gorm:"size:100;not null" json:"table_label"` // "3 - Terraza"
	Total     float64 `gorm:"not null" json:"total"`
	Cash      float64 `gorm:"not null;default:0" json:"cash"`
	Transfers float64 `gorm:"not null;default:0" json:"transfers"`
	LinesJSON string  `gorm:"type:text;not null" json:"lines_json"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Change: vuelto a entregar cuando el pago supera el total.
func (s *Sale) Change() float64 {
	return s.Cash + s.Transfers - s.Total
}

// SaleLine es la forma de cada elemento dentro de LinesJSON.
type SaleLine struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}
