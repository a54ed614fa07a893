package models

import "time"

type Product struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:100;not null;unique" json:"name"`
	Category  string  `gorm:"size:50;not null;index" json:"category"`
	Price     float64 `gorm:"not null" json:"price"`
	Stock     int     `gorm:"not null;default:0" json:"stock"`
	MinStock  int     `gorm:"not null;default:10" json:"min_stock"` // umbral de alerta
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) IsLowStock() bool {
	return p.Stock < 20
}

func (p *Product) IsCriticalStock() bool {
	return p.Stock < p.MinStock
}
