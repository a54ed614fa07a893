package models

import "time"

type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent" // ej: 10%
	DiscountFixed   DiscountKind = "fixed"   // monto fijo
)

// Discount: promoción con ventana de vigencia y compra mínima opcional.
type Discount struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	Description string       `gorm:"size:255" json:"description"`
	Kind        DiscountKind `gorm:"size:20;not null" json:"kind"`
	Value       float64      `gorm:"not null" json:"value"`
	MinPurchase float64      `gorm:"not null;default:0" json:"min_purchase"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	StartsAt    *time.Time   `json:"starts_at"`
	EndsAt      *time.Time   `json:"ends_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsValidAt: activo y dentro de la ventana de vigencia (extremos opcionales).
func (d *Discount) IsValidAt(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

// Apply devuelve el monto con descuento, respetando la compra mínima.
func (d *Discount) Apply(amount float64) float64 {
	if amount < d.MinPurchase {
		return amount
	}
	switch d.Kind {
	case DiscountPercent:
		return amount - amount*d.Value/100
	case DiscountFixed:
		if d.Value > amount {
			return 0
		}
		return amount - d.Value
	}
	return amount
}
