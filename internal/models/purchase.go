package models

import "time"

// Purchase: entrega de un proveedor que repone stock. Dueña exclusiva de
// sus PurchaseLines (cascade delete).
type Purchase struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SupplierID     uint      `gorm:"index;not null" json:"supplier_id"`
	Supplier       Supplier  `json:"supplier"`
	DocumentNumber string    `gorm:"size:50;not null;index" json:"document_number"`
	DeliveryDate   time.Time `gorm:"index;not null" json:"delivery_date"`
	Method         string    `gorm:"size:20;not null" json:"method"` // cash, transfer, credit
	Total          float64   `gorm:"not null;default:0" json:"total"`
	Notes          string    `gorm:"size:255" json:"notes"`
	User           string    `gorm:"size:100" json:"user"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	Lines []PurchaseLine `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"lines"`
}

// RecomputeTotal: total de la compra = suma de subtotales de sus líneas.
func (p *Purchase) RecomputeTotal() {
	total := 0.0
	for _, l := range p.Lines {
		total += l.Subtotal
	}
	p.Total = total
}

// PurchaseLine: una línea de producto dentro de la compra, con snapshot de
// nombre y precio unitario pactado.
type PurchaseLine struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	PurchaseID  uint    `gorm:"index;not null" json:"purchase_id"`
	ProductID   uint    `gorm:"index;not null" json:"product_id"`
	ProductName string  `gorm:"size:100;not null" json:"product_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}
