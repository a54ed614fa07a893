package models

import (
	"strconv"
	"time"
)

type TableState string

const (
	TableFree     TableState = "free"
	TableOccupied TableState = "occupied"
)

// Table: Una mesa física y su cuenta abierta.
// La mesa es dueña exclusiva de sus OrderLines (cascade delete).
type Table struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Number    int        `gorm:"not null;unique" json:"number"`
	Name      string     `gorm:"size:50;not null" json:"name"` // "Terraza", "Ventana", "VIP"...
	State     TableState `gorm:"size:20;not null;default:'free'" json:"state"`
	Total     float64    `gorm:"not null;default:0" json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Lines []OrderLine `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"lines"`
}

// Label: etiqueta legible usada en el snapshot de venta ("3 - Terraza").
func (t *Table) Label() string {
	if t.Name == "" {
		return strconv.Itoa(t.Number)
	}
	return strconv.Itoa(t.Number) + " - " + t.Name
}

// RecomputeTotal: total de la mesa = suma de subtotales de sus líneas.
func (t *Table) RecomputeTotal() {
	total := 0.0
	for _, l := range t.Lines {
		total += l.Subtotal
	}
	t.Total = total
}

// OrderLine: un producto-y-cantidad dentro de la cuenta abierta de una mesa.
// Nombre y precio unitario son snapshots del producto al momento de agregarla.
type OrderLine struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TableID     uint    `gorm:"index;not null" json:"table_id"`
	ProductID   uint    `gorm:"index;not null" json:"product_id"`
	Product     Product `json:"-"`
	ProductName string  `gorm:"size:100;not null" json:"product_name"`
	Category    string  `gorm:"size:50" json:"category"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetQuantity actualiza cantidad y recalcula el subtotal con el precio snapshot.
func (l *OrderLine) SetQuantity(qty int) {
	l.Quantity = qty
	l.Subtotal = float64(qty) * l.UnitPrice
}
