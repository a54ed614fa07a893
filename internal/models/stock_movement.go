package models

import "time"

type MovementKind string

const (
	MovementIn         MovementKind = "in"      // compra o entrada de stock
	MovementOut        MovementKind = "out"     // venta o salida de stock
	MovementAdjustUp   MovementKind = "adjust+" // corrección aumentando
	MovementAdjustDown MovementKind = "adjust-" // corrección disminuyendo
	MovementReturn     MovementKind = "return"  // devolución a stock (línea quitada)
)

// StockMovement: entrada de auditoría por cada cambio de stock de un producto.
// StockAfter siempre es StockBefore +/- Quantity según el tipo.
type StockMovement struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ProductID   uint         `gorm:"index;not null" json:"product_id"`
	Product     Product      `json:"-"`
	Kind        MovementKind `gorm:"size:20;not null;index" json:"kind"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	StockBefore int          `gorm:"not null" json:"stock_before"`
	StockAfter  int          `gorm:"not null" json:"stock_after"`
	UnitCost    *float64     `json:"unit_cost"`
	TotalCost   *float64     `json:"total_cost"`
	Reason      string       `gorm:"size:255" json:"reason"`
	User        string       `gorm:"size:100" json:"user"`
	Document    string       `gorm:"size:50" json:"document"`
	Date        time.Time    `gorm:"index;not null" json:"date"`
}
