package models

import "time"

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Expense: una salida de dinero. Puede descontarse de una caja al crearse;
// borrar el gasto nunca devuelve el dinero a la caja.
type Expense struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Concept   string        `gorm:"size:200;not null" json:"concept"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Method    PaymentMethod `gorm:"size:20;not null" json:"method"`
	Category  string        `gorm:"size:50" json:"category"`
	Period    string        `gorm:"size:20;index" json:"period"` // "2026-08"
	User      string        `gorm:"size:100" json:"user"`
	Date      time.Time     `gorm:"index;not null" json:"date"`
	CreatedAt time.Time     `json:"created_at"`
}

func (e *Expense) IsCash() bool {
	return e.Method == PaymentCash
}

func (e *Expense) IsTransfer() bool {
	return e.Method == PaymentTransfer
}
