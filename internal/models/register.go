package models

import "time"

type Shift string

const (
	ShiftMorning   Shift = "morning"   // 06:00 - 14:00
	ShiftAfternoon Shift = "afternoon" // 14:00 - 22:00
	ShiftNight     Shift = "night"     // 22:00 - 06:00
)

// CashRegister: una instancia de caja para un turno. Se abre, acumula
// efectivo/transferencias, y al cerrarse queda como histórico (nunca se reabre).
type CashRegister struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Number       int       `gorm:"not null;index" json:"number"`
	Shift        Shift     `gorm:"size:20;not null" json:"shift"`
	Cash         float64   `gorm:"not null;default:0" json:"cash"`
	Transfers    float64   `gorm:"not null;default:0" json:"transfers"`
	Receivable   float64   `gorm:"not null;default:0" json:"receivable"` // saldo por cobrar
	Open         bool      `gorm:"not null;default:false;index" json:"open"`
	OpeningFloat float64   `gorm:"not null;default:0" json:"opening_float"` // base inicial
	OpenedAt     time.Time `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	OpenedBy     string    `gorm:"size:100" json:"opened_by"`
	ClosedBy     string    `gorm:"size:100" json:"closed_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Total: efectivo + transferencias en cualquier momento.
func (r *CashRegister) Total() float64 {
	return r.Cash + r.Transfers
}

// RegisterClosure: snapshot histórico e inmutable tomado al cerrar una caja.
// Es una copia puntual, no una referencia a la caja.
type RegisterClosure struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RegisterNumber int      `gorm:"not null;index" json:"register_number"`
	OpenedAt      time.Time `json:"opened_at"`
	ClosedAt      time.Time `gorm:"index" json:"closed_at"`
	OpeningFloat  float64   `gorm:"not null;default:0" json:"opening_float"`
	Cash          float64   `gorm:"not null;default:0" json:"cash"`
	Transfers     float64   `gorm:"not null;default:0" json:"transfers"`
	TotalSales    float64   `gorm:"not null;default:0" json:"total_sales"`
	TotalExpenses float64   `gorm:"not null;default:0" json:"total_expenses"`
	Receivable    float64   `gorm:"not null;default:0" json:"receivable"`
	NextFloat     float64   `gorm:"not null;default:0" json:"next_float"`
	Report        string    `gorm:"size:500" json:"report"`
	ClosedBy      string    `gorm:"size:100" json:"closed_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// FinalCash: lo que debería haber físicamente en el cajón al cierre.
func (c *RegisterClosure) FinalCash() float64 {
	return c.Cash
}

func (c *RegisterClosure) GrandTotal() float64 {
	return c.Cash + c.Transfers
}
