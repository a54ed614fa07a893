package models

import "time"

type ReservationState string

const (
	ReservationPending   ReservationState = "pending"
	ReservationConfirmed ReservationState = "confirmed"
	ReservationSeated    ReservationState = "seated"
	ReservationCancelled ReservationState = "cancelled"
	ReservationNoShow    ReservationState = "no_show"
)

// Reservation: ocupación futura de una mesa en la ventana
// [StartsAt, StartsAt + DurationMinutes).
type Reservation struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	TableID         uint             `gorm:"index;not null" json:"table_id"`
	Table           Table            `json:"-"`
	ClientName      string           `gorm:"size:100;not null" json:"client_name"`
	ClientPhone     string           `gorm:"size:30" json:"client_phone"`
	ClientEmail     string           `gorm:"size:100" json:"client_email"`
	StartsAt        time.Time        `gorm:"index;not null" json:"starts_at"`
	DurationMinutes int              `gorm:"not null;default:120" json:"duration_minutes"`
	PartySize       int              `gorm:"not null" json:"party_size"`
	State           ReservationState `gorm:"size:20;not null;default:'pending';index" json:"state"`
	Notes           string           `gorm:"size:255" json:"notes"`
	CreatedBy       string           `gorm:"size:100" json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (r *Reservation) EndsAt() time.Time {
	return r.StartsAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// IsActive: las reservas activas bloquean la mesa en su ventana horaria.
func (r *Reservation) IsActive() bool {
	return r.State == ReservationPending || r.State == ReservationConfirmed || r.State == ReservationSeated
}

// IsTerminal: sentada (éxito), cancelada y no-show no admiten más cambios.
func (r *Reservation) IsTerminal() bool {
	return r.State == ReservationSeated || r.State == ReservationCancelled || r.State == ReservationNoShow
}
