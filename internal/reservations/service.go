package reservations

import (
	"errors"
	"strings"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

// Transiciones permitidas. Sentada, cancelada y no-show son terminales;
// sentada solo se alcanza desde pendiente o confirmada.
var transitions = map[models.ReservationState][]models.ReservationState{
	models.ReservationPending:   {models.ReservationConfirmed, models.ReservationSeated, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationConfirmed: {models.ReservationSeated, models.ReservationCancelled, models.ReservationNoShow},
}

func canTransition(from, to models.ReservationState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// overlaps busca reservas activas de la mesa que choquen con [start, end).
// Intervalos semiabiertos: una reserva que termina 21:00 no choca con otra
// que empieza 21:00.
func overlaps(tx *gorm.DB, tableID uint, start, end time.Time, excludeID uint) (*models.Reservation, error) {
	var existing []models.Reservation
	err := tx.Where("table_id = ? AND state IN ?", tableID, []models.ReservationState{
		models.ReservationPending,
		models.ReservationConfirmed,
		models.ReservationSeated,
	}).Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID {
			continue
		}
		if start.Before(r.EndsAt()) && r.StartsAt.Before(end) {
			return r, nil
		}
	}
	return nil, nil
}

// Create agenda una reserva validando mesa, horario futuro y solapamiento
// contra las reservas activas de esa mesa.
func Create(res *models.Reservation) (*models.Reservation, error) {
	res.ClientName = strings.TrimSpace(res.ClientName)
	if res.ClientName == "" {
		return nil, errors.New("el nombre del cliente es obligatorio")
	}
	if res.PartySize <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if res.DurationMinutes <= 0 {
		res.DurationMinutes = 120
	}
	if res.StartsAt.Before(time.Now()) {
		return nil, domain.ErrReservationInPast
	}
	if res.State == "" {
		res.State = models.ReservationPending
	}

	unlock := keylock.Default.Lock(keylock.TableKey(res.TableID))
	defer unlock()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, "id = ?", res.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		conflict, err := overlaps(tx, res.TableID, res.StartsAt, res.EndsAt(), 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.ScheduleConflictError{
				TableID: res.TableID,
				Start:   conflict.StartsAt,
				End:     conflict.EndsAt(),
			}
		}

		return tx.Create(res).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Transition mueve la reserva al estado pedido. Sentar al cliente marca la
// mesa como ocupada.
func Transition(id uint, to models.ReservationState) (*models.Reservation, error) {
	var res *models.Reservation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if !canTransition(r.State, to) {
			return domain.ErrInvalidTransition
		}

		r.State = to
		if err := tx.Save(&r).Error; err != nil {
			return err
		}

		if to == models.ReservationSeated {
			if err := tx.Model(&models.Table{}).
				Where("id = ?", r.TableID).
				Update("state", models.TableOccupied).Error; err != nil {
				return err
			}
		}
		res = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update reprograma una reserva activa, revalidando el solapamiento si
// cambian mesa, horario o duración.
func Update(id uint, startsAt *time.Time, durationMinutes *int, partySize *int, notes *string) (*models.Reservation, error) {
	var res *models.Reservation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if r.IsTerminal() {
			return domain.ErrInvalidTransition
		}

		reschedule := false
		if startsAt != nil {
			if startsAt.Before(time.Now()) {
				return domain.ErrReservationInPast
			}
			r.StartsAt = *startsAt
			reschedule = true
		}
		if durationMinutes != nil {
			if *durationMinutes <= 0 {
				return domain.ErrInvalidQuantity
			}
			r.DurationMinutes = *durationMinutes
			reschedule = true
		}
		if partySize != nil {
			if *partySize <= 0 {
				return domain.ErrInvalidQuantity
			}
			r.PartySize = *partySize
		}
		if notes != nil {
			r.Notes = *notes
		}

		if reschedule {
			conflict, err := overlaps(tx, r.TableID, r.StartsAt, r.EndsAt(), r.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &domain.ScheduleConflictError{
					TableID: r.TableID,
					Start:   conflict.StartsAt,
					End:     conflict.EndsAt(),
				}
			}
		}

		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		res = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func Delete(id uint) error {
	result := database.DB.Delete(&models.Reservation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
