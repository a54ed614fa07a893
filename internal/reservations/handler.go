package reservations

import (
	"strings"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateReservationRequest struct {
	TableID         uint      `json:"table_id"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	ClientEmail     string    `json:"client_email"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	PartySize       int       `json:"party_size"`
	Notes           string    `json:"notes"`
	CreatedBy       string    `json:"created_by"`
}

type UpdateReservationRequest struct {
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	PartySize       *int       `json:"party_size"`
	Notes           *string    `json:"notes"`
}

func CreateReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateReservationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		res := &models.Reservation{
			TableID:         req.TableID,
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			ClientEmail:     req.ClientEmail,
			StartsAt:        req.StartsAt,
			DurationMinutes: req.DurationMinutes,
			PartySize:       req.PartySize,
			Notes:           req.Notes,
			CreatedBy:       req.CreatedBy,
		}
		created, err := Create(res)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ListReservationsHandler filtra por ?table_id, ?state, ?client (LIKE),
// ?date (YYYY-MM-DD) o rango ?from/?to. ?active=true limita a estados
// activos.
func ListReservationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Reservation{})
		if id := c.QueryInt("table_id"); id > 0 {
			query = query.Where("table_id = ?", id)
		}
		if state := c.Query("state"); state != "" {
			query = query.Where("state = ?", state)
		}
		if c.Query("active") == "true" {
			query = query.Where("state IN ?", []models.ReservationState{
				models.ReservationPending,
				models.ReservationConfirmed,
				models.ReservationSeated,
			})
		}
		if client := c.Query("client"); client != "" {
			query = query.Where("LOWER(client_name) LIKE ?", "%"+strings.ToLower(client)+"%")
		}
		if date := c.Query("date"); date != "" {
			t, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha inválida")
			}
			query = query.Where("starts_at >= ? AND starts_at < ?", t, t.AddDate(0, 0, 1))
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("starts_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("starts_at < ?", t.AddDate(0, 0, 1))
		}

		var reservations []models.Reservation
		if err := query.Order("starts_at ASC").Find(&reservations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar reservas")
		}
		return c.JSON(reservations)
	}
}

func GetReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var res models.Reservation
		if err := database.DB.First(&res, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reserva no encontrada")
		}
		return c.JSON(res)
	}
}

func UpdateReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var req UpdateReservationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		res, err := Update(uint(id), req.StartsAt, req.DurationMinutes, req.PartySize, req.Notes)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.JSON(res)
	}
}

func transitionHandler(to models.ReservationState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		res, err := Transition(uint(id), to)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.JSON(res)
	}
}

func ConfirmReservationHandler() fiber.Handler {
	return transitionHandler(models.ReservationConfirmed)
}

func SeatReservationHandler() fiber.Handler {
	return transitionHandler(models.ReservationSeated)
}

func CancelReservationHandler() fiber.Handler {
	return transitionHandler(models.ReservationCancelled)
}

func NoShowReservationHandler() fiber.Handler {
	return transitionHandler(models.ReservationNoShow)
}

func DeleteReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if err := Delete(uint(id)); err != nil {
			return domain.ToFiberError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
