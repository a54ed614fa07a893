package register

import (
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OpenRegisterRequest struct {
	Number       int          `json:"number"`
	Shift        models.Shift `json:"shift"`
	OpeningFloat float64      `json:"opening_float"`
	User         string       `json:"user"`
}

type CloseRegisterRequest struct {
	User string `json:"user"`
}

type AmountRequest struct {
	Amount float64 `json:"amount"`
}

type CloseRegisterResponse struct {
	Register *models.CashRegister   `json:"register"`
	Closure  *models.RegisterClosure `json:"closure"`
}

func OpenRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req OpenRegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if req.Number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Número de caja inválido")
		}
		if req.OpeningFloat < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La base inicial no puede ser negativa")
		}
		switch req.Shift {
		case models.ShiftMorning, models.ShiftAfternoon, models.ShiftNight:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Turno inválido")
		}

		reg, err := Open(req.Number, req.Shift, req.OpeningFloat, req.User)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(reg)
	}
}

func CloseRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var req CloseRegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		reg, closure, err := Close(uint(id), req.User)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.JSON(CloseRegisterResponse{Register: reg, Closure: closure})
	}
}

func GetRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var reg models.CashRegister
		if err := database.DB.First(&reg, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Caja no encontrada")
		}
		return c.JSON(reg)
	}
}

// ListRegistersHandler lista instancias de caja. ?open=true filtra las
// abiertas, ?number=N el historial de un número físico.
func ListRegistersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.CashRegister{})
		if c.Query("open") == "true" {
			query = query.Where("open = ?", true)
		}
		if number := c.QueryInt("number"); number > 0 {
			query = query.Where("number = ?", number)
		}

		var regs []models.CashRegister
		if err := query.Order("opened_at DESC").Find(&regs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar cajas")
		}
		return c.JSON(regs)
	}
}

func UpdateReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var req AmountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if req.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El monto no puede ser negativo")
		}

		reg, err := UpdateReceivable(uint(id), req.Amount)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.JSON(reg)
	}
}

// ListClosuresHandler lista cierres, opcionalmente por rango ?from/?to
// (YYYY-MM-DD) o por ?number.
func ListClosuresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.RegisterClosure{})
		if number := c.QueryInt("number"); number > 0 {
			query = query.Where("register_number = ?", number)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("closed_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("closed_at < ?", t.AddDate(0, 0, 1))
		}

		var closures []models.RegisterClosure
		if err := query.Order("closed_at DESC").Find(&closures).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar cierres")
		}
		return c.JSON(closures)
	}
}

func LatestClosureHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := c.ParamsInt("number")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Número inválido")
		}
		var closure models.RegisterClosure
		if err := database.DB.
			Where("register_number = ?", number).
			Order("closed_at DESC").
			First(&closure).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sin cierres para esa caja")
		}
		return c.JSON(closure)
	}
}

type ClosureSummaryResponse struct {
	Count         int64   `json:"count"`
	TotalSales    float64 `json:"total_sales"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalCash     float64 `json:"total_cash"`
	TotalTransfers float64 `json:"total_transfers"`
}

// ClosureSummaryHandler acumula cierres del rango ?from/?to.
func ClosureSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.RegisterClosure{})
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("closed_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("closed_at < ?", t.AddDate(0, 0, 1))
		}

		var summary ClosureSummaryResponse
		row := query.Select(
			"COUNT(*) AS count, " +
				"COALESCE(SUM(total_sales), 0) AS total_sales, " +
				"COALESCE(SUM(total_expenses), 0) AS total_expenses, " +
				"COALESCE(SUM(cash), 0) AS total_cash, " +
				"COALESCE(SUM(transfers), 0) AS total_transfers")
		if err := row.Scan(&summary).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al acumular cierres")
		}
		return c.JSON(summary)
	}
}
