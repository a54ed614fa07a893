package expense

import (
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Concept    string               `json:"concept"`
	Amount     float64              `json:"amount"`
	Method     models.PaymentMethod `json:"method"`
	Category   string               `json:"category"`
	User       string               `json:"user"`
	Date       *time.Time           `json:"date"`
	RegisterID *uint                `json:"register_id"`
}

func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateExpenseRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if req.Method != models.PaymentCash && req.Method != models.PaymentTransfer {
			return fiber.NewError(fiber.StatusBadRequest, "Método de pago inválido")
		}

		exp := &models.Expense{
			Concept:  req.Concept,
			Amount:   req.Amount,
			Method:   req.Method,
			Category: req.Category,
			User:     req.User,
		}
		if req.Date != nil {
			exp.Date = *req.Date
		}

		created, err := Record(exp, req.RegisterID)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func DeleteExpenseHandler() fiber.Handler {
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

// ListExpensesHandler filtra por ?period (YYYY-MM), ?method, ?category y
// rango ?from/?to (YYYY-MM-DD).
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Expense{})
		if period := c.Query("period"); period != "" {
			query = query.Where("period = ?", period)
		}
		if method := c.Query("method"); method != "" {
			query = query.Where("method = ?", method)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("date < ?", t.AddDate(0, 0, 1))
		}

		var expenses []models.Expense
		if err := query.Order("date DESC").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar gastos")
		}
		return c.JSON(expenses)
	}
}

// ExpenseTotalsHandler acumula gastos del período (?period, default mes
// actual) desglosados por método.
func ExpenseTotalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period")
		if period == "" {
			period = time.Now().Format("2006-01")
		}
		totals, err := TotalsFor(database.DB.Where("period = ?", period))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al acumular gastos")
		}
		return c.JSON(fiber.Map{
			"period":    period,
			"total":     totals.Total,
			"cash":      totals.Cash,
			"transfers": totals.Transfers,
		})
	}
}
