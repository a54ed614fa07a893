package sales

import (
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CloseTableRequest struct {
	Cash       float64 `json:"cash"`
	Transfers  float64 `json:"transfers"`
	RegisterID *uint   `json:"register_id"`
}

func CloseTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var req CloseTableRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if req.Cash < 0 || req.Transfers < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Los montos no pueden ser negativos")
		}

		sale, err := CloseTable(uint(id), req.Cash, req.Transfers, req.RegisterID)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// ListSalesHandler lista ventas, ?from/?to (YYYY-MM-DD) y ?limit.
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Sale{})
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("created_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
		limit := c.QueryInt("limit")
		if limit > 0 {
			query = query.Limit(limit)
		}

		var sales []models.Sale
		if err := query.Order("created_at DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar ventas")
		}
		return c.JSON(sales)
	}
}

func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venta no encontrada")
		}
		lines, err := Lines(&sale)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Detalle de venta corrupto")
		}
		return c.JSON(fiber.Map{"sale": sale, "lines": lines})
	}
}

func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now.AddDate(0, 0, 1)

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// SummaryHandler resume ventas del rango (default: mes en curso).
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		summary, err := SummaryBetween(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al resumir ventas")
		}
		return c.JSON(summary)
	}
}

func DailyTotalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		totals, err := DailyTotals(database.DB, days)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar ventas diarias")
		}
		return c.JSON(totals)
	}
}

func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		limit := c.QueryInt("limit", 10)
		ranks, err := TopProducts(database.DB, from, to, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al rankear productos")
		}
		return c.JSON(ranks)
	}
}

func ByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		totals, err := ByCategory(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al agrupar por categoría")
		}
		return c.JSON(totals)
	}
}
