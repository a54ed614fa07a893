package inventory

import (
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock-movements
// Filtros: ?product_id=, ?kind=, ?from=YYYY-MM-DD, ?to=YYYY-MM-DD, ?limit=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.StockMovement{}).Order("date DESC, id DESC")

		if productID := c.QueryInt("product_id"); productID > 0 {
			q = q.Where("product_id = ?", productID)
		}
		if kind := c.Query("kind"); kind != "" {
			q = q.Where("kind = ?", kind)
		}
		if from := c.Query("from"); from != "" {
			d, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Formato de fecha 'from' debe ser YYYY-MM-DD")
			}
			q = q.Where("date >= ?", d)
		}
		if to := c.Query("to"); to != "" {
			d, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Formato de fecha 'to' debe ser YYYY-MM-DD")
			}
			q = q.Where("date < ?", d.AddDate(0, 0, 1))
		}

		limit := c.QueryInt("limit", 100)
		if limit > 0 {
			q = q.Limit(limit)
		}

		var movements []models.StockMovement
		if err := q.Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los movimientos")
		}

		return c.JSON(movements)
	}
}

// GET /api/stock-movements/recent
func RecentMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movements []models.StockMovement
		if err := database.DB.Order("date DESC, id DESC").Limit(10).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los movimientos")
		}

		return c.JSON(movements)
	}
}

type AdjustStockRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Positive  bool   `json:"positive"`
	Reason    string `json:"reason"`
	User      string `json:"user"`
}

// POST /api/stock-movements/adjust
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id es obligatorio")
		}

		product, err := Adjust(body.ProductID, body.Quantity, body.Positive, body.Reason, body.User)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(product)
	}
}
