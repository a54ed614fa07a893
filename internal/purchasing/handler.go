package purchasing

import (
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input PurchaseInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		switch input.Method {
		case "cash", "transfer", "credit":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Método de pago inválido")
		}

		purchase, err := Register(input)
		if err != nil {
			return domain.ToFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(purchase)
	}
}

// ListPurchasesHandler filtra por ?supplier_id, ?document y rango
// ?from/?to (YYYY-MM-DD, sobre la fecha de entrega).
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Purchase{}).
			Preload("Supplier").
			Preload("Lines")
		if id := c.QueryInt("supplier_id"); id > 0 {
			query = query.Where("supplier_id = ?", id)
		}
		if doc := c.Query("document"); doc != "" {
			query = query.Where("document_number = ?", doc)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida")
			}
			query = query.Where("delivery_date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida")
			}
			query = query.Where("delivery_date < ?", t.AddDate(0, 0, 1))
		}

		var purchases []models.Purchase
		if err := query.Order("delivery_date DESC").Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar compras")
		}
		return c.JSON(purchases)
	}
}

func GetPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var purchase models.Purchase
		if err := database.DB.
			Preload("Supplier").
			Preload("Lines").
			First(&purchase, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Compra no encontrada")
		}
		return c.JSON(purchase)
	}
}
