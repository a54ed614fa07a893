package discounts

import (
	"strings"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DiscountRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Kind        models.DiscountKind `json:"kind"`
	Value       float64             `json:"value"`
	MinPurchase *float64            `json:"min_purchase"`
	Active      *bool               `json:"active"`
	StartsAt    *time.Time          `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at"`
}

type ApplyDiscountRequest struct {
	Amount float64 `json:"amount"`
}

func validKind(k models.DiscountKind) bool {
	return k == models.DiscountPercent || k == models.DiscountFixed
}

func CreateDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DiscountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if !validKind(req.Kind) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de descuento inválido")
		}
		if req.Value <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El valor debe ser mayor a cero")
		}
		if req.Kind == models.DiscountPercent && req.Value > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "El porcentaje no puede superar 100")
		}

		discount := models.Discount{
			Name:        req.Name,
			Description: req.Description,
			Kind:        req.Kind,
			Value:       req.Value,
			Active:      true,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
		}
		if req.MinPurchase != nil {
			discount.MinPurchase = *req.MinPurchase
		}
		if err := database.DB.Create(&discount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear el descuento")
		}
		return c.Status(fiber.StatusCreated).JSON(discount)
	}
}

// ListDiscountsHandler lista descuentos; ?valid=true devuelve solo los
// vigentes ahora mismo.
func ListDiscountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var discounts []models.Discount
		if err := database.DB.Order("name ASC").Find(&discounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar descuentos")
		}
		if c.Query("valid") == "true" {
			now := time.Now()
			valid := discounts[:0]
			for _, d := range discounts {
				if d.IsValidAt(now) {
					valid = append(valid, d)
				}
			}
			discounts = valid
		}
		return c.JSON(discounts)
	}
}

func GetDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var discount models.Discount
		if err := database.DB.First(&discount, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Descuento no encontrado")
		}
		return c.JSON(discount)
	}
}

func UpdateDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var discount models.Discount
		if err := database.DB.First(&discount, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Descuento no encontrado")
		}

		var req DiscountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			discount.Name = name
		}
		if req.Description != "" {
			discount.Description = req.Description
		}
		if req.Kind != "" {
			if !validKind(req.Kind) {
				return fiber.NewError(fiber.StatusBadRequest, "Tipo de descuento inválido")
			}
			discount.Kind = req.Kind
		}
		if req.Value > 0 {
			if discount.Kind == models.DiscountPercent && req.Value > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "El porcentaje no puede superar 100")
			}
			discount.Value = req.Value
		}
		if req.MinPurchase != nil {
			discount.MinPurchase = *req.MinPurchase
		}
		if req.Active != nil {
			discount.Active = *req.Active
		}
		if req.StartsAt != nil {
			discount.StartsAt = req.StartsAt
		}
		if req.EndsAt != nil {
			discount.EndsAt = req.EndsAt
		}

		if err := database.DB.Save(&discount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el descuento")
		}
		return c.JSON(discount)
	}
}

func DeleteDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		result := database.DB.Delete(&models.Discount{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar el descuento")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Descuento no encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ApplyDiscountHandler calcula el monto final para un total dado, sin
// persistir nada.
func ApplyDiscountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var discount models.Discount
		if err := database.DB.First(&discount, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Descuento no encontrado")
		}
		var req ApplyDiscountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if req.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El monto no puede ser negativo")
		}

		if !discount.IsValidAt(time.Now()) {
			return fiber.NewError(fiber.StatusConflict, "El descuento no está vigente")
		}
		final := discount.Apply(req.Amount)
		return c.JSON(fiber.Map{
			"original": req.Amount,
			"final":    final,
			"saved":    req.Amount - final,
		})
	}
}
