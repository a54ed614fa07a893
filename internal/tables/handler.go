package tables

import (
	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TableRequest struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// POST /api/tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if body.Number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El número de mesa debe ser mayor a 0")
		}

		table, err := Create(body.Number, body.Name)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

// GET /api/tables
// Filtro opcional: ?state=free|occupied
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Lines").Order("number ASC")

		if state := c.Query("state"); state != "" {
			q = q.Where("state = ?", state)
		}

		var tables []models.Table
		if err := q.Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las mesas")
		}

		return c.JSON(tables)
	}
}

// GET /api/tables/:id
func GetTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var table models.Table
		if err := database.DB.Preload("Lines").First(&table, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mesa no encontrada")
		}

		return c.JSON(table)
	}
}

// PUT /api/tables/:id
func UpdateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body TableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		table, err := Update(uint(id), body.Number, body.Name)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(table)
	}
}

// DELETE /api/tables/:id
func DeleteTableHandler() fiber.Handler {
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

type AddLineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// POST /api/tables/:id/lines
func AddLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body AddLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id es obligatorio")
		}

		table, err := AddLine(uint(id), body.ProductID, body.Quantity)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

// PUT /api/tables/:id/lines/:lineId
func UpdateLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		lineID, err := c.ParamsInt("lineId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID de línea inválido")
		}

		var body UpdateLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		table, err := UpdateLineQuantity(uint(id), uint(lineID), body.Quantity)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(table)
	}
}

// DELETE /api/tables/:id/lines/:lineId
func RemoveLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		lineID, err := c.ParamsInt("lineId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID de línea inválido")
		}

		table, err := RemoveLine(uint(id), uint(lineID))
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(table)
	}
}

// POST /api/tables/:id/release
// Limpia la cuenta sin devolver stock; normalmente lo invoca el cierre de
// venta, pero queda expuesto para liberar mesas manualmente.
func ReleaseTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		table, err := Release(uint(id))
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(table)
	}
}
