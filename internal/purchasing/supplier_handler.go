package purchasing

import (
	"strings"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SupplierRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}

		var count int64
		database.DB.Model(&models.Supplier{}).Where("name = ?", req.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe un proveedor con ese nombre")
		}

		supplier := models.Supplier{
			Name:   req.Name,
			Phone:  req.Phone,
			Email:  req.Email,
			Active: true,
		}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear el proveedor")
		}
		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// ListSuppliersHandler lista proveedores; ?active=true solo los activos.
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Supplier{})
		if c.Query("active") == "true" {
			query = query.Where("active = ?", true)
		}
		var suppliers []models.Supplier
		if err := query.Order("name ASC").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar proveedores")
		}
		return c.JSON(suppliers)
	}
}

func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Proveedor no encontrado")
		}

		var req SupplierRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if name := strings.TrimSpace(req.Name); name != "" && name != supplier.Name {
			var count int64
			database.DB.Model(&models.Supplier{}).
				Where("name = ? AND id <> ?", name, supplier.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Ya existe un proveedor con ese nombre")
			}
			supplier.Name = name
		}
		if req.Phone != "" {
			supplier.Phone = req.Phone
		}
		if req.Email != "" {
			supplier.Email = req.Email
		}
		if req.Active != nil {
			supplier.Active = *req.Active
		}

		if err := database.DB.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el proveedor")
		}
		return c.JSON(supplier)
	}
}

// ToggleSupplierHandler invierte el estado activo del proveedor. Un
// proveedor inactivo no admite compras nuevas, pero su historial queda.
func ToggleSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Proveedor no encontrado")
		}
		supplier.Active = !supplier.Active
		if err := database.DB.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el proveedor")
		}
		return c.JSON(supplier)
	}
}
