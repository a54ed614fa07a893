package inventory

import (
	"strings"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	MinStock *int    `json:"min_stock"`
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El precio debe ser mayor a 0")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El stock no puede ser negativo")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe un producto con el nombre: "+body.Name)
		}

		product := models.Product{
			Name:     body.Name,
			Category: body.Category,
			Price:    body.Price,
			Stock:    body.Stock,
			MinStock: 10,
		}
		if body.MinStock != nil {
			product.MinStock = *body.MinStock
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el producto")
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name != "" && body.Name != product.Name {
			var count int64
			database.DB.Model(&models.Product{}).Where("name = ? AND id <> ?", body.Name, product.ID).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Ya existe otro producto con el nombre: "+body.Name)
			}
			product.Name = body.Name
		}
		if body.Category != "" {
			product.Category = body.Category
		}
		if body.Price > 0 {
			product.Price = body.Price
		}
		if body.Stock >= 0 {
			product.Stock = body.Stock
		}
		if body.MinStock != nil {
			product.MinStock = *body.MinStock
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el producto")
		}

		return c.JSON(product)
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/products
// Filtros opcionales: ?category=..., ?search=..., ?low_stock=true, ?critical=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{}).Order("name ASC")

		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		if c.QueryBool("low_stock") {
			q = q.Where("stock < ?", 20)
		}
		if c.QueryBool("critical") {
			q = q.Where("stock < min_stock")
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los productos")
		}

		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		return c.JSON(product)
	}
}

// GET /api/products/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []string
		if err := database.DB.Model(&models.Product{}).
			Distinct("category").
			Where("category <> ''").
			Order("category ASC").
			Pluck("category", &categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las categorías")
		}

		return c.JSON(categories)
	}
}

type StockChangeRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
	User     string `json:"user"`
}

// POST /api/products/:id/add-stock
func AddStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body StockChangeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		product, err := Adjust(uint(id), body.Quantity, true, body.Reason, body.User)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(product)
	}
}

// POST /api/products/:id/reduce-stock
func ReduceStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body StockChangeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		product, err := Adjust(uint(id), body.Quantity, false, body.Reason, body.User)
		if err != nil {
			return domain.ToFiberError(err)
		}

		return c.JSON(product)
	}
}
