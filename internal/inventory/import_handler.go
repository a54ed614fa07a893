package inventory

import (
	"strconv"
	"strings"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportResultResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// POST /api/admin/products/import
// Carga masiva de productos desde un .xlsx con columnas:
// nombre | categoría | precio | stock. Si el producto ya existe (por nombre)
// se actualizan precio y categoría; el stock solo se fija al crear.
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo subir el archivo: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se aceptan archivos .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo abrir el archivo")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo leer el Excel: "+err.Error())
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El Excel no tiene hojas")
		}

		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo leer la hoja: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El Excel está vacío")
		}

		// Saltar la fila de encabezados si la primera celda parece un título.
		start := 0
		if len(rows[0]) > 0 {
			first := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(first, "NOMBRE") || strings.Contains(first, "PRODUCTO") || strings.Contains(first, "NAME") {
				start = 1
			}
		}

		result := ImportResultResponse{Skipped: make([]string, 0)}
		for i := start; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 3 {
				continue
			}

			name := strings.TrimSpace(row[0])
			if name == "" {
				continue
			}
			category := strings.TrimSpace(row[1])

			price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil || price <= 0 {
				result.Skipped = append(result.Skipped, name)
				continue
			}

			stock := 0
			if len(row) > 3 {
				stock, _ = strconv.Atoi(strings.TrimSpace(row[3]))
				if stock < 0 {
					stock = 0
				}
			}

			var existing models.Product
			if err := database.DB.Where("name = ?", name).First(&existing).Error; err == nil {
				existing.Category = category
				existing.Price = price
				if err := database.DB.Save(&existing).Error; err != nil {
					result.Skipped = append(result.Skipped, name)
					continue
				}
				result.Updated++
				continue
			}

			product := models.Product{
				Name:     name,
				Category: category,
				Price:    price,
				Stock:    stock,
				MinStock: 10,
			}
			if err := database.DB.Create(&product).Error; err != nil {
				result.Skipped = append(result.Skipped, name)
				continue
			}
			result.Created++
		}

		return c.JSON(result)
	}
}
