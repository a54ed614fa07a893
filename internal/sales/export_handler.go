package sales

import (
	"fmt"

	"nexuspos-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportSalesHandler genera un xlsx con las ventas del rango, una hoja de
// ventas y otra de líneas.
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		rows, err := salesBetween(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar ventas")
		}

		f := excelize.NewFile()
		defer f.Close()

		const salesSheet = "Ventas"
		f.SetSheetName("Sheet1", salesSheet)
		headers := []interface{}{"ID", "Mesa", "Fecha", "Total", "Efectivo", "Transferencias"}
		if err := f.SetSheetRow(salesSheet, "A1", &headers); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
		}
		for i, sale := range rows {
			cell := fmt.Sprintf("A%d", i+2)
			row := []interface{}{
				sale.ID,
				sale.TableLabel,
				sale.CreatedAt.Format("2006-01-02 15:04"),
				sale.Total,
				sale.Cash,
				sale.Transfers,
			}
			if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
			}
		}

		const linesSheet = "Detalle"
		if _, err := f.NewSheet(linesSheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
		}
		lineHeaders := []interface{}{"Venta", "Producto", "Categoría", "Cantidad", "Precio", "Subtotal"}
		if err := f.SetSheetRow(linesSheet, "A1", &lineHeaders); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
		}
		lineRow := 2
		for i := range rows {
			lines, err := Lines(&rows[i])
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Detalle de venta corrupto")
			}
			for _, l := range lines {
				cell := fmt.Sprintf("A%d", lineRow)
				row := []interface{}{rows[i].ID, l.ProductName, l.Category, l.Quantity, l.UnitPrice, l.Subtotal}
				if err := f.SetSheetRow(linesSheet, cell, &row); err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
				}
				lineRow++
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
		}

		filename := fmt.Sprintf("ventas_%s_%s.xlsx",
			from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
