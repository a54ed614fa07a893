package tables

import (
	"errors"
	"fmt"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/inventory"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

// Máquina de estados de la mesa: libre -> (primera línea) -> ocupada ->
// (se vacía, se libera o se cierra la venta) -> libre. Cada operación corre
// en una transacción bajo los locks de mesa y producto.

func loadTable(tx *gorm.DB, tableID uint) (*models.Table, error) {
	var table models.Table
	if err := tx.Preload("Lines").First(&table, "id = ?", tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// AddLine agrega un producto a la cuenta de la mesa: snapshot de nombre y
// precio, subtotal = cantidad x precio, mesa pasa a ocupada y el stock se
// descuenta en la misma transacción.
func AddLine(tableID, productID uint, qty int) (*models.Table, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	unlock := keylock.Default.Lock(keylock.TableKey(tableID), keylock.ProductKey(productID))
	defer unlock()

	var result *models.Table
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		table, err := loadTable(tx, tableID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if product.Stock < qty {
			return &domain.InsufficientStockError{Available: product.Stock, Requested: qty}
		}

		line := models.OrderLine{
			TableID:     table.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Category:    product.Category,
			Quantity:    qty,
			UnitPrice:   product.Price,
			Subtotal:    float64(qty) * product.Price,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}

		table.Lines = append(table.Lines, line)
		table.RecomputeTotal()
		table.State = models.TableOccupied
		if err := tx.Save(table).Error; err != nil {
			return err
		}

		if _, err := inventory.Decrease(tx, product.ID, qty, inventory.MovementInfo{
			Kind:   models.MovementOut,
			Reason: fmt.Sprintf("Venta mesa %s", table.Label()),
		}); err != nil {
			return err
		}

		result = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lineProductID resuelve el producto de una línea con una lectura rápida
// fuera de la transacción, para poder tomar su lock junto al de la mesa.
// La línea se vuelve a leer dentro de la transacción.
func lineProductID(tableID, lineID uint) (uint, error) {
	var line models.OrderLine
	if err := database.DB.First(&line, "id = ? AND table_id = ?", lineID, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return line.ProductID, nil
}

// UpdateLineQuantity cambia la cantidad de una línea. El delta contra la
// cantidad anterior se descuenta o devuelve al stock; el precio unitario
// snapshot no cambia.
func UpdateLineQuantity(tableID, lineID uint, newQty int) (*models.Table, error) {
	if newQty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	productID, err := lineProductID(tableID, lineID)
	if err != nil {
		return nil, err
	}

	unlock := keylock.Default.Lock(keylock.TableKey(tableID), keylock.ProductKey(productID))
	defer unlock()

	var result *models.Table
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		table, err := loadTable(tx, tableID)
		if err != nil {
			return err
		}

		var line models.OrderLine
		if err := tx.First(&line, "id = ? AND table_id = ?", lineID, table.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		delta := newQty - line.Quantity
		reason := fmt.Sprintf("Ajuste pedido mesa %s", table.Label())
		if delta > 0 {
			if _, err := inventory.Decrease(tx, line.ProductID, delta, inventory.MovementInfo{
				Kind:   models.MovementOut,
				Reason: reason,
			}); err != nil {
				return err
			}
		} else if delta < 0 {
			if _, err := inventory.Increase(tx, line.ProductID, -delta, inventory.MovementInfo{
				Kind:   models.MovementReturn,
				Reason: reason,
			}); err != nil {
				return err
			}
		}

		line.SetQuantity(newQty)
		if err := tx.Save(&line).Error; err != nil {
			return err
		}

		table, err = loadTable(tx, tableID)
		if err != nil {
			return err
		}
		table.RecomputeTotal()
		if err := tx.Save(table).Error; err != nil {
			return err
		}

		result = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveLine quita una línea devolviendo su cantidad al stock. Si la mesa
// queda sin líneas vuelve a libre con total 0.
func RemoveLine(tableID, lineID uint) (*models.Table, error) {
	productID, err := lineProductID(tableID, lineID)
	if err != nil {
		return nil, err
	}

	unlock := keylock.Default.Lock(keylock.TableKey(tableID), keylock.ProductKey(productID))
	defer unlock()

	var result *models.Table
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		table, err := loadTable(tx, tableID)
		if err != nil {
			return err
		}

		var line models.OrderLine
		if err := tx.First(&line, "id = ? AND table_id = ?", lineID, table.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if _, err := inventory.Increase(tx, line.ProductID, line.Quantity, inventory.MovementInfo{
			Kind:   models.MovementReturn,
			Reason: fmt.Sprintf("Pedido quitado mesa %s", table.Label()),
		}); err != nil {
			return err
		}

		if err := tx.Delete(&line).Error; err != nil {
			return err
		}

		table, err = loadTable(tx, tableID)
		if err != nil {
			return err
		}
		table.RecomputeTotal()
		if len(table.Lines) == 0 {
			table.State = models.TableFree
			table.Total = 0
		}
		if err := tx.Save(table).Error; err != nil {
			return err
		}

		result = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Release limpia todas las líneas SIN devolver stock y deja la mesa libre.
// Se usa tras cerrar la venta, donde el stock ya fue consumido.
func Release(tableID uint) (*models.Table, error) {
	unlock := keylock.Default.Lock(keylock.TableKey(tableID))
	defer unlock()

	var result *models.Table
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		table, err := ReleaseTx(tx, tableID)
		if err != nil {
			return err
		}
		result = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleaseTx es la variante componible de Release para correr dentro de una
// transacción mayor (el cierre de venta). El caller es responsable del lock
// de la mesa.
func ReleaseTx(tx *gorm.DB, tableID uint) (*models.Table, error) {
	table, err := loadTable(tx, tableID)
	if err != nil {
		return nil, err
	}

	if err := tx.Where("table_id = ?", table.ID).Delete(&models.OrderLine{}).Error; err != nil {
		return nil, err
	}

	table.Lines = nil
	table.State = models.TableFree
	table.Total = 0
	if err := tx.Save(table).Error; err != nil {
		return nil, err
	}

	return table, nil
}

// Create valida número único y arranca la mesa libre con total 0.
func Create(number int, name string) (*models.Table, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var table *models.Table
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Table{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateName
		}

		table = &models.Table{
			Number: number,
			Name:   name,
			State:  models.TableFree,
			Total:  0,
		}
		return tx.Create(table).Error
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Update cambia número y nombre; estado y total solo los mueven las
// operaciones de pedido.
func Update(id uint, number int, name string) (*models.Table, error) {
	var table *models.Table
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := loadTable(tx, id)
		if err != nil {
			return err
		}

		if number != existing.Number {
			var count int64
			if err := tx.Model(&models.Table{}).Where("number = ? AND id <> ?", number, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrDuplicateName
			}
			existing.Number = number
		}
		if name != "" {
			existing.Name = name
		}

		table = existing
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Delete rechaza mesas ocupadas; las líneas caen en cascada.
func Delete(id uint) error {
	unlock := keylock.Default.Lock(keylock.TableKey(id))
	defer unlock()

	return database.DB.Transaction(func(tx *gorm.DB) error {
		table, err := loadTable(tx, id)
		if err != nil {
			return err
		}

		if table.State == models.TableOccupied {
			return domain.ErrTableOccupied
		}

		if err := tx.Where("table_id = ?", table.ID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(table).Error
	})
}
