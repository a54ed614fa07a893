package sales

import (
	"encoding/json"
	"errors"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/register"
	"nexuspos-backend/internal/tables"

	"gorm.io/gorm"
)

// CloseTable cobra una mesa: valida el pago, acredita la caja, archiva la
// venta con sus líneas congeladas en JSON y libera la mesa. Todo o nada; el
// stock no se toca porque ya se descontó al cargar cada línea.
func CloseTable(tableID uint, cash, transfers float64, registerID *uint) (*models.Sale, error) {
	// Resolución rápida de la caja destino fuera de la transacción, para
	// poder tomar los locks en orden antes de abrirla.
	targetID, err := resolveRegister(registerID)
	if err != nil {
		return nil, err
	}

	unlock := keylock.Default.Lock(
		keylock.TableKey(tableID),
		keylock.RegisterKey(targetID),
	)
	defer unlock()

	var sale *models.Sale
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Preload("Lines").First(&table, "id = ?", tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if len(table.Lines) == 0 {
			return domain.ErrEmptyOrder
		}

		table.RecomputeTotal()
		paid := cash + transfers
		if paid < table.Total {
			return &domain.InsufficientPaymentError{Total: table.Total, Paid: paid}
		}

		if cash > 0 {
			if _, err := register.CreditCashTx(tx, targetID, cash); err != nil {
				return err
			}
		}
		if transfers > 0 {
			if _, err := register.CreditTransferTx(tx, targetID, transfers); err != nil {
				return err
			}
		}

		lines := make([]models.SaleLine, 0, len(table.Lines))
		for _, l := range table.Lines {
			lines = append(lines, models.SaleLine{
				ProductName: l.ProductName,
				Category:    l.Category,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Subtotal:    l.Subtotal,
			})
		}
		raw, err := json.Marshal(lines)
		if err != nil {
			return err
		}

		sale = &models.Sale{
			TableLabel: table.Label(),
			Total:      table.Total,
			Cash:       cash,
			Transfers:  transfers,
			LinesJSON:  string(raw),
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		_, err = tables.ReleaseTx(tx, tableID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// resolveRegister devuelve la caja indicada o, si no se indicó, la primera
// abierta. La validación de que sigue abierta ocurre dentro de la
// transacción, acá solo se fija el id para tomar el lock.
func resolveRegister(registerID *uint) (uint, error) {
	if registerID != nil {
		return *registerID, nil
	}
	reg, err := register.FirstOpen(database.DB)
	if err != nil {
		return 0, err
	}
	return reg.ID, nil
}

// Lines decodifica el snapshot JSON de una venta.
func Lines(sale *models.Sale) ([]models.SaleLine, error) {
	var lines []models.SaleLine
	if err := json.Unmarshal([]byte(sale.LinesJSON), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
