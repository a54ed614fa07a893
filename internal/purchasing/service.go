package purchasing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/inventory"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

type PurchaseLineInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

type PurchaseInput struct {
	SupplierID     uint                `json:"supplier_id"`
	DocumentNumber string              `json:"document_number"`
	DeliveryDate   *time.Time          `json:"delivery_date"`
	Method         string              `json:"method"` // cash, transfer, credit
	Notes          string              `json:"notes"`
	User           string              `json:"user"`
	Lines          []PurchaseLineInput `json:"lines"`
}

// Register registra una compra a proveedor: persiste el documento con sus
// líneas y suma el stock de cada producto, dejando el movimiento de entrada
// con el costo. Atómico: si una línea falla, no entra nada.
func Register(input PurchaseInput) (*models.Purchase, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrEmptyPurchase
	}
	for _, l := range input.Lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if l.UnitCost < 0 {
			return nil, errors.New("el costo unitario no puede ser negativo")
		}
	}

	keys := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		keys = append(keys, keylock.ProductKey(l.ProductID))
	}
	unlock := keylock.Default.Lock(keys...)
	defer unlock()

	var purchase *models.Purchase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, "id = ?", input.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if !supplier.Active {
			return domain.ErrSupplierInactive
		}

		purchase = &models.Purchase{
			SupplierID:     supplier.ID,
			DocumentNumber: strings.TrimSpace(input.DocumentNumber),
			Method:         input.Method,
			Notes:          input.Notes,
			User:           input.User,
		}
		if input.DeliveryDate != nil {
			purchase.DeliveryDate = *input.DeliveryDate
		} else {
			purchase.DeliveryDate = time.Now()
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		reason := fmt.Sprintf("Compra a %s", supplier.Name)
		for _, l := range input.Lines {
			unitCost := l.UnitCost
			product, err := inventory.Increase(tx, l.ProductID, l.Quantity, inventory.MovementInfo{
				Kind:     models.MovementIn,
				UnitCost: &unitCost,
				Reason:   reason,
				User:     input.User,
				Document: purchase.DocumentNumber,
			})
			if err != nil {
				return err
			}

			line := models.PurchaseLine{
				PurchaseID:  purchase.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    l.Quantity,
				UnitPrice:   unitCost,
				Subtotal:    unitCost * float64(l.Quantity),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			purchase.Lines = append(purchase.Lines, line)
		}

		purchase.RecomputeTotal()
		return tx.Save(purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}
