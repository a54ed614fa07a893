package inventory

import (
	"errors"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

// MovementInfo: detalle de auditoría que acompaña cada mutación de stock.
type MovementInfo struct {
	Kind     models.MovementKind
	UnitCost *float64
	Reason   string
	User     string
	Document string
}

// Increase suma qty al stock del producto dentro de tx y registra el
// movimiento de auditoría. Nunca falla por stock, solo por cantidad inválida
// o producto inexistente.
func Increase(tx *gorm.DB, productID uint, qty int, info MovementInfo) (*models.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	before := product.Stock
	product.Stock += qty
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}

	if info.Kind == "" {
		info.Kind = models.MovementIn
	}
	if err := writeMovement(tx, &product, qty, before, info); err != nil {
		return nil, err
	}

	return &product, nil
}

// Decrease resta qty del stock dentro de tx. Falla con InsufficientStockError
// antes de tocar nada si el stock quedaría negativo.
func Decrease(tx *gorm.DB, productID uint, qty int, info MovementInfo) (*models.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if product.Stock < qty {
		return nil, &domain.InsufficientStockError{Available: product.Stock, Requested: qty}
	}

	before := product.Stock
	product.Stock -= qty
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}

	if info.Kind == "" {
		info.Kind = models.MovementOut
	}
	if err := writeMovement(tx, &product, qty, before, info); err != nil {
		return nil, err
	}

	return &product, nil
}

func writeMovement(tx *gorm.DB, product *models.Product, qty, before int, info MovementInfo) error {
	mov := models.StockMovement{
		ProductID:   product.ID,
		Kind:        info.Kind,
		Quantity:    qty,
		StockBefore: before,
		StockAfter:  product.Stock,
		UnitCost:    info.UnitCost,
		Reason:      info.Reason,
		User:        info.User,
		Document:    info.Document,
		Date:        time.Now(),
	}
	if info.UnitCost != nil {
		total := *info.UnitCost * float64(qty)
		mov.TotalCost = &total
	}
	return tx.Create(&mov).Error
}

// Adjust aplica una corrección manual de inventario (conteo físico, merma).
// Operación completa: transacción propia + lock del producto.
func Adjust(productID uint, qty int, positive bool, reason, user string) (*models.Product, error) {
	unlock := keylock.Default.Lock(keylock.ProductKey(productID))
	defer unlock()

	var product *models.Product
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		info := MovementInfo{Kind: models.MovementAdjustDown, Reason: reason, User: user}
		var err error
		if positive {
			info.Kind = models.MovementAdjustUp
			product, err = Increase(tx, productID, qty, info)
		} else {
			product, err = Decrease(tx, productID, qty, info)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
