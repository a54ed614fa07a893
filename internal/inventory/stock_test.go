package inventory

import (
	"testing"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Café", Category: "Bebidas", Price: 3.5, Stock: stock, MinStock: 10}
	require.NoError(t, database.DB.Create(p).Error)
	return p
}

func TestAdjustIncreasesStockAndRecordsMovement(t *testing.T) {
	testutil.SetupDB(t)
	p := seedProduct(t, 5)

	updated, err := Adjust(p.ID, 10, true, "Recuento físico", "ana")
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Stock)

	var mov models.StockMovement
	require.NoError(t, database.DB.Last(&mov).Error)
	assert.Equal(t, models.MovementAdjustUp, mov.Kind)
	assert.Equal(t, 10, mov.Quantity)
	assert.Equal(t, 5, mov.StockBefore)
	assert.Equal(t, 15, mov.StockAfter)
	assert.Equal(t, "ana", mov.User)
}

func TestAdjustDownFailsWithoutStock(t *testing.T) {
	testutil.SetupDB(t)
	p := seedProduct(t, 3)

	_, err := Adjust(p.ID, 5, false, "Merma", "ana")
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// ni el stock ni la auditoría deben cambiar
	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)

	var count int64
	database.DB.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestAdjustRejectsNonPositiveQuantity(t *testing.T) {
	testutil.SetupDB(t)
	p := seedProduct(t, 3)

	_, err := Adjust(p.ID, 0, true, "", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = Adjust(p.ID, -2, false, "", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAdjustUnknownProduct(t *testing.T) {
	testutil.SetupDB(t)

	_, err := Adjust(999, 1, true, "", "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIncreaseRecordsCost(t *testing.T) {
	testutil.SetupDB(t)
	p := seedProduct(t, 0)

	cost := 2.25
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		_, err := Increase(tx, p.ID, 4, MovementInfo{
			Kind:     models.MovementIn,
			UnitCost: &cost,
			Reason:   "Compra a Distribuidora Sur",
			User:     "ana",
			Document: "FC-0001",
		})
		return err
	})
	require.NoError(t, err)

	var mov models.StockMovement
	require.NoError(t, database.DB.Last(&mov).Error)
	require.NotNil(t, mov.UnitCost)
	require.NotNil(t, mov.TotalCost)
	assert.Equal(t, 2.25, *mov.UnitCost)
	assert.Equal(t, 9.0, *mov.TotalCost)
	assert.Equal(t, "FC-0001", mov.Document)
}
