package tables

import (
	"testing"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTable(t *testing.T, number int) *models.Table {
	t.Helper()
	table := &models.Table{Number: number, Name: "Terraza", State: models.TableFree}
	require.NoError(t, database.DB.Create(table).Error)
	return table
}

func seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: "Bebidas", Price: price, Stock: stock, MinStock: 10}
	require.NoError(t, database.DB.Create(p).Error)
	return p
}

func TestAddLineDebitsStockAndOccupiesTable(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 3)
	p := seedProduct(t, "Limonada", 4.0, 10)

	updated, err := AddLine(table.ID, p.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, models.TableOccupied, updated.State)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "Limonada", updated.Lines[0].ProductName)
	assert.Equal(t, 12.0, updated.Lines[0].Subtotal)
	assert.Equal(t, 12.0, updated.Total)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 7, reloaded.Stock)

	var mov models.StockMovement
	require.NoError(t, database.DB.Last(&mov).Error)
	assert.Equal(t, models.MovementOut, mov.Kind)
	assert.Equal(t, 3, mov.Quantity)
}

func TestAddLineInsufficientStockLeavesEverythingIntact(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 1)
	p := seedProduct(t, "Pizza", 12.0, 2)

	_, err := AddLine(table.ID, p.ID, 5)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	var reloadedTable models.Table
	require.NoError(t, database.DB.Preload("Lines").First(&reloadedTable, table.ID).Error)
	assert.Equal(t, models.TableFree, reloadedTable.State)
	assert.Empty(t, reloadedTable.Lines)
	assert.Zero(t, reloadedTable.Total)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestTotalAlwaysMatchesLineSum(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 2)
	a := seedProduct(t, "Café", 3.0, 20)
	b := seedProduct(t, "Tostado", 5.5, 20)

	_, err := AddLine(table.ID, a.ID, 2)
	require.NoError(t, err)
	updated, err := AddLine(table.ID, b.ID, 3)
	require.NoError(t, err)

	sum := 0.0
	for _, l := range updated.Lines {
		sum += l.Subtotal
	}
	assert.Equal(t, sum, updated.Total)
	assert.Equal(t, 22.5, updated.Total)
}

func TestUpdateLineQuantityMovesStockByDelta(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 4)
	p := seedProduct(t, "Cerveza", 2.5, 10)

	updated, err := AddLine(table.ID, p.ID, 2)
	require.NoError(t, err)
	lineID := updated.Lines[0].ID

	// subir de 2 a 5 descuenta 3 más
	updated, err = UpdateLineQuantity(table.ID, lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Total)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)

	// bajar de 5 a 1 devuelve 4
	updated, err = UpdateLineQuantity(table.ID, lineID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Total)

	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 9, reloaded.Stock)

	var mov models.StockMovement
	require.NoError(t, database.DB.Last(&mov).Error)
	assert.Equal(t, models.MovementReturn, mov.Kind)
	assert.Equal(t, 4, mov.Quantity)
}

func TestRemoveLineReturnsStockAndFreesEmptyTable(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 5)
	p := seedProduct(t, "Agua", 1.5, 8)

	updated, err := AddLine(table.ID, p.ID, 4)
	require.NoError(t, err)
	lineID := updated.Lines[0].ID

	updated, err = RemoveLine(table.ID, lineID)
	require.NoError(t, err)
	assert.Equal(t, models.TableFree, updated.State)
	assert.Empty(t, updated.Lines)
	assert.Zero(t, updated.Total)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestReleaseDiscardsLinesWithoutReturningStock(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 6)
	p := seedProduct(t, "Flan", 3.0, 10)

	_, err := AddLine(table.ID, p.ID, 2)
	require.NoError(t, err)

	released, err := Release(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableFree, released.State)
	assert.Zero(t, released.Total)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, p.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	testutil.SetupDB(t)
	_, err := Create(7, "Salón")
	require.NoError(t, err)

	_, err = Create(7, "Otra")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestDeleteOccupiedTableFails(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 8)
	p := seedProduct(t, "Té", 2.0, 5)

	_, err := AddLine(table.ID, p.ID, 1)
	require.NoError(t, err)

	err = Delete(table.ID)
	assert.ErrorIs(t, err, domain.ErrTableOccupied)
}

func TestLineMutationsWaitForProductLock(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 10)
	p := seedProduct(t, "Sidra", 4.0, 10)

	updated, err := AddLine(table.ID, p.ID, 2)
	require.NoError(t, err)
	lineID := updated.Lines[0].ID

	run := func(name string, op func() error) {
		unlock := keylock.Default.Lock(keylock.ProductKey(p.ID))
		done := make(chan error, 1)
		go func() { done <- op() }()

		select {
		case <-done:
			unlock()
			t.Fatalf("%s mutó el stock sin esperar el lock del producto", name)
		case <-time.After(50 * time.Millisecond):
		}

		unlock()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("%s no terminó tras liberar el lock", name)
		}
	}

	run("UpdateLineQuantity", func() error {
		_, err := UpdateLineQuantity(table.ID, lineID, 5)
		return err
	})
	run("RemoveLine", func() error {
		_, err := RemoveLine(table.ID, lineID)
		return err
	})
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t, 9)
	p := seedProduct(t, "Jugo", 2.0, 5)

	_, err := AddLine(table.ID, p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
