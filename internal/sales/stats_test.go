package sales

import (
	"encoding/json"
	"testing"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSale(t *testing.T, createdAt time.Time, cash, transfers float64, lines []models.SaleLine) {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	sale := models.Sale{
		TableLabel: "1 - Salón",
		Total:      total,
		Cash:       cash,
		Transfers:  transfers,
		LinesJSON:  string(raw),
		CreatedAt:  createdAt,
	}
	require.NoError(t, database.DB.Create(&sale).Error)
}

func TestSummaryBetween(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	seedSale(t, now, 30, 0, []models.SaleLine{
		{ProductName: "Pizza", Category: "Platos", Quantity: 2, UnitPrice: 15, Subtotal: 30},
	})
	seedSale(t, now, 10, 10, []models.SaleLine{
		{ProductName: "Café", Category: "Bebidas", Quantity: 4, UnitPrice: 5, Subtotal: 20},
	})
	// fuera del rango
	seedSale(t, now.AddDate(0, 0, -10), 99, 0, []models.SaleLine{
		{ProductName: "Vino", Category: "Bebidas", Quantity: 1, UnitPrice: 99, Subtotal: 99},
	})

	summary, err := SummaryBetween(database.DB, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 50.0, summary.Total)
	assert.Equal(t, 40.0, summary.Cash)
	assert.Equal(t, 10.0, summary.Transfers)
	assert.Equal(t, 25.0, summary.Average)
}

func TestDailyTotalsIncludeEmptyDays(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	seedSale(t, now, 12, 0, []models.SaleLine{
		{ProductName: "Té", Category: "Bebidas", Quantity: 4, UnitPrice: 3, Subtotal: 12},
	})

	totals, err := DailyTotals(database.DB, 7)
	require.NoError(t, err)
	require.Len(t, totals, 7)

	today := totals[len(totals)-1]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.Equal(t, 12.0, today.Total)
	assert.Equal(t, 1, today.Count)
	assert.Zero(t, totals[0].Count)
}

func TestTopProductsAggregatesAcrossSales(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	seedSale(t, now, 40, 0, []models.SaleLine{
		{ProductName: "Pizza", Category: "Platos", Quantity: 2, UnitPrice: 15, Subtotal: 30},
		{ProductName: "Café", Category: "Bebidas", Quantity: 2, UnitPrice: 5, Subtotal: 10},
	})
	seedSale(t, now, 45, 0, []models.SaleLine{
		{ProductName: "Pizza", Category: "Platos", Quantity: 3, UnitPrice: 15, Subtotal: 45},
	})

	ranks, err := TopProducts(database.DB, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "Pizza", ranks[0].ProductName)
	assert.Equal(t, 5, ranks[0].Quantity)
	assert.Equal(t, 75.0, ranks[0].Total)

	ranks, err = TopProducts(database.DB, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), 1)
	require.NoError(t, err)
	assert.Len(t, ranks, 1)
}

func TestByCategory(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	seedSale(t, now, 55, 0, []models.SaleLine{
		{ProductName: "Pizza", Category: "Platos", Quantity: 3, UnitPrice: 15, Subtotal: 45},
		{ProductName: "Café", Category: "Bebidas", Quantity: 2, UnitPrice: 5, Subtotal: 10},
	})

	totals, err := ByCategory(database.DB, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Platos", totals[0].Category)
	assert.Equal(t, 45.0, totals[0].Total)
	assert.Equal(t, "Bebidas", totals[1].Category)
}
