package expense

import (
	"testing"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/register"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFillsPeriodFromDate(t *testing.T) {
	testutil.SetupDB(t)

	exp, err := Record(&models.Expense{
		Concept: "Verdulería", Amount: 35, Method: models.PaymentCash, User: "ana",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), exp.Period)
	assert.False(t, exp.Date.IsZero())
}

func TestRecordDebitsRegisterCash(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := register.Open(1, models.ShiftMorning, 100, "ana")
	require.NoError(t, err)

	_, err = Record(&models.Expense{
		Concept: "Hielo", Amount: 30, Method: models.PaymentCash, User: "ana",
	}, &reg.ID)
	require.NoError(t, err)

	var reloaded models.CashRegister
	require.NoError(t, database.DB.First(&reloaded, reg.ID).Error)
	assert.Equal(t, 70.0, reloaded.Cash)
}

func TestRecordDebitsTransfers(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := register.Open(1, models.ShiftMorning, 0, "ana")
	require.NoError(t, err)
	_, err = register.CreditTransfer(reg.ID, 50)
	require.NoError(t, err)

	_, err = Record(&models.Expense{
		Concept: "Proveedor", Amount: 80, Method: models.PaymentTransfer, User: "ana",
	}, &reg.ID)
	require.NoError(t, err)

	// las transferencias pueden quedar en negativo
	var reloaded models.CashRegister
	require.NoError(t, database.DB.First(&reloaded, reg.ID).Error)
	assert.Equal(t, -30.0, reloaded.Transfers)
}

func TestRecordWithoutFundsIsAtomic(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := register.Open(1, models.ShiftMorning, 10, "ana")
	require.NoError(t, err)

	_, err = Record(&models.Expense{
		Concept: "Carnicería", Amount: 50, Method: models.PaymentCash, User: "ana",
	}, &reg.ID)
	var fundsErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)

	// ni gasto ni débito
	var count int64
	database.DB.Model(&models.Expense{}).Count(&count)
	assert.Zero(t, count)

	var reloaded models.CashRegister
	require.NoError(t, database.DB.First(&reloaded, reg.ID).Error)
	assert.Equal(t, 10.0, reloaded.Cash)
}

func TestRecordValidates(t *testing.T) {
	testutil.SetupDB(t)

	_, err := Record(&models.Expense{Concept: "  ", Amount: 10, Method: models.PaymentCash}, nil)
	assert.Error(t, err)

	_, err = Record(&models.Expense{Concept: "Algo", Amount: 0, Method: models.PaymentCash}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestDeleteDoesNotRecreditRegister(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := register.Open(1, models.ShiftMorning, 100, "ana")
	require.NoError(t, err)

	exp, err := Record(&models.Expense{
		Concept: "Hielo", Amount: 30, Method: models.PaymentCash, User: "ana",
	}, &reg.ID)
	require.NoError(t, err)

	require.NoError(t, Delete(exp.ID))

	var reloaded models.CashRegister
	require.NoError(t, database.DB.First(&reloaded, reg.ID).Error)
	assert.Equal(t, 70.0, reloaded.Cash)

	assert.ErrorIs(t, Delete(exp.ID), domain.ErrNotFound)
}

func TestTotalsByMethod(t *testing.T) {
	testutil.SetupDB(t)

	for _, e := range []models.Expense{
		{Concept: "A", Amount: 10, Method: models.PaymentCash, Period: "2026-08", Date: time.Now()},
		{Concept: "B", Amount: 20, Method: models.PaymentCash, Period: "2026-08", Date: time.Now()},
		{Concept: "C", Amount: 15, Method: models.PaymentTransfer, Period: "2026-08", Date: time.Now()},
	} {
		require.NoError(t, database.DB.Create(&e).Error)
	}

	totals, err := TotalsFor(database.DB.Where("period = ?", "2026-08"))
	require.NoError(t, err)
	assert.Equal(t, 45.0, totals.Total)
	assert.Equal(t, 30.0, totals.Cash)
	assert.Equal(t, 15.0, totals.Transfers)
}
