package register

import (
	"testing"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStartsWithFloatAsCash(t *testing.T) {
	testutil.SetupDB(t)

	reg, err := Open(1, models.ShiftMorning, 100, "ana")
	require.NoError(t, err)

	assert.True(t, reg.Open)
	assert.Equal(t, 100.0, reg.Cash)
	assert.Equal(t, 100.0, reg.OpeningFloat)
	assert.Zero(t, reg.Transfers)
	assert.Equal(t, "ana", reg.OpenedBy)
}

func TestOpenSameNumberTwiceFails(t *testing.T) {
	testutil.SetupDB(t)

	_, err := Open(1, models.ShiftMorning, 50, "ana")
	require.NoError(t, err)

	_, err = Open(1, models.ShiftAfternoon, 50, "luis")
	assert.ErrorIs(t, err, domain.ErrRegisterOpen)

	// otro número físico sí puede abrir
	_, err = Open(2, models.ShiftMorning, 50, "luis")
	assert.NoError(t, err)
}

func TestCreditAndDebit(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := Open(1, models.ShiftNight, 100, "ana")
	require.NoError(t, err)

	reg, err = CreditCash(reg.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 140.0, reg.Cash)

	reg, err = CreditTransfer(reg.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, reg.Transfers)
	assert.Equal(t, 165.0, reg.Total())

	reg, err = DebitCash(reg.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 80.0, reg.Cash)
}

func TestDebitCashRequiresFunds(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := Open(1, models.ShiftMorning, 30, "ana")
	require.NoError(t, err)

	_, err = DebitCash(reg.ID, 50)
	var fundsErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, 30.0, fundsErr.Available)
	assert.Equal(t, 50.0, fundsErr.Requested)

	var reloaded models.CashRegister
	require.NoError(t, database.DB.First(&reloaded, reg.ID).Error)
	assert.Equal(t, 30.0, reloaded.Cash)
}

func TestDebitTransferAllowsNegative(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := Open(1, models.ShiftMorning, 0, "ana")
	require.NoError(t, err)

	reg, err = DebitTransfer(reg.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, -15.0, reg.Transfers)
}

func TestCloseSnapshotsAndScopesExpensesToWindow(t *testing.T) {
	testutil.SetupDB(t)

	// gasto anterior a la apertura, no debe contar
	old := models.Expense{
		Concept: "Alquiler", Amount: 500, Method: models.PaymentCash,
		Period: "2026-07", Date: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, database.DB.Create(&old).Error)

	reg, err := Open(3, models.ShiftAfternoon, 100, "ana")
	require.NoError(t, err)

	_, err = CreditCash(reg.ID, 200)
	require.NoError(t, err)
	_, err = CreditTransfer(reg.ID, 50)
	require.NoError(t, err)

	inWindow := models.Expense{
		Concept: "Hielo", Amount: 20, Method: models.PaymentCash,
		Period: time.Now().Format("2006-01"), Date: time.Now(),
	}
	require.NoError(t, database.DB.Create(&inWindow).Error)

	closed, closure, err := Close(reg.ID, "ana")
	require.NoError(t, err)

	assert.False(t, closed.Open)
	assert.Equal(t, "ana", closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)

	assert.Equal(t, 3, closure.RegisterNumber)
	assert.Equal(t, 100.0, closure.OpeningFloat)
	assert.Equal(t, 300.0, closure.Cash)
	assert.Equal(t, 50.0, closure.Transfers)
	assert.Equal(t, 250.0, closure.TotalSales)
	assert.Equal(t, 20.0, closure.TotalExpenses)
	assert.Equal(t, 100.0, closure.NextFloat)
	assert.Contains(t, closure.Report, "Cierre Caja 3")
	assert.Contains(t, closure.Report, "ana")
}

func TestCloseTwiceFails(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := Open(1, models.ShiftMorning, 0, "ana")
	require.NoError(t, err)

	_, _, err = Close(reg.ID, "ana")
	require.NoError(t, err)

	_, _, err = Close(reg.ID, "ana")
	assert.ErrorIs(t, err, domain.ErrRegisterClosed)
}

func TestOperationsOnClosedRegisterFail(t *testing.T) {
	testutil.SetupDB(t)
	reg, err := Open(1, models.ShiftMorning, 10, "ana")
	require.NoError(t, err)
	_, _, err = Close(reg.ID, "ana")
	require.NoError(t, err)

	_, err = CreditCash(reg.ID, 5)
	assert.ErrorIs(t, err, domain.ErrRegisterClosed)
	_, err = DebitTransfer(reg.ID, 5)
	assert.ErrorIs(t, err, domain.ErrRegisterClosed)
}

func TestFirstOpenPicksOldest(t *testing.T) {
	testutil.SetupDB(t)

	_, err := FirstOpen(database.DB)
	assert.ErrorIs(t, err, domain.ErrNoOpenRegister)

	first, err := Open(1, models.ShiftMorning, 0, "ana")
	require.NoError(t, err)
	_, err = Open(2, models.ShiftMorning, 0, "luis")
	require.NoError(t, err)

	got, err := FirstOpen(database.DB)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}
