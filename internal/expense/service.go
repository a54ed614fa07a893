package expense

import (
	"errors"
	"strings"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/register"

	"gorm.io/gorm"
)

// Record persiste un gasto y, si se indica una caja, descuenta el monto del
// saldo que corresponda al método de pago. Todo en una sola transacción: si
// la caja no tiene fondos, el gasto tampoco queda registrado.
func Record(exp *models.Expense, registerID *uint) (*models.Expense, error) {
	exp.Concept = strings.TrimSpace(exp.Concept)
	if exp.Concept == "" {
		return nil, errors.New("el concepto es obligatorio")
	}
	if exp.Amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if exp.Date.IsZero() {
		exp.Date = time.Now()
	}
	if exp.Period == "" {
		exp.Period = exp.Date.Format("2006-01")
	}

	run := func(tx *gorm.DB) error {
		if registerID != nil {
			switch exp.Method {
			case models.PaymentTransfer:
				if _, err := register.DebitTransferTx(tx, *registerID, exp.Amount); err != nil {
					return err
				}
			default:
				if _, err := register.DebitCashTx(tx, *registerID, exp.Amount); err != nil {
					return err
				}
			}
		}
		return tx.Create(exp).Error
	}

	var err error
	if registerID != nil {
		unlock := keylock.Default.Lock(keylock.RegisterKey(*registerID))
		defer unlock()
		err = database.DB.Transaction(run)
	} else {
		err = database.DB.Transaction(run)
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// Delete elimina un gasto. No devuelve fondos a la caja: corregir un gasto
// ya descontado es un movimiento de caja aparte.
func Delete(id uint) error {
	result := database.DB.Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type Totals struct {
	Total     float64 `json:"total"`
	Cash      float64 `json:"cash"`
	Transfers float64 `json:"transfers"`
}

// TotalsFor acumula gastos por método para el filtro dado.
func TotalsFor(query *gorm.DB) (*Totals, error) {
	var rows []models.Expense
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	t := &Totals{}
	for _, e := range rows {
		t.Total += e.Amount
		if e.IsTransfer() {
			t.Transfers += e.Amount
		} else {
			t.Cash += e.Amount
		}
	}
	return t, nil
}
