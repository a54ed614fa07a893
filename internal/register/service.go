package register

import (
	"errors"
	"fmt"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/keylock"
	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

// Ciclo de vida por instancia de caja: cerrada -> Open(...) -> abierta ->
// Close(...) -> cerrada (terminal). Para seguir operando bajo ese número
// físico se abre una instancia nueva.

func loadRegister(tx *gorm.DB, id uint) (*models.CashRegister, error) {
	var reg models.CashRegister
	if err := tx.First(&reg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// Open crea una instancia nueva para el número dado. Falla si ya hay una
// abierta con ese número. El efectivo arranca en la base inicial.
func Open(number int, shift models.Shift, openingFloat float64, user string) (*models.CashRegister, error) {
	unlock := keylock.Default.Lock(keylock.RegisterNumberKey(number))
	defer unlock()

	var reg *models.CashRegister
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CashRegister{}).
			Where("number = ? AND open = ?", number, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrRegisterOpen
		}

		reg = &models.CashRegister{
			Number:       number,
			Shift:        shift,
			Cash:         openingFloat,
			Transfers:    0,
			Receivable:   0,
			Open:         true,
			OpeningFloat: openingFloat,
			OpenedAt:     time.Now(),
			OpenedBy:     user,
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Close toma el snapshot de cierre (RegisterClosure), lo persiste y recién
// entonces marca la caja como cerrada. Los gastos del cierre se acotan a la
// ventana en que esta caja estuvo abierta.
func Close(registerID uint, user string) (*models.CashRegister, *models.RegisterClosure, error) {
	unlock := keylock.Default.Lock(keylock.RegisterKey(registerID))
	defer unlock()

	var reg *models.CashRegister
	var closure *models.RegisterClosure
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reg, err = loadRegister(tx, registerID)
		if err != nil {
			return err
		}
		if !reg.Open {
			return domain.ErrRegisterClosed
		}

		now := time.Now()

		var totalExpenses float64
		if err := tx.Model(&models.Expense{}).
			Where("date >= ? AND date <= ?", reg.OpenedAt, now).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalExpenses).Error; err != nil {
			return err
		}

		closure = &models.RegisterClosure{
			RegisterNumber: reg.Number,
			OpenedAt:       reg.OpenedAt,
			ClosedAt:       now,
			OpeningFloat:   reg.OpeningFloat,
			Cash:           reg.Cash,
			Transfers:      reg.Transfers,
			TotalSales:     reg.Total() - reg.OpeningFloat,
			TotalExpenses:  totalExpenses,
			Receivable:     reg.Receivable,
			NextFloat:      reg.OpeningFloat,
			Report: fmt.Sprintf("Cierre Caja %d - Turno: %s - Usuario: %s",
				reg.Number, reg.Shift, user),
			ClosedBy: user,
		}
		if err := tx.Create(closure).Error; err != nil {
			return err
		}

		reg.Open = false
		reg.ClosedAt = &now
		reg.ClosedBy = user
		return tx.Save(reg).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return reg, closure, nil
}

// CreditCashTx suma efectivo a una caja abierta dentro de tx.
func CreditCashTx(tx *gorm.DB, registerID uint, amount float64) (*models.CashRegister, error) {
	reg, err := loadRegister(tx, registerID)
	if err != nil {
		return nil, err
	}
	if !reg.Open {
		return nil, domain.ErrRegisterClosed
	}

	reg.Cash += amount
	if err := tx.Save(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// CreditTransferTx suma transferencias a una caja abierta dentro de tx.
func CreditTransferTx(tx *gorm.DB, registerID uint, amount float64) (*models.CashRegister, error) {
	reg, err := loadRegister(tx, registerID)
	if err != nil {
		return nil, err
	}
	if !reg.Open {
		return nil, domain.ErrRegisterClosed
	}

	reg.Transfers += amount
	if err := tx.Save(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// DebitCashTx descuenta efectivo; falla si el cajón quedaría en negativo.
func DebitCashTx(tx *gorm.DB, registerID uint, amount float64) (*models.CashRegister, error) {
	reg, err := loadRegister(tx, registerID)
	if err != nil {
		return nil, err
	}
	if !reg.Open {
		return nil, domain.ErrRegisterClosed
	}
	if reg.Cash < amount {
		return nil, &domain.InsufficientFundsError{Available: reg.Cash, Requested: amount}
	}

	reg.Cash -= amount
	if err := tx.Save(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// DebitTransferTx descuenta transferencias. A diferencia del efectivo no hay
// guarda contra saldo negativo: las transferencias son un registro contable,
// no un cajón físico que pueda quedar vacío.
func DebitTransferTx(tx *gorm.DB, registerID uint, amount float64) (*models.CashRegister, error) {
	reg, err := loadRegister(tx, registerID)
	if err != nil {
		return nil, err
	}
	if !reg.Open {
		return nil, domain.ErrRegisterClosed
	}

	reg.Transfers -= amount
	if err := tx.Save(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// Variantes de operación completa: lock + transacción propia.

func CreditCash(registerID uint, amount float64) (*models.CashRegister, error) {
	return withRegister(registerID, func(tx *gorm.DB) (*models.CashRegister, error) {
		return CreditCashTx(tx, registerID, amount)
	})
}

func CreditTransfer(registerID uint, amount float64) (*models.CashRegister, error) {
	return withRegister(registerID, func(tx *gorm.DB) (*models.CashRegister, error) {
		return CreditTransferTx(tx, registerID, amount)
	})
}

func DebitCash(registerID uint, amount float64) (*models.CashRegister, error) {
	return withRegister(registerID, func(tx *gorm.DB) (*models.CashRegister, error) {
		return DebitCashTx(tx, registerID, amount)
	})
}

func DebitTransfer(registerID uint, amount float64) (*models.CashRegister, error) {
	return withRegister(registerID, func(tx *gorm.DB) (*models.CashRegister, error) {
		return DebitTransferTx(tx, registerID, amount)
	})
}

func withRegister(registerID uint, fn func(tx *gorm.DB) (*models.CashRegister, error)) (*models.CashRegister, error) {
	unlock := keylock.Default.Lock(keylock.RegisterKey(registerID))
	defer unlock()

	var reg *models.CashRegister
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reg, err = fn(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// UpdateReceivable fija el saldo por cobrar de una caja abierta.
func UpdateReceivable(registerID uint, amount float64) (*models.CashRegister, error) {
	return withRegister(registerID, func(tx *gorm.DB) (*models.CashRegister, error) {
		reg, err := loadRegister(tx, registerID)
		if err != nil {
			return nil, err
		}
		if !reg.Open {
			return nil, domain.ErrRegisterClosed
		}

		reg.Receivable = amount
		if err := tx.Save(reg).Error; err != nil {
			return nil, err
		}
		return reg, nil
	})
}

// FirstOpen devuelve la primera caja abierta, o ErrNoOpenRegister.
func FirstOpen(tx *gorm.DB) (*models.CashRegister, error) {
	var reg models.CashRegister
	if err := tx.Where("open = ?", true).Order("id ASC").First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoOpenRegister
		}
		return nil, err
	}
	return &reg, nil
}
