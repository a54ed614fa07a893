package domain

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ToFiberError traduce un error de negocio al código HTTP que corresponde.
// Los errores desconocidos se devuelven tal cual para que el ErrorHandler
// global los registre como 500.
func ToFiberError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrReservationInPast),
		errors.Is(err, ErrSupplierInactive):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRegisterClosed),
		errors.Is(err, ErrRegisterOpen),
		errors.Is(err, ErrNoOpenRegister),
		errors.Is(err, ErrTableOccupied),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrEmptyPurchase),
		errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	var stockErr *InsufficientStockError
	var fundsErr *InsufficientFundsError
	var payErr *InsufficientPaymentError
	var schedErr *ScheduleConflictError
	switch {
	case errors.As(err, &stockErr), errors.As(err, &fundsErr), errors.As(err, &payErr):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &schedErr):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	return err
}
