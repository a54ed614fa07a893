package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de negocio compartidos por los servicios. Los handlers los traducen
// a códigos HTTP; ninguno amerita reintento: son violaciones de reglas, no
// fallas transitorias.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser positiva")
	ErrRegisterClosed    = errors.New("la caja está cerrada")
	ErrRegisterOpen      = errors.New("ya existe una caja abierta con ese número")
	ErrNoOpenRegister    = errors.New("no hay cajas abiertas")
	ErrTableOccupied     = errors.New("no se puede eliminar una mesa ocupada")
	ErrEmptyOrder        = errors.New("la mesa no tiene pedidos")
	ErrEmptyPurchase     = errors.New("la compra no tiene líneas")
	ErrReservationInPast = errors.New("la fecha de reserva debe ser futura")
	ErrDuplicateName     = errors.New("ya existe un registro con ese nombre")
	ErrSupplierInactive  = errors.New("el proveedor está inactivo")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

type InsufficientFundsError struct {
	Available float64
	Requested float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("efectivo insuficiente en caja: disponible %.2f, solicitado %.2f", e.Available, e.Requested)
}

type InsufficientPaymentError struct {
	Total float64
	Paid  float64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("pago insuficiente: total %.2f, pagado %.2f", e.Total, e.Paid)
}

type ScheduleConflictError struct {
	TableID uint
	Start   time.Time
	End     time.Time
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("la mesa %d ya tiene una reserva entre %s y %s",
		e.TableID, e.Start.Format("15:04"), e.End.Format("15:04"))
}
