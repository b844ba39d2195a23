package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los de negocio los resuelve el usuario (4xx);
// ErrLockTimeout y ErrTxConflict se pueden reintentar.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("estado del documento no permite la operación")
	ErrAccountNotFound   = errors.New("cuenta contable no encontrada")
	ErrUnbalancedEntry   = errors.New("asiento contable descuadrado")
	ErrLockTimeout       = errors.New("tiempo de espera de bloqueo agotado, reintente")
	ErrTxConflict        = errors.New("conflicto de concurrencia, reintente")
)

// StockShortageError detalla una falta de stock para un producto/bodega.
type StockShortageError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %s, solicitado %s",
		e.ProductID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }

// TransitionError indica que el documento no está en el estado que exige la operación.
type TransitionError struct {
	Document string
	ID       string
	Current  string
	Required []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: estado actual %q, se requiere %q", e.Document, e.ID, e.Current, e.Required)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidState }

// IsBusiness indica un error de negocio (precondición, validación, stock, permisos).
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrForbidden, ErrUnauthorized,
		ErrConflict, ErrInsufficientStock, ErrInvalidState, ErrAccountNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsRetryable indica que la transacción falló por contención y puede repetirse.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrTxConflict)
}
