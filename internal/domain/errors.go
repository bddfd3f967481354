package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransfer   = errors.New("traslado inválido")
	ErrIntegrityWarning  = errors.New("stock calculado negativo")
)

// Variantes específicas del ledger. Envuelven la taxonomía base para que
// errors.Is(err, ErrNotFound) o errors.Is(err, ErrInvalidInput) sigan funcionando.
var (
	ErrInvalidQuantity  = wrap(ErrInvalidInput, "la cantidad debe ser distinta de cero y con el signo esperado")
	ErrInvalidItems     = wrap(ErrInvalidInput, "productos inválidos, inactivos o de otra empresa")
	ErrLocationNotFound = wrap(ErrNotFound, "ubicación no encontrada")
	ErrProductNotFound  = wrap(ErrNotFound, "producto no encontrado")
	ErrEntryNotFound    = wrap(ErrNotFound, "entrada de stock no encontrada")
)

type wrappedError struct {
	base error
	msg  string
}

func wrap(base error, msg string) error { return &wrappedError{base: base, msg: msg} }

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.base }
