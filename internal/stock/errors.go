package stock

import (
	"errors"

	"myphone/internal/apierror"
)

// User-facing messages for classified store rejections. MensajeConflicto is
// asserted literally by clients; do not reword it.
const (
	MensajeConflicto     = "Ese equipo ya fue vendido o modificado por otro usuario."
	MensajePromoBloqueda = "No se puede cambiar la promo de un equipo vendido o asociado a una venta."
)

// ErrTransicionNoPermitida is returned by services when the local guard
// rejects a mutation; the store is never contacted in that case.
var ErrTransicionNoPermitida = errors.New("el equipo está vendido o asociado a una venta y no puede modificarse")

// ResolveMutationErrorMessage maps a store error to a stable message.
// Unclassified errors (nil included) degrade to fallback.
func ResolveMutationErrorMessage(err error, fallback string) string {
	switch apierror.CodeOf(err) {
	case apierror.CodeStockConflict:
		return MensajeConflicto
	case apierror.CodePromoBlocked:
		return MensajePromoBloqueda
	default:
		return fallback
	}
}

// MutationError carries the display message for a failed store mutation
// while keeping the original error reachable through errors.As / Unwrap.
type MutationError struct {
	Message string
	Err     error
}

// NewMutationError classifies err with ResolveMutationErrorMessage.
func NewMutationError(err error, fallback string) *MutationError {
	return &MutationError{Message: ResolveMutationErrorMessage(err, fallback), Err: err}
}

func (e *MutationError) Error() string { return e.Message }

func (e *MutationError) Unwrap() error { return e.Err }

// Code returns the store classification of the wrapped error, or "".
func (e *MutationError) Code() string { return apierror.CodeOf(e.Err) }
