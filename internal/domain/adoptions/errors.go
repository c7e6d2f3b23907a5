package adoptions

import (
	"errors"
	"fmt"
	"strings"

	"pet-adoption/internal/platform/validate"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = validate.ErrInvalid
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
)

// Variantes con mensaje para el cliente. errors.Is sigue matcheando la base.
var (
	ErrApplicationNotFound = fmt.Errorf("%w: application not found", ErrNotFound)
	ErrPetNotFound         = fmt.Errorf("%w: pet not found", ErrNotFound)
	ErrDuplicatePending    = fmt.Errorf("%w: duplicate pending application", ErrConflict)
	ErrPetAdopted          = fmt.Errorf("%w: pet already adopted", ErrInvalidState)
	ErrAlreadyDecided      = fmt.Errorf("%w: application already decided", ErrInvalidState)
)

// El detalle por campo lo produce platform/validate.
type (
	FieldError      = validate.FieldError
	ValidationError = validate.Error
)

// Message devuelve el texto corto para el cliente (sin el prefijo de la sentinel).
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "validation failed"
	}
	msg := err.Error()
	for _, base := range []error{ErrNotFound, ErrConflict, ErrInvalidState, ErrForbidden} {
		if prefix := base.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
