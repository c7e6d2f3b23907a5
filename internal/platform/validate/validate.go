// Package validate envuelve go-playground/validator: nombres de campo del JSON
// y mensajes cortos para el cliente.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("validation failed")

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())

	// Los errores usan el nombre del JSON (petId, livingArrangement.homeType...).
	vv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return vv
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lleva el detalle por campo; errors.Is(err, ErrInvalid) == true.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalid.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Struct valida s según sus tags `validate`. Devuelve *Error si algún campo falla.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// Var valida un valor suelto (ej. "required,email"). field nombra el valor en el error.
func Var(field string, value any, tag string) error {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: field, Message: describe(fe)})
	}
	return out
}

// Fields extrae el detalle por campo de err (nil si no es un error de validación).
func Fields(err error) []FieldError {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// "SubmitInput.livingArrangement.homeType" -> "livingArrangement.homeType"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eq":
		if fe.Param() == "true" {
			return "must be accepted"
		}
		return "must be " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
