// Package respond centraliza el sobre JSON de la API.
package respond

import (
	"encoding/json"
	"net/http"

	"pet-adoption/internal/platform/validate"
)

// FieldError describe un error de validación de un campo del body.
type FieldError = validate.FieldError

// ErrorBody es el sobre de error.
type ErrorBody struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// JSON escribe {success:true, ...payload}. payload debe serializar a objeto.
func JSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	Raw(w, status, body)
}

// Error escribe {success:false, message}.
func Error(w http.ResponseWriter, status int, message string) {
	Raw(w, status, ErrorBody{Success: false, Message: message})
}

// ValidationError escribe 400 con el detalle por campo.
func ValidationError(w http.ResponseWriter, message string, fields []FieldError) {
	Raw(w, http.StatusBadRequest, ErrorBody{Success: false, Message: message, Errors: fields})
}

func Raw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
