package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_AddsSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]any{"count": 2})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["count"])
}

func TestValidationError_CarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, "validation failed", []FieldError{{Field: "rejectionReason", Message: "is required"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"validation failed","errors":[{"field":"rejectionReason","message":"is required"}]}`, rec.Body.String())
}

func TestError_OmitsFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusForbidden, "forbidden")
	assert.JSONEq(t, `{"success":false,"message":"forbidden"}`, rec.Body.String())
}
