package validate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactInput struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
	Terms *bool  `json:"terms" validate:"required,eq=true"`

	Address struct {
		City string `json:"city" validate:"required"`
	} `json:"address"`
}

func TestStruct_UsesJSONNamesAndShortMessages(t *testing.T) {
	no := false
	err := Struct(&contactInput{Name: "Bartolomeo", Email: "Bob Smith <bob@example.com>", Kind: "c", Terms: &no})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	got := map[string]string{}
	for _, f := range Fields(err) {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"name":         "must be at most 5 characters",
		"email":        "must be a valid email address",
		"kind":         "must be one of: a, b",
		"terms":        "must be accepted",
		"address.city": "is required",
	}, got)
}

func TestStruct_Valid(t *testing.T) {
	yes := true
	in := contactInput{Name: "Bob", Email: "bob@example.com", Terms: &yes}
	in.Address.City = "Lima"
	assert.NoError(t, Struct(&in))
}

func TestVar_NamesTheValue(t *testing.T) {
	assert.NoError(t, Var("to", "ana@example.com", "required,email"))

	err := Var("to", "Ana <ana@example.com>", "required,email")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []FieldError{{Field: "to", Message: "must be a valid email address"}}, Fields(err))
}

func TestFields_SurvivesWrapping(t *testing.T) {
	sentinel := errors.New("invalid input")
	err := fmt.Errorf("%w: %w", sentinel, &Error{Fields: []FieldError{{Field: "email", Message: "is required"}}})

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, ErrInvalid)
	require.Len(t, Fields(err), 1)
	assert.Equal(t, "email", Fields(err)[0].Field)
	assert.Nil(t, Fields(sentinel))
	assert.Equal(t, "validation failed: email: is required", (&Error{Fields: Fields(err)}).Error())
}
