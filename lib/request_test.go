package lib

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,bakery_email"`
	Phone string `json:"phone" validate:"required,phone_digits"`
}

func TestValidateStructReportsFirstFieldInOrder(t *testing.T) {
	err := ValidateStruct(contact{Email: "nope", Phone: "1"}, "customer")
	require.NotNil(t, err)
	require.Len(t, err.Errors, 1)
	assert.Equal(t, "customer.name", err.Errors[0].Field)

	err = ValidateStruct(contact{Name: "Amia", Email: "amia@bakery", Phone: "555-123-4567"}, "customer")
	require.NotNil(t, err)
	assert.Equal(t, "customer.email", err.Errors[0].Field)

	err = ValidateStruct(contact{Name: "Amia", Email: "amia@bakery.com", Phone: "(555) 123-456"}, "customer")
	require.NotNil(t, err)
	assert.Equal(t, "customer.phone", err.Errors[0].Field)

	assert.Nil(t, ValidateStruct(contact{Name: "Amia", Email: "amia@bakery.com", Phone: "(555) 123-4567"}, "customer"))
}

func TestValidateVar(t *testing.T) {
	assert.Nil(t, ValidateVar("pickup_date", "2026-05-02", "required,iso_date"))
	assert.NotNil(t, ValidateVar("pickup_date", "05/02/2026", "required,iso_date"))
	assert.NotNil(t, ValidateVar("pickup_date", "2026-5-2", "required,iso_date"))

	err := ValidateVar("items[0].qty", 101, "gte=1,lte=100")
	require.NotNil(t, err)
	assert.Equal(t, "items[0].qty", err.Errors[0].Field)
}

func TestDecodeBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Amia","extra":true}`))
	got, err := DecodeBody[contact](r)
	require.NoError(t, err)
	assert.Equal(t, "Amia", got.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	_, err = DecodeBody[contact](r)
	assert.ErrorIs(t, err, ErrMalformedBody)

	r = httptest.NewRequest("POST", "/", strings.NewReader(``))
	_, err = DecodeBody[contact](r)
	assert.ErrorIs(t, err, ErrMalformedBody)
}
