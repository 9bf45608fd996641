package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		base error
	}{
		{"network", NewNetwork("offline", errors.New("dial tcp")), ErrNetwork},
		{"http", NewHTTP(http.StatusNotFound, "missing"), ErrHTTP},
		{"validation", NewValidation(http.StatusBadRequest, "invalid", FieldErrors{"titulo": "required"}), ErrValidation},
		{"config", NewConfig("API_URL missing"), ErrConfig},
		{"unauthorized", NewUnauthorized("expired"), ErrUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wrapped := fmt.Errorf("calling backend: %w", c.err)
			assert.ErrorIs(t, wrapped, c.base)
		})
	}
}

func TestFieldsOnlyForValidation(t *testing.T) {
	fields, ok := Fields(NewValidation(400, "invalid", FieldErrors{"numeroWhatsapp": "too long"}))
	assert.True(t, ok)
	assert.Equal(t, FieldErrors{"numeroWhatsapp": "too long"}, fields)

	_, ok = Fields(NewHTTP(500, "boom"))
	assert.False(t, ok)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ToHTTPStatus(NewValidation(400, "x", nil)))
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(NewHTTP(404, "x")))
	assert.Equal(t, http.StatusBadGateway, ToHTTPStatus(NewNetwork("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(errors.New("plain")))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "boom", Message(NewHTTP(500, "boom"), "default"))
	assert.Equal(t, "default", Message(nil, "default"))
}
