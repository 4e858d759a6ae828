package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name string `json:"name" validate:"required,max=8"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))

		var req testRequest
		require.NoError(t, DecodeJSON(r, &req))
		assert.Equal(t, "ok", req.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var req testRequest
		assert.Error(t, DecodeJSON(r, &req))
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}{"name":"again"}`))

		var req testRequest
		assert.Error(t, DecodeJSON(r, &req))
	})
}

func TestFieldViolation(t *testing.T) {
	t.Parallel()

	t.Run("names the failing field and rule", func(t *testing.T) {
		err := ValidateRequest(&testRequest{})
		require.Error(t, err)

		field, rule, ok := FieldViolation(err)
		require.True(t, ok)
		assert.Equal(t, "Name", field)
		assert.Equal(t, "required", rule)
	})

	t.Run("no field detail", func(t *testing.T) {
		_, _, ok := FieldViolation(assert.AnError)
		assert.False(t, ok)
	})

	t.Run("valid struct passes", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(&testRequest{Name: "short"}))
	})
}
