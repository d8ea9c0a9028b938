package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var handlerCalled bool
	handler := TracingMiddleware()(func(c echo.Context) error {
		handlerCalled = true
		// スパン付きのコンテキストが伝播していること
		assert.NotNil(t, c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}
