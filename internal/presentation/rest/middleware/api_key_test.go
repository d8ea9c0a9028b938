package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"wallet-server/internal/infrastructure/config"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

func invokeAPIKey(t *testing.T, cfg *config.AdminAPIConfig, setup func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := APIKeyMiddleware(cfg, logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	return rec
}

func TestAPIKeyMiddleware_ValidKey(t *testing.T) {
	cfg := &config.AdminAPIConfig{APIKey: "secret-key"}

	rec := invokeAPIKey(t, cfg, func(req *http.Request) {
		req.Header.Set("X-API-Key", "secret-key")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyMiddleware_MissingKey(t *testing.T) {
	cfg := &config.AdminAPIConfig{APIKey: "secret-key"}

	rec := invokeAPIKey(t, cfg, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyMiddleware_InvalidKey(t *testing.T) {
	cfg := &config.AdminAPIConfig{APIKey: "secret-key"}

	rec := invokeAPIKey(t, cfg, func(req *http.Request) {
		req.Header.Set("X-API-Key", "wrong-key")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyMiddleware_DisabledWhenKeyUnset(t *testing.T) {
	cfg := &config.AdminAPIConfig{APIKey: ""}

	rec := invokeAPIKey(t, cfg, func(req *http.Request) {
		req.Header.Set("X-API-Key", "anything")
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyMiddleware_IPAllowlist(t *testing.T) {
	cfg := &config.AdminAPIConfig{
		APIKey:     "secret-key",
		AllowedIPs: []string{"10.0.0.1"},
	}

	t.Run("許可IPからのアクセス", func(t *testing.T) {
		rec := invokeAPIKey(t, cfg, func(req *http.Request) {
			req.Header.Set("X-API-Key", "secret-key")
			req.Header.Set("X-Forwarded-For", "10.0.0.1")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("許可外IPからのアクセス", func(t *testing.T) {
		rec := invokeAPIKey(t, cfg, func(req *http.Request) {
			req.Header.Set("X-API-Key", "secret-key")
			req.Header.Set("X-Forwarded-For", "203.0.113.9")
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
