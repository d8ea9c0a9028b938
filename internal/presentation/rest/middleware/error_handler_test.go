package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/payment"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/domain/shop"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

func invokeErrorHandler(t *testing.T, handlerErr error) *httptest.ResponseRecorder {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlerMiddleware(logger)(func(c echo.Context) error {
		return handlerErr
	})

	require.NoError(t, handler(c))
	return rec
}

func TestErrorHandlerMiddleware_NoError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlerMiddleware(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHandlerMiddleware_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"残高不足", wallet.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
		{"金額範囲外", wallet.ErrAmountOutOfRange, http.StatusBadRequest, "amount_out_of_range"},
		{"無効な通貨", wallet.ErrInvalidCurrencyType, http.StatusBadRequest, "invalid_currency_type"},
		{"ギフトなし", gift.ErrGiftNotFound, http.StatusNotFound, "gift_not_found"},
		{"換金済み", gift.ErrAlreadyRedeemed, http.StatusConflict, "already_redeemed"},
		{"受取人でない", gift.ErrNotReceiptOwner, http.StatusForbidden, "not_receipt_owner"},
		{"無効なレート", gift.ErrInvalidRedeemRate, http.StatusBadRequest, "invalid_redeem_rate"},
		{"購入済み", shop.ErrAlreadyOwned, http.StatusConflict, "already_owned"},
		{"販売停止", shop.ErrItemInactive, http.StatusBadRequest, "item_inactive"},
		{"注文なし", payment.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
		{"確定済み注文", payment.ErrOrderAlreadyFinalized, http.StatusConflict, "order_already_finalized"},
		{"署名不正", payment.ErrInvalidSignature, http.StatusForbidden, "invalid_signature"},
		{"リワード取得済み", reward.ErrAlreadyClaimed, http.StatusTooManyRequests, "already_claimed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invokeErrorHandler(t, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestErrorHandlerMiddleware_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), wallet.ErrInsufficientBalance)
	rec := invokeErrorHandler(t, wrapped)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestErrorHandlerMiddleware_EchoHTTPError(t *testing.T) {
	rec := invokeErrorHandler(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorHandlerMiddleware_UnexpectedError(t *testing.T) {
	rec := invokeErrorHandler(t, errors.New("db connection lost"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal_server_error", resp.Error)
	// 内部エラーの詳細はレスポンスに含めない
	assert.NotContains(t, resp.Message, "db connection lost")
}
