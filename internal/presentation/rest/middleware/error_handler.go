package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	adminapp "wallet-server/internal/application/admin"
	historyapp "wallet-server/internal/application/history"
	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/payment"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/domain/shop"
	"wallet-server/internal/domain/user"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// errorMapping ドメインエラーとHTTPレスポンスの対応
type errorMapping struct {
	err    error
	status int
	code   string
}

// ドメインエラーは安定した機械可読コードに変換する
// クライアントはコードで分岐し、メッセージは表示用
var errorMappings = []errorMapping{
	// wallet
	{wallet.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
	{wallet.ErrAmountOutOfRange, http.StatusBadRequest, "amount_out_of_range"},
	{wallet.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{wallet.ErrInvalidCurrencyType, http.StatusBadRequest, "invalid_currency_type"},
	{wallet.ErrWalletNotFound, http.StatusNotFound, "wallet_not_found"},

	// gift
	{gift.ErrGiftNotFound, http.StatusNotFound, "gift_not_found"},
	{gift.ErrGiftInactive, http.StatusBadRequest, "gift_inactive"},
	{gift.ErrReceiptNotFound, http.StatusNotFound, "receipt_not_found"},
	{gift.ErrInvalidReceipt, http.StatusBadRequest, "invalid_receipt"},
	{gift.ErrInvalidReceiptStatus, http.StatusBadRequest, "invalid_receipt_status"},
	{gift.ErrNotReceiptOwner, http.StatusForbidden, "not_receipt_owner"},
	{gift.ErrAlreadyRedeemed, http.StatusConflict, "already_redeemed"},
	{gift.ErrInvalidRedeemRate, http.StatusBadRequest, "invalid_redeem_rate"},
	{gift.ErrInvalidRedeemValue, http.StatusBadRequest, "invalid_redeem_value"},

	// shop
	{shop.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{shop.ErrItemInactive, http.StatusBadRequest, "item_inactive"},
	{shop.ErrAlreadyOwned, http.StatusConflict, "already_owned"},

	// payment
	{payment.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{payment.ErrInvalidOrder, http.StatusBadRequest, "invalid_order"},
	{payment.ErrInvalidPurchaseType, http.StatusBadRequest, "invalid_purchase_type"},
	{payment.ErrOrderAlreadyFinalized, http.StatusConflict, "order_already_finalized"},
	{payment.ErrNotOrderOwner, http.StatusForbidden, "not_order_owner"},
	{payment.ErrInvalidSignature, http.StatusForbidden, "invalid_signature"},

	// user / reward
	{user.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{user.ErrUserBanned, http.StatusForbidden, "user_banned"},
	{user.ErrMessageLimitReached, http.StatusTooManyRequests, "message_limit_reached"},
	{reward.ErrAlreadyClaimed, http.StatusTooManyRequests, "already_claimed"},

	// admin
	{adminapp.ErrReasonRequired, http.StatusBadRequest, "reason_required"},
	{adminapp.ErrZeroDelta, http.StatusBadRequest, "zero_delta"},
	{historyapp.ErrInvalidTransactionTypeFilter, http.StatusBadRequest, "invalid_transaction_type"},
	{historyapp.ErrInvalidTimeFilter, http.StatusBadRequest, "invalid_time_filter"},
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			logger.Warn(ctx, "Domain error", map[string]interface{}{
				"code":  m.code,
				"error": err.Error(),
				"path":  c.Request().URL.Path,
			})
			return c.JSON(m.status, ErrorResponse{
				Error:   m.code,
				Message: err.Error(),
				Code:    m.code,
			})
		}
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー。詳細はログのみに残し、レスポンスには出さない
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
