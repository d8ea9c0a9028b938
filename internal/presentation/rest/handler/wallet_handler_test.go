package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletapp "wallet-server/internal/application/wallet"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/domain/wallet"
	restmiddleware "wallet-server/internal/presentation/rest/middleware"
)

func newWalletTestHandler(t *testing.T, walletRepo *fakeWalletRepository, limiter *fakeLimiter) *WalletHandler {
	t.Helper()
	logger, metrics := newTestObservability(t)
	txRepo := &fakeTransactionRepository{}
	appService := walletapp.NewWalletApplicationService(
		walletRepo,
		newTestLedger(walletRepo, txRepo),
		fakeTxManager{},
		limiter,
		10,
		24*time.Hour,
		logger,
		metrics,
	)
	return NewWalletHandler(appService)
}

// invokeHandler エラーハンドリングミドルウェア越しにハンドラーを実行する
func invokeHandler(t *testing.T, c echo.Context, e *echo.Echo, h echo.HandlerFunc) {
	t.Helper()
	logger, _ := newTestObservability(t)
	wrapped := restmiddleware.ErrorHandlerMiddleware(logger)(h)
	if err := wrapped(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func TestWalletHandler_GetBalance(t *testing.T) {
	tests := []struct {
		name           string
		tokenUserID    string
		setup          func(*fakeWalletRepository)
		expectedStatus int
	}{
		{
			name:        "正常系: 残高取得成功",
			tokenUserID: "user123",
			setup: func(repo *fakeWalletRepository) {
				repo.seed("user123", wallet.CurrencyTypeCoins, 1000)
				repo.seed("user123", wallet.CurrencyTypeBanhMi, 50)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: user_idがトークンにない",
			tokenUserID:    "",
			setup:          func(repo *fakeWalletRepository) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			walletRepo := newFakeWalletRepository()
			tt.setup(walletRepo)
			handler := newWalletTestHandler(t, walletRepo, &fakeLimiter{})

			req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.tokenUserID != "" {
				c.Set("user_id", tt.tokenUserID)
			}

			invokeHandler(t, c, e, handler.GetBalance)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response BalanceResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, "user123", response.UserID)
				assert.Equal(t, int64(1000), response.Balances["coins"])
				assert.Equal(t, int64(50), response.Balances["banhMi"])
			}
		})
	}
}

func TestWalletHandler_Topup(t *testing.T) {
	tests := []struct {
		name           string
		tokenUserID    string
		requestBody    map[string]interface{}
		expectedStatus int
	}{
		{
			name:        "正常系: チャージ成功",
			tokenUserID: "user123",
			requestBody: map[string]interface{}{
				"amount":        500,
				"currency_type": "coins",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "異常系: 上限超過",
			tokenUserID: "user123",
			requestBody: map[string]interface{}{
				"amount":        1001,
				"currency_type": "coins",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: user_idがトークンにない",
			tokenUserID:    "",
			requestBody:    map[string]interface{}{"amount": 100},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			walletRepo := newFakeWalletRepository()
			handler := newWalletTestHandler(t, walletRepo, &fakeLimiter{})

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/wallet/topup", bytes.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.tokenUserID != "" {
				c.Set("user_id", tt.tokenUserID)
			}

			invokeHandler(t, c, e, handler.Topup)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response TopupResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, int64(500), response.NewBalance)
				assert.NotEmpty(t, response.TransactionID)
			}
		})
	}
}

func TestWalletHandler_Spend(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		initialBalance int64
		expectedStatus int
	}{
		{
			name: "正常系: 消費成功",
			requestBody: map[string]interface{}{
				"amount":        300,
				"currency_type": "coins",
			},
			initialBalance: 1000,
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: 残高不足",
			requestBody: map[string]interface{}{
				"amount":        300,
				"currency_type": "coins",
			},
			initialBalance: 100,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			walletRepo := newFakeWalletRepository()
			walletRepo.seed("user123", wallet.CurrencyTypeCoins, tt.initialBalance)
			handler := newWalletTestHandler(t, walletRepo, &fakeLimiter{})

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/wallet/spend", bytes.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("user_id", "user123")

			invokeHandler(t, c, e, handler.Spend)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response SpendResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, int64(700), response.NewBalance)
			}
		})
	}
}

func TestWalletHandler_Reward(t *testing.T) {
	tests := []struct {
		name           string
		claimErr       error
		expectedStatus int
	}{
		{
			name:           "正常系: リワード受取成功",
			claimErr:       nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: クールダウン中",
			claimErr:       reward.ErrAlreadyClaimed,
			expectedStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			walletRepo := newFakeWalletRepository()
			handler := newWalletTestHandler(t, walletRepo, &fakeLimiter{claimErr: tt.claimErr})

			body, _ := json.Marshal(map[string]interface{}{"ad_id": "ad_001"})
			req := httptest.NewRequest(http.MethodPost, "/api/wallet/reward", bytes.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("user_id", "user123")

			invokeHandler(t, c, e, handler.Reward)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response RewardResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, int64(10), response.Amount)
				assert.Equal(t, int64(10), response.NewBalance)
				assert.NotEmpty(t, response.NextClaimAt)
			}
		})
	}
}
