package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "wallet-server/internal/application/admin"
	"wallet-server/internal/domain/wallet"
)

type adminTestEnv struct {
	walletRepo  *fakeWalletRepository
	profileRepo *fakeProfileRepository
	handler     *AdminHandler
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()
	logger, metrics := newTestObservability(t)
	walletRepo := newFakeWalletRepository()
	profileRepo := newFakeProfileRepository()
	txRepo := &fakeTransactionRepository{}
	appService := adminapp.NewAdminApplicationService(
		walletRepo,
		txRepo,
		profileRepo,
		newTestLedger(walletRepo, txRepo),
		fakeTxManager{},
		100,
		logger,
		metrics,
	)
	return &adminTestEnv{
		walletRepo:  walletRepo,
		profileRepo: profileRepo,
		handler:     NewAdminHandler(appService),
	}
}

func TestAdminHandler_AdjustBalance(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		requestBody    map[string]interface{}
		initialBalance int64
		expectedStatus int
	}{
		{
			name:   "正常系: 加算調整成功",
			userID: "user123",
			requestBody: map[string]interface{}{
				"delta":    100,
				"reason":   "campaign bonus",
				"admin_id": "admin01",
			},
			initialBalance: 500,
			expectedStatus: http.StatusOK,
		},
		{
			name:   "異常系: 理由がない",
			userID: "user123",
			requestBody: map[string]interface{}{
				"delta":    100,
				"admin_id": "admin01",
			},
			initialBalance: 500,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "異常系: 減算で残高不足",
			userID: "user123",
			requestBody: map[string]interface{}{
				"delta":    -1000,
				"reason":   "fraud rollback",
				"admin_id": "admin01",
			},
			initialBalance: 500,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			env := newAdminTestEnv(t)
			env.walletRepo.seed(tt.userID, wallet.CurrencyTypeCoins, tt.initialBalance)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/admin/users/"+tt.userID+"/adjust", bytes.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("user_id")
			c.SetParamValues(tt.userID)

			invokeHandler(t, c, e, env.handler.AdjustBalance)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response AdminAdjustResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, int64(600), response.NewBalance)
				assert.Equal(t, "user123", response.UserID)
			}
		})
	}
}

func TestAdminHandler_GetStats(t *testing.T) {
	e := echo.New()
	env := newAdminTestEnv(t)
	for _, id := range []string{"u1", "u2", "u3"} {
		env.profileRepo.profiles[id] = newTestProfile(t, id)
		env.walletRepo.seed(id, wallet.CurrencyTypeCoins, 100)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	invokeHandler(t, c, e, env.handler.GetStats)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response AdminStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, int64(3), response.TotalUsers)
	assert.Equal(t, int64(300), response.TotalCoins)
	assert.True(t, response.Estimate)
}

func TestAdminHandler_BanAndUnban(t *testing.T) {
	e := echo.New()
	env := newAdminTestEnv(t)

	body, _ := json.Marshal(map[string]interface{}{
		"reason":   "spam",
		"admin_id": "admin01",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/users/user123/ban", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("user123")

	invokeHandler(t, c, e, env.handler.BanUser)
	assert.Equal(t, http.StatusOK, rec.Code)

	var banResp AdminBanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banResp))
	assert.True(t, banResp.Banned)

	body, _ = json.Marshal(map[string]interface{}{"admin_id": "admin01"})
	req = httptest.NewRequest(http.MethodPost, "/admin/users/user123/unban", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("user123")

	invokeHandler(t, c, e, env.handler.UnbanUser)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banResp))
	assert.False(t, banResp.Banned)
}

func TestAdminHandler_UnbanUser_NotFound(t *testing.T) {
	e := echo.New()
	env := newAdminTestEnv(t)

	body, _ := json.Marshal(map[string]interface{}{"admin_id": "admin01"})
	req := httptest.NewRequest(http.MethodPost, "/admin/users/ghost/unban", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("ghost")

	invokeHandler(t, c, e, env.handler.UnbanUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_ListTransactions(t *testing.T) {
	e := echo.New()
	env := newAdminTestEnv(t)
	env.walletRepo.seed("user123", wallet.CurrencyTypeCoins, 1000)

	// 調整を1件作ってから一覧で確認する
	body, _ := json.Marshal(map[string]interface{}{
		"delta":    50,
		"reason":   "test credit",
		"admin_id": "admin01",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/users/user123/adjust", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("user123")
	invokeHandler(t, c, e, env.handler.AdjustBalance)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/transactions", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	invokeHandler(t, c, e, env.handler.ListTransactions)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response TransactionHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Transactions, 1)
	assert.Equal(t, "admin_adjustment", response.Transactions[0].TransactionType)
}
