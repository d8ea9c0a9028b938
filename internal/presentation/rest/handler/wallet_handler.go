package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	walletapp "wallet-server/internal/application/wallet"
)

// WalletHandler ウォレット関連ハンドラー
type WalletHandler struct {
	walletService *walletapp.WalletApplicationService
}

// NewWalletHandler 新しいWalletHandlerを作成
func NewWalletHandler(walletService *walletapp.WalletApplicationService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetBalance 残高取得ハンドラー
// @Summary 残高を取得
// @Description 自分の両通貨の残高を取得します
// @Tags wallet
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} BalanceResponse "残高取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/wallet/balance [get]
func (h *WalletHandler) GetBalance(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	resp, err := h.walletService.GetBalance(c.Request().Context(), &walletapp.GetBalanceRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		UserID:   userID,
		Balances: resp.Balances,
	})
}

// Topup チャージハンドラー
// @Summary 残高をチャージ
// @Description 自分の残高をチャージします（1〜1000）
// @Tags wallet
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body TopupRequest true "チャージリクエスト"
// @Success 200 {object} TopupResponse "チャージ成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/wallet/topup [post]
func (h *WalletHandler) Topup(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody TopupRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.walletService.Topup(c.Request().Context(), &walletapp.TopupRequest{
		UserID:       userID,
		Amount:       reqBody.Amount,
		CurrencyType: reqBody.CurrencyType,
		Metadata:     reqBody.Metadata,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TopupResponse{
		TransactionID: resp.TransactionID,
		NewBalance:    resp.NewBalance,
	})
}

// Spend 消費ハンドラー
// @Summary 残高を消費
// @Description 自分の残高を消費します（1〜5000）
// @Tags wallet
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SpendRequest true "消費リクエスト"
// @Success 200 {object} SpendResponse "消費成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 409 {object} ErrorResponse "残高不足"
// @Router /api/wallet/spend [post]
func (h *WalletHandler) Spend(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody SpendRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.walletService.Spend(c.Request().Context(), &walletapp.SpendRequest{
		UserID:       userID,
		Amount:       reqBody.Amount,
		CurrencyType: reqBody.CurrencyType,
		Metadata:     reqBody.Metadata,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SpendResponse{
		TransactionID: resp.TransactionID,
		NewBalance:    resp.NewBalance,
	})
}

// Reward 広告リワードハンドラー
// @Summary 広告視聴リワードを受け取る
// @Description 広告視聴の報酬コインを受け取ります（24時間に1回）
// @Tags wallet
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body RewardRequest true "リワードリクエスト"
// @Success 200 {object} RewardResponse "リワード受取成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 429 {object} ErrorResponse "クールダウン中"
// @Router /api/wallet/reward [post]
func (h *WalletHandler) Reward(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody RewardRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.walletService.Reward(c.Request().Context(), &walletapp.RewardRequest{
		UserID: userID,
		AdID:   reqBody.AdID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RewardResponse{
		TransactionID: resp.TransactionID,
		Amount:        resp.Amount,
		NewBalance:    resp.NewBalance,
		NextClaimAt:   resp.NextClaimAt.Format(time.RFC3339),
	})
}
