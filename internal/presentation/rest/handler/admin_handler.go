package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	adminapp "wallet-server/internal/application/admin"
)

// AdminHandler 管理API関連ハンドラー
type AdminHandler struct {
	adminService *adminapp.AdminApplicationService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(adminService *adminapp.AdminApplicationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GetStats 統計取得ハンドラー
// @Summary 統計を取得（管理API）
// @Description ユーザー数・残高合計（サンプリング推定）・期間内トランザクション数を取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} AdminStatsResponse "統計取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c echo.Context) error {
	resp, err := h.adminService.GetStats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AdminStatsResponse{
		TotalUsers:         resp.TotalUsers,
		SampledUsers:       resp.SampledUsers,
		TotalCoins:         resp.TotalCoins,
		TotalBanhMi:        resp.TotalBanhMi,
		DailyTransactions:  resp.DailyTransactions,
		WeeklyTransactions: resp.WeeklyTransactions,
		Estimate:           resp.Estimate,
		GeneratedAt:        resp.GeneratedAt.Format(time.RFC3339),
	})
}

// AdjustBalance 残高調整ハンドラー
// @Summary 残高を調整（管理API）
// @Description 指定ユーザーの残高を加減算します。理由は必須です
// @Tags admin
// @Accept json
// @Produce json
// @Param user_id path string true "ユーザーID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body AdminAdjustRequest true "調整リクエスト"
// @Success 200 {object} AdminAdjustResponse "調整成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 409 {object} ErrorResponse "残高不足"
// @Router /admin/users/{user_id}/adjust [post]
func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	var reqBody AdminAdjustRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.AdjustBalance(c.Request().Context(), &adminapp.AdjustBalanceRequest{
		AdminID:      reqBody.AdminID,
		UserID:       userID,
		CurrencyType: reqBody.CurrencyType,
		Delta:        reqBody.Delta,
		Reason:       reqBody.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AdminAdjustResponse{
		TransactionID: resp.TransactionID,
		UserID:        resp.UserID,
		CurrencyType:  resp.CurrencyType,
		Delta:         resp.Delta,
		NewBalance:    resp.NewBalance,
	})
}

// ListTransactions トランザクション一覧取得ハンドラー
// @Summary トランザクション一覧を取得（管理API）
// @Description 全ユーザー横断で直近のトランザクションを取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param user_id query string false "ユーザーIDでフィルタ" example(user123)
// @Param transaction_type query string false "トランザクションタイプでフィルタ" example(momo_topup)
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 500)" default(50)
// @Success 200 {object} TransactionHistoryResponse "一覧取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}

	resp, err := h.adminService.ListTransactions(c.Request().Context(), &adminapp.ListTransactionsRequest{
		UserID:          c.QueryParam("user_id"),
		TransactionType: c.QueryParam("transaction_type"),
		Limit:           limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransactionHistoryResponse{
		Transactions: toTransactionItems(resp.Transactions),
		Limit:        limit,
	})
}

// BanUser ユーザーBANハンドラー
// @Summary ユーザーをBAN（管理API）
// @Description 指定ユーザーをBANします。理由は必須です
// @Tags admin
// @Accept json
// @Produce json
// @Param user_id path string true "ユーザーID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body AdminBanRequest true "BANリクエスト"
// @Success 200 {object} AdminBanResponse "BAN成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/users/{user_id}/ban [post]
func (h *AdminHandler) BanUser(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	var reqBody AdminBanRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.BanUser(c.Request().Context(), &adminapp.BanUserRequest{
		AdminID: reqBody.AdminID,
		UserID:  userID,
		Reason:  reqBody.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AdminBanResponse{
		UserID: resp.UserID,
		Banned: resp.Banned,
	})
}

// UnbanUser ユーザーBAN解除ハンドラー
// @Summary ユーザーのBANを解除（管理API）
// @Description 指定ユーザーのBANを解除します
// @Tags admin
// @Accept json
// @Produce json
// @Param user_id path string true "ユーザーID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body AdminUnbanRequest true "BAN解除リクエスト"
// @Success 200 {object} AdminBanResponse "BAN解除成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "ユーザーが存在しない"
// @Router /admin/users/{user_id}/unban [post]
func (h *AdminHandler) UnbanUser(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	var reqBody AdminUnbanRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.UnbanUser(c.Request().Context(), &adminapp.UnbanUserRequest{
		AdminID: reqBody.AdminID,
		UserID:  userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AdminBanResponse{
		UserID: resp.UserID,
		Banned: resp.Banned,
	})
}
