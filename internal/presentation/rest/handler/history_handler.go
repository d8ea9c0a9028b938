package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	historyapp "wallet-server/internal/application/history"
	"wallet-server/internal/domain/transaction"
)

// HistoryHandler 履歴関連ハンドラー
type HistoryHandler struct {
	historyService *historyapp.HistoryApplicationService
}

// NewHistoryHandler 新しいHistoryHandlerを作成
func NewHistoryHandler(historyService *historyapp.HistoryApplicationService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetTransactionHistory トランザクション履歴取得ハンドラー
// @Summary トランザクション履歴を取得
// @Description 自分のトランザクション履歴を取得します。ページネーションとフィルタリングに対応しています
// @Tags history
// @Accept json
// @Produce json
// @Security Bearer
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0)
// @Param currency_type query string false "通貨タイプでフィルタ（coins/banhMi）" example(coins)
// @Param transaction_type query string false "トランザクションタイプでフィルタ" example(gift_sent)
// @Param from query string false "期間の開始（RFC3339）" example(2026-03-01T00:00:00Z)
// @Param to query string false "期間の終了（RFC3339）" example(2026-03-31T23:59:59Z)
// @Success 200 {object} TransactionHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/wallet/transactions [get]
func (h *HistoryHandler) GetTransactionHistory(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}

	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset parameter")
		}
	}

	resp, err := h.historyService.GetTransactionHistory(c.Request().Context(), &historyapp.GetTransactionHistoryRequest{
		UserID:          userID,
		Limit:           limit,
		Offset:          offset,
		CurrencyType:    c.QueryParam("currency_type"),
		TransactionType: c.QueryParam("transaction_type"),
		From:            c.QueryParam("from"),
		To:              c.QueryParam("to"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransactionHistoryResponse{
		Transactions: toTransactionItems(resp.Transactions),
		Limit:        resp.Limit,
		Offset:       resp.Offset,
	})
}

func toTransactionItems(transactions []*transaction.Transaction) []TransactionItem {
	items := make([]TransactionItem, len(transactions))
	for i, txn := range transactions {
		item := TransactionItem{
			TransactionID:   txn.TransactionID(),
			TransactionType: txn.TransactionType().String(),
			CurrencyType:    txn.CurrencyType().String(),
			Amount:          txn.Amount(),
			BalanceBefore:   txn.BalanceBefore(),
			BalanceAfter:    txn.BalanceAfter(),
			Metadata:        txn.Metadata(),
			CreatedAt:       txn.CreatedAt().Format(time.RFC3339),
		}
		if txn.OrderID() != nil {
			item.OrderID = *txn.OrderID()
		}
		items[i] = item
	}
	return items
}
